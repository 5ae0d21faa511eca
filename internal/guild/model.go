package guild

import "time"

// Config is the per-guild bot setup. Empty strings mean "not configured".
type Config struct {
	GuildID           string `gorm:"primaryKey;type:varchar(32)"`
	AdminRoleID       string `gorm:"not null;type:varchar(32);default:''"`
	HelperRoleID      string `gorm:"not null;type:varchar(32);default:''"`
	QuestionChannelID string `gorm:"not null;type:varchar(32);default:''"`
	HypeChannelID     string `gorm:"not null;type:varchar(32);default:''"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Config) TableName() string { return "guild_configs" }

// Field names a configurable setting.
type Field string

const (
	FieldAdminRole       Field = "admin"
	FieldHelperRole      Field = "helper"
	FieldQuestionChannel Field = "question"
	FieldHypeChannel     Field = "hype"
)

func (f Field) Valid() bool {
	switch f {
	case FieldAdminRole, FieldHelperRole, FieldQuestionChannel, FieldHypeChannel:
		return true
	}
	return false
}

func (f Field) Column() string {
	switch f {
	case FieldAdminRole:
		return "admin_role_id"
	case FieldHelperRole:
		return "helper_role_id"
	case FieldQuestionChannel:
		return "question_channel_id"
	case FieldHypeChannel:
		return "hype_channel_id"
	}
	return ""
}

// IsChannel reports whether the field stores a channel rather than a role.
func (f Field) IsChannel() bool {
	return f == FieldQuestionChannel || f == FieldHypeChannel
}

func (c Config) Get(f Field) string {
	switch f {
	case FieldAdminRole:
		return c.AdminRoleID
	case FieldHelperRole:
		return c.HelperRoleID
	case FieldQuestionChannel:
		return c.QuestionChannelID
	case FieldHypeChannel:
		return c.HypeChannelID
	}
	return ""
}

// With returns a copy of c with f set to value.
func (c Config) With(f Field, value string) Config {
	switch f {
	case FieldAdminRole:
		c.AdminRoleID = value
	case FieldHelperRole:
		c.HelperRoleID = value
	case FieldQuestionChannel:
		c.QuestionChannelID = value
	case FieldHypeChannel:
		c.HypeChannelID = value
	}
	return c
}
