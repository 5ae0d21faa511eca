package hype

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Hype records one highlighted message.
type Hype struct {
	MessageID  string    `gorm:"primaryKey;type:varchar(32)"`
	GuildID    string    `gorm:"index;not null;type:varchar(32)"`
	ChannelID  string    `gorm:"not null;type:varchar(32)"`
	HelperID   string    `gorm:"index;not null;type:varchar(32)"`
	HelperName string    `gorm:"not null;default:''"`
	CreatedAt  time.Time `gorm:"not null"`
}

// Count is one row of the hype leaderboard.
type Count struct {
	HelperID   string
	HelperName string
	Count      int64
}

type Repo struct {
	DB *gorm.DB
}

// Create inserts the record and reports false when the message was already hyped.
func (r *Repo) Create(ctx context.Context, h *Hype) (bool, error) {
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(h)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *Repo) CountByHelper(ctx context.Context, guildID, helperID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&Hype{}).
		Where("guild_id = ? AND helper_id = ?", guildID, helperID).
		Count(&n).Error
	return n, err
}

// Leaderboard counts hypes per helper, most hyped first.
func (r *Repo) Leaderboard(ctx context.Context, guildID string) ([]Count, error) {
	var out []Count
	err := r.DB.WithContext(ctx).
		Model(&Hype{}).
		Select("helper_id, max(helper_name) as helper_name, count(*) as count").
		Where("guild_id = ?", guildID).
		Group("helper_id").
		Order("count desc, helper_id asc").
		Scan(&out).Error
	return out, err
}
