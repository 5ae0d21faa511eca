package guild

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("guild config not found")

type Repo struct {
	DB *gorm.DB
}

func (r *Repo) Get(ctx context.Context, guildID string) (*Config, error) {
	var c Config
	if err := r.DB.WithContext(ctx).Where("guild_id = ?", guildID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) List(ctx context.Context) ([]Config, error) {
	var rows []Config
	err := r.DB.WithContext(ctx).Order("guild_id asc").Find(&rows).Error
	return rows, err
}

// Create inserts the config unless the guild already has one.
func (r *Repo) Create(ctx context.Context, c *Config) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(c).Error
}

// Upsert sets a single field, creating the guild row with defaults when missing.
func (r *Repo) Upsert(ctx context.Context, guildID string, f Field, value string) error {
	now := time.Now().UTC()
	row := Config{GuildID: guildID, CreatedAt: now, UpdatedAt: now}.With(f, value)

	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "guild_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				f.Column():   value,
				"updated_at": now,
			}),
		}).
		Create(&row).Error
}
