package db

import (
	"fmt"

	"tabot/internal/guild"
	"tabot/internal/hype"
	"tabot/internal/question"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(dsn string) (*gorm.DB, error) {
	return Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

// Open wraps gorm.Open so tests can hand in another dialector.
func Open(dialector gorm.Dialector, cfg *gorm.Config) (*gorm.DB, error) {
	gdb, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables
	if err := gdb.AutoMigrate(
		&question.Question{},
		&guild.Config{},
		&hype.Hype{},
	); err != nil {
		return err
	}

	// Stats and warm-up scan solved questions per guild in solve order.
	stmts := []string{
		`create index if not exists idx_questions_guild_solved on questions(guild_id, solved, solved_at);`,
		`create index if not exists idx_questions_claimant on questions(guild_id, claimant_id);`,
		`create index if not exists idx_hypes_guild_helper on hypes(guild_id, helper_id);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
