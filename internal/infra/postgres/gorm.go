package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/sifan077/LinkShelf/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewGorm returns a gorm.DB connected to the configured Postgres database.
func NewGorm(cfg config.PostgresConfig) (*gorm.DB, error) {
	if cfg.URL == "" {
		return nil, config.ErrMissingDatabaseURL
	}

	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc:                                  now,
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: open gorm connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres: retrieve sql db: %w", err)
	}

	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	if cfg.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(int(cfg.MaxConns))
	}

	return db, nil
}

// now matches Postgres timestamp precision so a created row reads back unchanged.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// AutoMigrate uses GORM to perform schema migrations for the provided models.
func AutoMigrate(ctx context.Context, db *gorm.DB, models ...interface{}) error {
	if db == nil || len(models) == 0 {
		return nil
	}

	if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("postgres: auto migrate: %w", err)
	}

	return nil
}
