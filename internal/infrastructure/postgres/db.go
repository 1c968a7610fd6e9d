package postgres

import (
	"fmt"
	"time"

	"github.com/school-api/internal/config"
	"github.com/school-api/internal/domain"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Models is every relational model, in migration order.
var Models = []interface{}{
	&domain.School{},
	&domain.User{},
	&domain.Circular{},
	&domain.ReadState{},
	&domain.FeedItem{},
	&domain.DeviceToken{},
	&domain.ContentPage{},
	&domain.SecurityAlert{},
}

// Open connects to PostgreSQL and applies pool settings.
func Open(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true,
	}), GormConfig(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// GormConfig stores every timestamp in UTC.
func GormConfig(logLevel string) *gorm.Config {
	lvl := gormlogger.Warn
	switch logLevel {
	case "silent":
		lvl = gormlogger.Silent
	case "error":
		lvl = gormlogger.Error
	case "info":
		lvl = gormlogger.Info
	}
	return &gorm.Config{
		Logger:  gormlogger.Default.LogMode(lvl),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// Migrate creates or alters tables for all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
