package core

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"guardpost.app/guardpost/core/models"
)

type LogLevel int

const (
	LogLevelSilent LogLevel = iota + 1
	LogLevelError
	LogLevelWarn
	LogLevelInfo
)

// DatabaseManager owns the connection pool and hands out context-bound
// gorm sessions to handlers.
type DatabaseManager struct {
	SqlDB    *sql.DB
	gormDB   *gorm.DB
	LogLevel LogLevel
}

func New(dsn string, maxConnection int) (*DatabaseManager, error) {
	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open pool: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxConnection)
	sqlDB.SetMaxIdleConns(maxConnection)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping pool: %w", err)
	}

	dm := &DatabaseManager{SqlDB: sqlDB, LogLevel: LogLevelWarn}

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn: sqlDB, // lock GORM to this pool
	}), &gorm.Config{
		Logger: logger.Default.LogMode(dm.gormLogLevel()),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	dm.gormDB = gormDB

	return dm, nil
}

// NewWithGorm wraps an already-open gorm connection. Tests use it with an
// in-memory sqlite database.
func NewWithGorm(gormDB *gorm.DB) (*DatabaseManager, error) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap pool: %w", err)
	}
	return &DatabaseManager{SqlDB: sqlDB, gormDB: gormDB, LogLevel: LogLevelSilent}, nil
}

func (dm *DatabaseManager) gormLogLevel() logger.LogLevel {
	switch dm.LogLevel {
	case LogLevelError:
		return logger.Error
	case LogLevelWarn:
		return logger.Warn
	case LogLevelInfo:
		return logger.Info
	default:
		return logger.Silent
	}
}

// GetDB returns a gorm session bound to ctx.
func (dm *DatabaseManager) GetDB(ctx context.Context) *gorm.DB {
	return dm.gormDB.WithContext(ctx)
}

func (dm *DatabaseManager) Exec(ctx context.Context, fn func(db *gorm.DB) error) error {
	return fn(dm.GetDB(ctx))
}

// Migrate creates or updates the schema for all application tables.
func (dm *DatabaseManager) Migrate() error {
	return dm.gormDB.AutoMigrate(
		&models.User{},
		&models.Location{},
		&models.JobPost{},
		&models.Attendance{},
		&models.LocationSample{},
		&models.Report{},
	)
}

// Close closes the global pool
func (dm *DatabaseManager) Close() error {
	return dm.SqlDB.Close()
}
