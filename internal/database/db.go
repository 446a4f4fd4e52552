package database

import (
	"context"
	"fmt"

	"paper_catalog_go_backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config describes how to reach the relational store.
type Config struct {
	Driver       string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	Path         string // sqlite file or DSN
	MaxOpenConns int
	LogQueries   bool
}

func (c Config) dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case DriverPostgres, "":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
			c.Host,
			c.User,
			c.Password,
			c.Name,
			c.Port,
			c.SSLMode,
		)
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(c.Path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

// Open connects to the store and migrates the papers table.
func Open(cfg Config) (*gorm.DB, error) {
	dialector, err := cfg.dialector()
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if cfg.LogQueries {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// sqlite allows a single writer; in-memory databases also live and
		// die with their connection.
		sqlDB.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := db.AutoMigrate(&models.Paper{}); err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}

	log.Info().Str("driver", dialector.Name()).Msg("Database ready")
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SessionProvider hands out a store session scoped to one unit of work.
type SessionProvider interface {
	WithSession(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// GormSessionProvider pins a dedicated pool connection for the duration of fn
// and returns it to the pool on every exit path, including panics.
type GormSessionProvider struct {
	db *gorm.DB
}

func NewSessionProvider(db *gorm.DB) *GormSessionProvider {
	return &GormSessionProvider{db: db}
}

func (p *GormSessionProvider) WithSession(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return p.db.WithContext(ctx).Connection(fn)
}

// Ping checks that a session can be acquired and the store answers.
func Ping(ctx context.Context, sessions SessionProvider) error {
	return sessions.WithSession(ctx, func(tx *gorm.DB) error {
		var one int
		return tx.Raw("SELECT 1").Scan(&one).Error
	})
}
