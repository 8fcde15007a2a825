package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	config "github.com/mwantia/photolio/internal/config/server"
	"github.com/mwantia/photolio/pkg/db/migrations"
)

// GormStore implements MetadataStore on top of GORM. The dialect is chosen
// by Config.Type.
type GormStore struct {
	db  *gorm.DB
	cfg Config
}

// DB returns the underlying GORM database instance
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

// Config holds the dialect and pool configuration
type Config struct {
	Type           string
	DSN            string
	MaxOpenConns   int
	ConnectRetries int
	ConnectBackoff time.Duration
	LogLevel       logger.LogLevel
}

// ConfigFromServer converts the metadata section of the server configuration.
func ConfigFromServer(cfg config.MetadataServerConfig) (Config, error) {
	c := Config{
		Type:           cfg.Type,
		MaxOpenConns:   cfg.MaxOpenConns,
		ConnectRetries: cfg.ConnectRetries,
		LogLevel:       parseLogLevel(cfg.LogLevel),
	}

	if cfg.ConnectBackoff != "" {
		backoff, err := time.ParseDuration(cfg.ConnectBackoff)
		if err != nil {
			return Config{}, fmt.Errorf("invalid connect_backoff: %w", err)
		}
		c.ConnectBackoff = backoff
	}

	switch cfg.Type {
	case config.MetadataTypeSQLite:
		c.DSN = cfg.SQLite.Path
	case config.MetadataTypePostgres:
		c.DSN = cfg.Postgres.DSN
	case config.MetadataTypeMySQL:
		c.DSN = cfg.MySQL.DSN
	default:
		return Config{}, fmt.Errorf("unsupported metadata type %q", cfg.Type)
	}

	return c, nil
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		return logger.Error
	case "warn", "warning":
		return logger.Warn
	case "info", "debug":
		return logger.Info
	default:
		return logger.Silent
	}
}

// NewGormStore creates a new metadata store. No connection is made until Connect.
func NewGormStore(cfg Config) (*GormStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("%s dsn is required", cfg.Type)
	}

	// Default to silent logging
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Silent
	}

	var dialector gorm.Dialector
	switch cfg.Type {
	case config.MetadataTypeSQLite, "":
		dsn := cfg.DSN
		if !strings.Contains(dsn, "?") {
			dsn += "?_pragma=busy_timeout(5000)"
		}
		dialector = sqlite.Open(dsn)
	case config.MetadataTypePostgres:
		dialector = postgres.Open(cfg.DSN)
	case config.MetadataTypeMySQL:
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported metadata type %q", cfg.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:               logger.Default.LogMode(cfg.LogLevel),
		TranslateError:       true,
		DisableAutomaticPing: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Type, err)
	}

	return &GormStore{
		db:  db,
		cfg: cfg,
	}, nil
}

// Connect configures the connection pool and pings the database, retrying
// ConnectRetries times with ConnectBackoff between attempts.
func (s *GormStore) Connect(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if s.cfg.Type == config.MetadataTypeSQLite || s.cfg.Type == "" {
		sqlDB.SetMaxOpenConns(1) // SQLite only supports 1 writer
		sqlDB.SetMaxIdleConns(1)
	} else if s.cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(s.cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(s.cfg.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	attempts := s.cfg.ConnectRetries + 1
	for attempt := 1; ; attempt++ {
		err = sqlDB.PingContext(ctx)
		if err == nil || attempt >= attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.cfg.ConnectBackoff):
		}
	}
	if err != nil {
		return fmt.Errorf("failed to connect after %d attempt(s): %w", attempts, err)
	}

	return nil
}

// Close closes the database connection
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

// Migrate runs database migrations
func (s *GormStore) Migrate(ctx context.Context) error {
	return migrations.NewMigrator(s.db).Migrate(ctx)
}

// Health checks database connectivity
func (s *GormStore) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// translate maps GORM errors onto the store sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

// isUniqueViolation catches constraint errors a dialect did not translate.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "Duplicate entry")
}

// exists reports ErrNotFound unless a row of model matches the condition.
func exists(tx *gorm.DB, model any, what string, query string, args ...any) error {
	var count int64
	if err := tx.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return nil
}
