package server

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type BaseServerConfig struct {
	ShutdownTimeout string `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	Log      LogServerConfig      `mapstructure:"log"      yaml:"log"`
	HTTP     HTTPServerConfig     `mapstructure:"http"     yaml:"http"`
	Metadata MetadataServerConfig `mapstructure:"metadata" yaml:"metadata"`
	Storage  StorageServerConfig  `mapstructure:"storage"  yaml:"storage"`
}

func LoadServerConfig() (*BaseServerConfig, error) {
	cfg := &BaseServerConfig{}

	setDefaults()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks values viper cannot type-check on its own.
func (cfg *BaseServerConfig) Validate() error {
	if _, err := time.ParseDuration(cfg.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown_timeout: %w", err)
	}

	switch cfg.Metadata.Type {
	case MetadataTypeSQLite:
		if cfg.Metadata.SQLite.Path == "" {
			return fmt.Errorf("metadata.sqlite.path is required")
		}
	case MetadataTypePostgres:
		if cfg.Metadata.Postgres.DSN == "" {
			return fmt.Errorf("metadata.postgres.dsn is required")
		}
	case MetadataTypeMySQL:
		if cfg.Metadata.MySQL.DSN == "" {
			return fmt.Errorf("metadata.mysql.dsn is required")
		}
	default:
		return fmt.Errorf("unsupported metadata.type %q", cfg.Metadata.Type)
	}

	if cfg.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}

	if cfg.HTTP.MaxUploadSize <= 0 {
		return fmt.Errorf("http.max_upload_size must be positive")
	}

	return nil
}

// ShutdownDuration returns the parsed shutdown timeout, or 60 seconds when unparsable.
func (cfg *BaseServerConfig) ShutdownDuration() time.Duration {
	timeout, err := time.ParseDuration(cfg.ShutdownTimeout)
	if err != nil {
		return 60 * time.Second
	}
	return timeout
}
