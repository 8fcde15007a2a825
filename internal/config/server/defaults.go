package server

import "github.com/spf13/viper"

func GetServerDefault() BaseServerConfig {
	return BaseServerConfig{
		ShutdownTimeout: "10s",

		Log: LogServerConfig{
			Level:      "INFO",
			TimeFormat: "2006-01-02 15:04:05",
			File:       "",
			NoColor:    false,
			JSON:       false,
			NoTerminal: false,
			Rotation: LogServerRotationConfig{
				MaxSize:    128,
				MaxBackups: 5,
				MaxAge:     16,
				Compress:   false,
			},
		},

		HTTP: HTTPServerConfig{
			Address:       ":8800",
			ReadTimeout:   "30s",
			WriteTimeout:  "60s",
			MaxUploadSize: 32 << 20,
			CORSOrigins:   []string{},
		},

		Metadata: MetadataServerConfig{
			Type:           MetadataTypeSQLite,
			MaxOpenConns:   10,
			ConnectRetries: 3,
			ConnectBackoff: "2s",
			LogLevel:       "silent",
			SQLite: MetadataSQLiteConfig{
				Path: "photolio.db",
			},
			Postgres: MetadataPostgresConfig{
				DSN: "",
			},
			MySQL: MetadataMySQLConfig{
				DSN: "",
			},
		},

		Storage: StorageServerConfig{
			Path:             "public/images",
			PublicPrefix:     "/images",
			ReconcileOnStart: false,
			DeleteWorkers:    4,
		},
	}
}

func setDefaults() {
	defaults := GetServerDefault()

	viper.SetDefault("shutdown_timeout", defaults.ShutdownTimeout)

	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.time_format", defaults.Log.TimeFormat)
	viper.SetDefault("log.file", defaults.Log.File)
	viper.SetDefault("log.no_color", defaults.Log.NoColor)
	viper.SetDefault("log.json", defaults.Log.JSON)
	viper.SetDefault("log.no_terminal", defaults.Log.NoTerminal)
	viper.SetDefault("log.rotation.max_size", defaults.Log.Rotation.MaxSize)
	viper.SetDefault("log.rotation.max_backups", defaults.Log.Rotation.MaxBackups)
	viper.SetDefault("log.rotation.max_age", defaults.Log.Rotation.MaxAge)
	viper.SetDefault("log.rotation.compress", defaults.Log.Rotation.Compress)

	viper.SetDefault("http.address", defaults.HTTP.Address)
	viper.SetDefault("http.read_timeout", defaults.HTTP.ReadTimeout)
	viper.SetDefault("http.write_timeout", defaults.HTTP.WriteTimeout)
	viper.SetDefault("http.max_upload_size", defaults.HTTP.MaxUploadSize)
	viper.SetDefault("http.cors_origins", defaults.HTTP.CORSOrigins)

	viper.SetDefault("metadata.type", defaults.Metadata.Type)
	viper.SetDefault("metadata.max_open_conns", defaults.Metadata.MaxOpenConns)
	viper.SetDefault("metadata.connect_retries", defaults.Metadata.ConnectRetries)
	viper.SetDefault("metadata.connect_backoff", defaults.Metadata.ConnectBackoff)
	viper.SetDefault("metadata.log_level", defaults.Metadata.LogLevel)
	viper.SetDefault("metadata.sqlite.path", defaults.Metadata.SQLite.Path)
	viper.SetDefault("metadata.postgres.dsn", defaults.Metadata.Postgres.DSN)
	viper.SetDefault("metadata.mysql.dsn", defaults.Metadata.MySQL.DSN)

	viper.SetDefault("storage.path", defaults.Storage.Path)
	viper.SetDefault("storage.public_prefix", defaults.Storage.PublicPrefix)
	viper.SetDefault("storage.reconcile_on_start", defaults.Storage.ReconcileOnStart)
	viper.SetDefault("storage.delete_workers", defaults.Storage.DeleteWorkers)
}
