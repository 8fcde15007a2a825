package server

const (
	MetadataTypeSQLite   = "sqlite"
	MetadataTypePostgres = "postgres"
	MetadataTypeMySQL    = "mysql"
)

// MetadataServerConfig holds metadata store configuration
type MetadataServerConfig struct {
	Type           string                 `mapstructure:"type"            yaml:"type"`
	MaxOpenConns   int                    `mapstructure:"max_open_conns"  yaml:"max_open_conns"`
	ConnectRetries int                    `mapstructure:"connect_retries" yaml:"connect_retries"`
	ConnectBackoff string                 `mapstructure:"connect_backoff" yaml:"connect_backoff"`
	LogLevel       string                 `mapstructure:"log_level"       yaml:"log_level"`
	SQLite         MetadataSQLiteConfig   `mapstructure:"sqlite"          yaml:"sqlite"`
	Postgres       MetadataPostgresConfig `mapstructure:"postgres"        yaml:"postgres"`
	MySQL          MetadataMySQLConfig    `mapstructure:"mysql"           yaml:"mysql"`
}

// MetadataSQLiteConfig holds SQLite-specific configuration
type MetadataSQLiteConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type MetadataPostgresConfig struct {
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

type MetadataMySQLConfig struct {
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}
