package server

type HTTPServerConfig struct {
	Address       string   `mapstructure:"address"         yaml:"address"`
	ReadTimeout   string   `mapstructure:"read_timeout"    yaml:"read_timeout"`
	WriteTimeout  string   `mapstructure:"write_timeout"   yaml:"write_timeout"`
	MaxUploadSize int64    `mapstructure:"max_upload_size" yaml:"max_upload_size"`
	CORSOrigins   []string `mapstructure:"cors_origins"    yaml:"cors_origins"`
}
