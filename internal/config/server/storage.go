package server

// StorageServerConfig describes the directory holding uploaded images.
type StorageServerConfig struct {
	Path             string `mapstructure:"path"               yaml:"path"`
	PublicPrefix     string `mapstructure:"public_prefix"      yaml:"public_prefix"`
	ReconcileOnStart bool   `mapstructure:"reconcile_on_start" yaml:"reconcile_on_start"`
	DeleteWorkers    int    `mapstructure:"delete_workers"     yaml:"delete_workers"`
}
