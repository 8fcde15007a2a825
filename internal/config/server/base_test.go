package server

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadServerConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8800", cfg.HTTP.Address)
	assert.Equal(t, MetadataTypeSQLite, cfg.Metadata.Type)
	assert.Equal(t, "public/images", cfg.Storage.Path)
	assert.Equal(t, 10*time.Second, cfg.ShutdownDuration())
}

func TestLoadServerConfigOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("metadata.type", "postgres")
	viper.Set("metadata.postgres.dsn", "host=localhost user=root dbname=photolio")
	viper.Set("storage.path", "/srv/images")

	cfg, err := LoadServerConfig()
	require.NoError(t, err)

	assert.Equal(t, MetadataTypePostgres, cfg.Metadata.Type)
	assert.Equal(t, "/srv/images", cfg.Storage.Path)
}

func TestValidateRejectsMissingDSN(t *testing.T) {
	cfg := GetServerDefault()
	cfg.Metadata.Type = MetadataTypeMySQL

	assert.ErrorContains(t, cfg.Validate(), "metadata.mysql.dsn")

	cfg.Metadata.Type = "oracle"
	assert.ErrorContains(t, cfg.Validate(), "unsupported metadata.type")
}

func TestShutdownDurationFallback(t *testing.T) {
	cfg := GetServerDefault()
	cfg.ShutdownTimeout = "soon"

	assert.Equal(t, 60*time.Second, cfg.ShutdownDuration())
}
