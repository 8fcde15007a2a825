package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	config "github.com/mwantia/photolio/internal/config/server"
)

func TestWriteDefaultConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "conf")

	filename, err := writeDefaultConfig(dir, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, configFileName), filename)

	data, err := os.ReadFile(filename)
	require.NoError(t, err)

	var cfg config.BaseServerConfig
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, ":8800", cfg.HTTP.Address)
	assert.Equal(t, config.MetadataTypeSQLite, cfg.Metadata.Type)
	assert.Equal(t, "public/images", cfg.Storage.Path)
}

func TestWriteDefaultConfigKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, configFileName)
	require.NoError(t, os.WriteFile(existing, []byte("http:\n  address: :9000\n"), 0644))

	filename, err := writeDefaultConfig(dir, false)
	require.NoError(t, err)
	assert.Empty(t, filename)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Contains(t, string(data), ":9000")

	filename, err = writeDefaultConfig(dir, true)
	require.NoError(t, err)
	assert.Equal(t, existing, filename)
}
