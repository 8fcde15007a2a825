package server

import (
	"context"
	"fmt"

	config "github.com/mwantia/photolio/internal/config/server"
	"github.com/mwantia/photolio/pkg/db/store"
)

// openStore loads the configuration and connects to the metadata store
// without applying migrations.
func openStore(ctx context.Context) (*config.BaseServerConfig, *store.GormStore, error) {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load server configuration: %w", err)
	}

	storeCfg, err := store.ConfigFromServer(cfg.Metadata)
	if err != nil {
		return nil, nil, err
	}

	st, err := store.NewGormStore(storeCfg)
	if err != nil {
		return nil, nil, err
	}
	if err := st.Connect(ctx); err != nil {
		return nil, nil, err
	}
	return cfg, st, nil
}
