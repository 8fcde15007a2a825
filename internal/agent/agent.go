package agent

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mwantia/fabric/pkg/container"
	"golang.org/x/sync/errgroup"

	config "github.com/mwantia/photolio/internal/config/server"
	"github.com/mwantia/photolio/pkg/api"
	"github.com/mwantia/photolio/pkg/asset"
	"github.com/mwantia/photolio/pkg/blob"
	"github.com/mwantia/photolio/pkg/db/store"
	"github.com/mwantia/photolio/pkg/events"
	"github.com/mwantia/photolio/pkg/log"
)

type PhotolioAgent struct {
	mutex sync.RWMutex
	wait  sync.WaitGroup

	cfg *config.BaseServerConfig
	sc  *container.ServiceContainer
	log log.LoggerService

	store  *store.GormStore
	blobs  *blob.LocalStore
	hub    *events.Hub
	assets *asset.Manager
	server *http.Server

	// ready is closed once the listener accepts connections.
	ready chan struct{}
	addr  net.Addr
}

func NewAgent(cfg *config.BaseServerConfig) *PhotolioAgent {
	return NewAgentWithLogger(cfg, log.NewLoggerService("photolio", cfg.Log))
}

func NewAgentWithLogger(cfg *config.BaseServerConfig, logger log.LoggerService) *PhotolioAgent {
	return &PhotolioAgent{
		cfg:   cfg,
		sc:    container.NewServiceContainer(),
		log:   logger,
		ready: make(chan struct{}),
	}
}

// Ready is closed once the HTTP listener is bound.
func (pa *PhotolioAgent) Ready() <-chan struct{} {
	return pa.ready
}

// Addr returns the bound listener address, nil before Ready.
func (pa *PhotolioAgent) Addr() net.Addr {
	pa.mutex.RLock()
	defer pa.mutex.RUnlock()
	return pa.addr
}

func (pa *PhotolioAgent) setupServices(ctx context.Context) error {
	pa.log.Debug("Registering 'LoggerService'...")
	if err := container.Register[log.LoggerServiceImpl](pa.sc,
		container.With[log.LoggerService](),
		container.WithInstance(pa.log)); err != nil {
		return err
	}

	assetLog, err := log.Resolve(ctx, pa.sc, "assets")
	if err != nil {
		return err
	}
	eventLog, err := log.Resolve(ctx, pa.sc, "events")
	if err != nil {
		return err
	}

	storeCfg, err := store.ConfigFromServer(pa.cfg.Metadata)
	if err != nil {
		return fmt.Errorf("failed to read metadata configuration: %w", err)
	}

	pa.log.Info("Opening '%s' metadata store...", storeCfg.Type)
	pa.store, err = store.NewGormStore(storeCfg)
	if err != nil {
		return err
	}
	if err := pa.store.Connect(ctx); err != nil {
		return err
	}
	if err := pa.store.Migrate(ctx); err != nil {
		return err
	}

	pa.blobs, err = blob.NewLocalStore(pa.cfg.Storage.Path)
	if err != nil {
		return err
	}

	pa.hub = events.NewHub(eventLog, pa.cfg.HTTP.CORSOrigins)
	pa.assets = asset.NewManager(pa.store, pa.blobs, assetLog,
		asset.WithPublisher(pa.hub),
		asset.WithDeleteWorkers(pa.cfg.Storage.DeleteWorkers))

	errs := container.Errors{}

	pa.log.Debug("Registering 'MetadataStore'...")
	errs.Add(container.Register[store.GormStore](pa.sc,
		container.With[store.MetadataStore](),
		container.WithInstance(pa.store)))

	pa.log.Debug("Registering 'BlobStore'...")
	errs.Add(container.Register[blob.LocalStore](pa.sc,
		container.With[blob.Store](),
		container.WithInstance(pa.blobs)))

	pa.log.Debug("Registering 'EventPublisher'...")
	errs.Add(container.Register[events.Hub](pa.sc,
		container.With[events.Publisher](),
		container.WithInstance(pa.hub)))

	return errs.Errors()
}

func (pa *PhotolioAgent) setupServer(ctx context.Context) error {
	httpLog, err := log.Resolve(ctx, pa.sc, "http")
	if err != nil {
		return err
	}

	handler := &api.Handler{
		Assets:        pa.assets,
		Store:         pa.store,
		Logger:        httpLog,
		Events:        http.HandlerFunc(pa.hub.ServeWS),
		ImagesDir:     pa.blobs.Root(),
		PublicPrefix:  pa.cfg.Storage.PublicPrefix,
		MaxUploadSize: pa.cfg.HTTP.MaxUploadSize,
		CORSOrigins:   pa.cfg.HTTP.CORSOrigins,
	}

	pa.server = &http.Server{
		Addr:              pa.cfg.HTTP.Address,
		Handler:           handler.Routes(),
		ReadTimeout:       parseDuration(pa.cfg.HTTP.ReadTimeout, 30*time.Second),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      parseDuration(pa.cfg.HTTP.WriteTimeout, 60*time.Second),
	}
	return nil
}

func (pa *PhotolioAgent) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pa.mutex.Lock()

	if err := pa.setupServices(ctx); err != nil {
		pa.mutex.Unlock()
		pa.closeStore()
		return err
	}
	if err := pa.setupServer(ctx); err != nil {
		pa.mutex.Unlock()
		pa.closeStore()
		return err
	}

	pa.mutex.Unlock()
	defer pa.closeStore()

	if pa.cfg.Storage.ReconcileOnStart {
		report, err := pa.assets.Reconcile(ctx, asset.ReconcileOptions{})
		if err != nil {
			pa.log.Warn("Reconcile on start finished with errors: %v", err)
		} else {
			pa.log.Info("Reconcile on start removed %d orphaned blob(s), %d dangling photo(s) remain",
				len(report.RemovedBlobs), len(report.DanglingPhotos))
		}
	}

	listener, err := net.Listen("tcp", pa.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", pa.server.Addr, err)
	}

	pa.mutex.Lock()
	pa.addr = listener.Addr()
	pa.mutex.Unlock()
	close(pa.ready)

	pa.log.Info("Serving photo library on %s", listener.Addr())

	group, groupCtx := errgroup.WithContext(ctx)

	pa.wait.Add(1)
	group.Go(func() error {
		defer pa.wait.Done()
		pa.hub.Run(groupCtx)
		return nil
	})

	group.Go(func() error {
		if err := pa.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		return pa.shutdown()
	})

	err = group.Wait()
	pa.wait.Wait()
	return err
}

func (pa *PhotolioAgent) shutdown() error {
	timeout := pa.cfg.ShutdownDuration()
	pa.log.Info("Shutting down (timeout %s)...", timeout)

	shutdown, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if err := pa.server.Shutdown(shutdown); err != nil {
		errs = append(errs, fmt.Errorf("failed to shut down http server: %w", err))
	}
	if err := pa.sc.Cleanup(shutdown); err != nil {
		errs = append(errs, fmt.Errorf("failed to complete service container cleanup: %w", err))
	}
	return errors.Join(errs...)
}

func (pa *PhotolioAgent) closeStore() {
	if pa.store == nil {
		return
	}
	if err := pa.store.Close(); err != nil {
		pa.log.Warn("Failed to close metadata store: %v", err)
	}
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	return fallback
}
