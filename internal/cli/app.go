package cli

import (
	"fmt"
	"log/slog"

	"github.com/roach88/atelier/internal/catalog"
	"github.com/roach88/atelier/internal/config"
	"github.com/roach88/atelier/internal/notify"
	"github.com/roach88/atelier/internal/remote"
	"github.com/roach88/atelier/internal/store"
)

// App wires the full client: config, catalog, remote proxy, per-entity
// stores, and the durable state behind the notification aggregator.
type App struct {
	Config  *config.Config
	Catalog *catalog.Catalog
	Stores  *store.Stores
	State   *notify.ReadState
	Notify  *notify.Aggregator
}

// newApp builds the application for one command invocation. A catalog or
// state failure is fatal here, at startup, never at operation time.
func newApp(opts *RootOptions) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	var cat *catalog.Catalog
	if cfg.Catalog.Dir != "" {
		cat, err = catalog.LoadDir(cfg.Catalog.Dir)
	} else {
		cat, err = catalog.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	client := remote.New(cfg.Remote.BaseURL, cfg.Remote.Token,
		remote.WithTimeout(cfg.Remote.Timeout()))

	state, err := notify.OpenReadState(cfg.State.Path)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}

	aggregator, err := notify.New(state)
	if err != nil {
		state.Close()
		return nil, err
	}

	if ok, err := state.AuthFlag(); err == nil && !ok {
		slog.Debug("previous session did not reach the remote; token may need refresh")
	}

	return &App{
		Config:  cfg,
		Catalog: cat,
		Stores:  store.NewStores(client, cat),
		State:   state,
		Notify:  aggregator,
	}, nil
}

// Close releases the app's durable resources.
func (a *App) Close() error {
	return a.State.Close()
}

// recordAuth persists whether the remote accepted the configured token on
// the last round trip. Read back at the next startup.
func (a *App) recordAuth(roundTripErr error) {
	if err := a.State.SetAuthFlag(roundTripErr == nil); err != nil {
		slog.Warn("persist auth flag", "error", err)
	}
}
