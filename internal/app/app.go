package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/bassista/go_preview/internal/cache"
	"github.com/bassista/go_preview/internal/component"
	"github.com/bassista/go_preview/internal/config"
	"github.com/bassista/go_preview/internal/livereload"
	"github.com/bassista/go_preview/internal/logger"
	"github.com/bassista/go_preview/internal/preview"
	"github.com/bassista/go_preview/internal/remote"
	"github.com/bassista/go_preview/internal/render"
	"github.com/bassista/go_preview/internal/style"
)

// App is the application container (immutable dependencies + lifecycle context).
// It is not a request context; handlers should still use gin's request context.
type App struct {
	Config  *config.Config
	Stores  config.Stores
	Cache   *cache.AssetCache
	Catalog *component.Catalog
	Pages   *preview.Composer
	Hub     *livereload.Hub

	BaseCtx context.Context
	Cancel  context.CancelFunc
}

// New wires the preview pipeline around fetcher, which every remote request
// (theme assets, homepages, settings) goes through.
func New(cfg *config.Config, fetcher remote.Fetcher) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if fetcher == nil {
		return nil, errors.New("fetcher is nil")
	}
	if len(cfg.Stores) == 0 {
		return nil, errors.New("no stores configured")
	}

	catalog, err := component.NewCatalog(cfg.Preview.ComponentsDir, cfg.Preview.FixtureFile)
	if err != nil {
		return nil, fmt.Errorf("init component catalog: %w", err)
	}

	assets := cache.NewAssetCache(fetcher, cfg.Cache.TTL)
	renderer := render.NewLiquidRenderer(cfg.Preview.ComponentsDir, cfg.Preview.SnippetsDir, cfg.Preview.TemplateExt)
	pages := preview.NewComposer(cfg.Stores, catalog, style.NewComposer(cfg.Stores, fetcher), renderer, assets,
		preview.Options{InjectSettings: cfg.Preview.InjectSettings})

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		Config:  cfg,
		Stores:  cfg.Stores,
		Cache:   assets,
		Catalog: catalog,
		Pages:   pages,
		Hub:     livereload.NewHub(),
		BaseCtx: ctx,
		Cancel:  cancel,
	}, nil
}

func (a *App) Shutdown() {
	if a == nil || a.Cancel == nil {
		return
	}
	a.Cancel()
}

// StartWatchers starts the components file watcher and, when entries expire,
// the cache sweeper. Both stop when the app shuts down.
func (a *App) StartWatchers() error {
	if a.Config.Watch.Enabled {
		w, err := livereload.NewWatcher(a.Catalog.Dir(), a.Config.Watch.Debounce, a.Hub)
		if err != nil {
			return fmt.Errorf("cannot start components watcher: %w", err)
		}
		if _, err := w.Start(a.BaseCtx); err != nil {
			return fmt.Errorf("cannot start components watcher: %w", err)
		}
	} else {
		logger.WithComponent("app").Info("file watching disabled, pages will not live-reload")
	}

	if a.Config.Cache.TTL > 0 {
		cache.StartSweeper(a.BaseCtx, a.Cache, a.Config.Cache.SweepInterval)
	}
	return nil
}
