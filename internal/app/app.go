package app

import (
	"context"
	"log/slog"
	"os"

	routerApp "github.com/GintGld/showreel/internal/app/router"
	"github.com/GintGld/showreel/internal/config"
	"github.com/GintGld/showreel/internal/lib/logger/sl"
	"github.com/GintGld/showreel/internal/lib/mediasrc"
	"github.com/GintGld/showreel/internal/service/catalog"
	"github.com/GintGld/showreel/internal/service/preload"
	"github.com/GintGld/showreel/internal/service/realtime"
	"github.com/GintGld/showreel/internal/service/showcase"
	"github.com/GintGld/showreel/internal/storage/sqlite"
)

type App struct {
	log      *slog.Logger
	Router   *routerApp.App
	storage  *sqlite.Storage
	hub      *realtime.Hub
	catalog  *catalog.Catalog
	showcase *showcase.Showcase
	cancel   context.CancelFunc
	done     chan struct{}
}

func New(
	log *slog.Logger,
	cfg *config.Config,
	secret []byte,
	adminPass []byte,
) *App {
	storage, err := sqlite.New(cfg.StoragePath)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	if err := storage.Migrate(); err != nil {
		log.Error("failed to migrate storage", sl.Err(err))
		os.Exit(1)
	}

	hub := realtime.New(log)

	catalog := catalog.New(log, hub, storage, cfg.HTTPServer.Timeout)

	loader := preload.NewHTTPLoader(log, cfg.FetchTimeout, cfg.SniffBytes, cfg.CacheTTL)
	showcase := showcase.New(log, hub, storage, loader, showcase.Config{
		ShowreelInterval: cfg.ShowreelInterval,
		HeroInterval:     cfg.HeroInterval,
		ViewportMargin:   cfg.ViewportMargin,
		ListTimeout:      cfg.HTTPServer.Timeout,
		Quality:          mediasrc.Quality(cfg.Quality),
	})

	router := routerApp.New(
		log,
		storage,
		hub,
		catalog,
		showcase,
		cfg.Address,
		cfg.HTTPServer.Timeout,
		cfg.IdleTimeout,
		cfg.Heartbeat,
		cfg.TokenTTL,
		secret,
		adminPass,
	)

	return &App{
		log:      log,
		Router:   router,
		storage:  storage,
		hub:      hub,
		catalog:  catalog,
		showcase: showcase,
	}
}

// Start runs mirrors and presentations in background.
func (a *App) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.done = make(chan struct{}, 2)

	go func() {
		a.catalog.Run(ctx)
		a.done <- struct{}{}
	}()
	go func() {
		a.showcase.Run(ctx)
		a.done <- struct{}{}
	}()
}

// Stop releases realtime subscriptions first, so open event
// streams end and the server can drain, then stops background
// work and storage.
func (a *App) Stop() {
	const op = "App.Stop"

	log := a.log.With(slog.String("op", op))

	a.hub.Close()

	if err := a.Router.Stop(); err != nil {
		log.Error("failed to shutdown http server", sl.Err(err))
	}

	if a.cancel != nil {
		a.cancel()
		<-a.done
		<-a.done
	}

	if err := a.storage.Stop(); err != nil {
		log.Error("failed to close storage", sl.Err(err))
	}
}
