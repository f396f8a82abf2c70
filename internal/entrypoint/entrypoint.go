package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/cardshelf/showcase/internal/analytics"
	"github.com/cardshelf/showcase/internal/book"
	"github.com/cardshelf/showcase/internal/config"
	"github.com/cardshelf/showcase/internal/database"
	"github.com/cardshelf/showcase/internal/database/catalog"
	http_controllers "github.com/cardshelf/showcase/internal/http"
	"github.com/cardshelf/showcase/internal/images"
	"github.com/cardshelf/showcase/internal/lookup"
	"github.com/cardshelf/showcase/internal/scheduler"
	"github.com/cardshelf/showcase/internal/sessions"
	"github.com/cardshelf/showcase/internal/tasks"
	"github.com/cardshelf/showcase/internal/tilt"
	"github.com/cardshelf/showcase/internal/viewer"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Info().Str("host", cfg.HTTP.Host).Int32("port", cfg.HTTP.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Dur("timeout", timeout).Msg("Shutdown server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown")
	}

	log.Info().Msg("Server exiting")
}

// ViewerOptions maps configuration onto the per-session viewer settings.
func ViewerOptions(cfg *config.Config) viewer.Options {
	opts := viewer.DefaultOptions()

	opts.Host = book.HostOptions{
		Width:            cfg.Book.Width,
		Height:           cfg.Book.Height,
		MobileBreakpoint: cfg.Book.MobileBreakpoint,
	}
	opts.Tilt = tilt.Options{
		Alpha:            cfg.Tilt.Alpha,
		FPS:              cfg.Tilt.FPS,
		Range:            cfg.Tilt.Range,
		OrientationScale: cfg.Tilt.OrientationScale,
		BetaRest:         cfg.Tilt.BetaRest,
	}

	opts.LocalDebounce = cfg.Search.LocalDebounce
	opts.RemoteDebounce = cfg.Search.RemoteDebounce
	opts.RemoteTimeout = cfg.Search.RemoteTimeout
	opts.GuardWindow = cfg.Search.GuardWindow
	opts.MinRemoteQuery = cfg.Search.MinRemoteQuery
	opts.MessageTTL = cfg.Search.MessageTTL

	if game, err := lookup.ParseGame(cfg.Lookup.DefaultGame); err == nil {
		opts.LookupGame = game
	} else {
		log.Warn().Err(err).Msg("Unknown default lookup game, using pokemon")
	}
	return opts
}

// NewLookupRegistry builds the remote card lookup for every supported game.
func NewLookupRegistry(cfg config.Lookup) *lookup.Registry {
	return lookup.NewRegistry(
		lookup.NewPokemonClient(cfg.PokemonBaseURL, cfg.Language),
		lookup.NewYugiohClient(cfg.YugiohBaseURL),
	)
}

func Run(cfg *config.Config, version string) {
	log.Info().Str("version", version).Msg("Starting card showcase")

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}()

	repo := catalog.NewRepository(db.DB)

	// Image cache for card, cover and back art
	imageCache, err := images.NewCache(cfg.Images.CacheDir)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize image cache")
		imageCache = nil
	} else {
		log.Info().Str("dir", cfg.Images.CacheDir).Msg("Image cache initialized")
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled && imageCache != nil {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg, imageCache)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize task queue")
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing task client")
			}
		}()

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		taskClient.Start(taskCtx)
	}

	// Scheduled eviction of stale cached images
	var pruneScheduler *scheduler.ImagePruneScheduler
	if cfg.Images.PruneEnabled && imageCache != nil {
		var pruner scheduler.ImagePruner = scheduler.CachePruner{Cache: imageCache}
		if taskClient != nil {
			pruner = taskClient
		}
		pruneScheduler = scheduler.NewImagePruneScheduler(pruner, cfg.Images.PruneSchedule, cfg.Images.MaxAge)
		if err := pruneScheduler.Start(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to start image prune scheduler")
			pruneScheduler = nil
		}
	}

	// One viewer controller per browser session
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get SQL DB for sessions")
	}
	sessionManager, err := sessions.NewManager(sqlDB, cfg.Sessions)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize session manager")
	}
	viewers := viewer.NewRegistry()

	if cfg.Global.DefaultStore == "" {
		log.Warn().Msg("DEFAULT_STORE is not set; requests must name a store")
	}

	routerCfg := http_controllers.RouterConfig{
		Database:     db,
		Catalog:      repo,
		Lookup:       NewLookupRegistry(cfg.Lookup),
		Sessions:     sessionManager,
		Viewers:      viewers,
		Viewer:       ViewerOptions(cfg),
		DefaultStore: cfg.Global.DefaultStore,
		ImageCache:   imageCache,
		TaskClient:   taskClient,
		PruneMaxAge:  cfg.Images.MaxAge,
		Analytics:    analytics.NewPlausibleConfig(cfg.Analytics),
		Version:      version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		viewers.CloseAll()
		if pruneScheduler != nil {
			pruneScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
