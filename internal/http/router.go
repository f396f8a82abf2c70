package http

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/cardshelf/showcase/internal/viewer"
)

//go:embed templates/*.html
var templateFS embed.FS

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(SecurityHeadersMiddleware(cfg.Analytics.Origin()))

	// Sessions must be loaded before any showcase handler runs
	if cfg.Sessions != nil {
		router.Use(cfg.Sessions.Middleware())
	}

	funcMap := template.FuncMap{
		"isDecks": func(v viewer.View) bool {
			return v == viewer.ViewDecks
		},
	}
	tmpl := template.Must(template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html"))
	router.SetHTMLTemplate(tmpl)

	health := NewHealthController(cfg.Database, cfg.ImageCache, cfg.Version)
	ui := NewUIController(cfg.DefaultStore, cfg.Version, cfg.Analytics)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	// UI routes
	router.GET("/", ui.Index)

	// Showcase endpoints need a catalog and a session per viewer
	if cfg.Catalog != nil && cfg.Sessions != nil && cfg.Viewers != nil {
		// A nil *tasks.Client must not become a non-nil interface
		var warmer viewer.ImageWarmer
		if cfg.TaskClient != nil {
			warmer = cfg.TaskClient
		}
		showcase := NewShowcaseController(cfg.Catalog, cfg.Lookup, warmer, cfg.Sessions, cfg.Viewers, cfg.Viewer, cfg.DefaultStore)

		api := router.Group("/api")
		api.GET("/showcase", showcase.GetShowcase)
		api.POST("/view", showcase.SwitchView)
		api.POST("/session/reset", showcase.Forget)

		api.GET("/search", showcase.GetSearch)
		api.POST("/search", showcase.Search)
		api.GET("/lookup", showcase.Lookup)
		api.GET("/lookup/:id", showcase.LookupDetails)

		api.POST("/albums/:id/page", showcase.TurnPage)
		api.POST("/decks/:id/slide", showcase.Slide)

		api.POST("/cards/open", showcase.OpenCard)
		api.POST("/cards/close", showcase.CloseCard)
		api.POST("/tilt/input", showcase.TiltInput)
		api.GET("/tilt/frame", showcase.TiltFrame)
	}

	// Image cache endpoint
	if cfg.ImageCache != nil {
		imagesController := NewImagesController(cfg.ImageCache)
		router.GET("/api/images", imagesController.GetImage)
	}

	// Task management endpoints
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient, cfg.PruneMaxAge)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
		router.POST("/api/tasks/prune_images/run", tasksController.PruneImages)
	}

	return router
}
