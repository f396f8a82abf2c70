package http

import (
	"context"
	"time"

	"github.com/cardshelf/showcase/internal/analytics"
	"github.com/cardshelf/showcase/internal/database"
	"github.com/cardshelf/showcase/internal/entities"
	"github.com/cardshelf/showcase/internal/images"
	"github.com/cardshelf/showcase/internal/lookup"
	"github.com/cardshelf/showcase/internal/sessions"
	"github.com/cardshelf/showcase/internal/tasks"
	"github.com/cardshelf/showcase/internal/viewer"
)

// CatalogStore is the read side of the catalog used by the showcase.
type CatalogStore interface {
	viewer.Catalog
	GetStoreByName(name string) (*entities.Store, error)
}

// CardLookup is the remote card search used by the lookup endpoints.
type CardLookup interface {
	viewer.Lookup
	Details(ctx context.Context, game lookup.Game, id string) (*lookup.Card, error)
}

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database
	Catalog  CatalogStore
	Lookup   CardLookup

	// Viewer sessions
	Sessions *sessions.Manager
	Viewers  *viewer.Registry
	Viewer   viewer.Options

	// DefaultStore is shown when a request names no store.
	DefaultStore string

	// Image caching (optional)
	ImageCache *images.Cache

	// Task queue client (optional)
	TaskClient  *tasks.Client
	PruneMaxAge time.Duration

	// Plausible analytics (optional)
	Analytics *analytics.PlausibleConfig

	// Application info
	Version string
}
