package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/cardshelf/showcase/internal/database/catalog"
	"github.com/cardshelf/showcase/internal/http"
	"github.com/cardshelf/showcase/internal/images"
	"github.com/cardshelf/showcase/internal/lookup"
	"github.com/cardshelf/showcase/internal/scheduler"
	"github.com/cardshelf/showcase/internal/tasks"
	"github.com/cardshelf/showcase/internal/tilt"
	"github.com/cardshelf/showcase/internal/viewer"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// CatalogStore implementations
var _ http.CatalogStore = (*catalog.Repository)(nil)
var _ viewer.Catalog = (*catalog.Repository)(nil)

// =============================================================================
// External Services
// =============================================================================

// Card lookup providers
var _ lookup.Client = (*lookup.PokemonClient)(nil)
var _ lookup.DetailClient = (*lookup.PokemonClient)(nil)
var _ lookup.Client = (*lookup.YugiohClient)(nil)
var _ http.CardLookup = (*lookup.Registry)(nil)

// =============================================================================
// Render Hosts
// =============================================================================

var _ viewer.RenderHost = (*viewer.PageFlipHost)(nil)
var _ viewer.Carousel = (*viewer.SlideCarousel)(nil)
var _ tilt.PermissionSource = tilt.AlwaysGranted{}

// =============================================================================
// Image Cache & Background Tasks
// =============================================================================

var _ tasks.ImageStore = (*images.Cache)(nil)
var _ viewer.ImageWarmer = (*tasks.Client)(nil)
var _ scheduler.ImagePruner = (*tasks.Client)(nil)
var _ scheduler.ImagePruner = scheduler.CachePruner{}
