// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - viewer.Catalog: read-only albums, pages and decks of a store (internal/viewer/controller.go)
//   - http.CatalogStore: Catalog plus store lookup by name (internal/http/config.go)
//
// ## External Service Interfaces
//
//   - lookup.Client: remote card search for one game (internal/lookup/client.go)
//   - lookup.DetailClient: providers that can complete a brief hit
//   - viewer.Lookup / http.CardLookup: game-routed search, satisfied by lookup.Registry
//
// ## Render Hosts
//
//   - viewer.RenderHost: page-flip widget of one album, GoToPage(n, guarded)
//   - viewer.Carousel: slide widget of one deck, GoToSlide(i)
//   - tilt.PermissionSource: one-time device orientation grant
//
// ## Background Work
//
//   - viewer.ImageWarmer: queues cache warm-up for a loaded album (tasks.Client)
//   - scheduler.ImagePruner: evicts stale cached images (tasks.Client, scheduler.CachePruner)
//   - tasks.ImageStore: the cache the task processors operate on (images.Cache)
//
// # Adding a New Lookup Provider
//
// To search another card game (e.g., Magic):
//
//  1. Add the Game constant and accept it in lookup.ParseGame.
//
//  2. Implement Client in internal/lookup/:
//
//     type ScryfallClient struct {
//         httpClient  *http.Client
//         rateLimiter *rateLimiter
//     }
//
//     func (c *ScryfallClient) Game() Game
//     func (c *ScryfallClient) Search(ctx context.Context, query string) ([]Card, error)
//
//  3. Register it in entrypoint.NewLookupRegistry and add a check to checks.go.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the current set.
package interfaces
