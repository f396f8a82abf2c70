// Package lookup queries public card databases for cards matching a name.
package lookup

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type Game string

const (
	GamePokemon Game = "pokemon"
	GameYugioh  Game = "yugioh"
)

// ParseGame accepts the game names used in query strings.
func ParseGame(s string) (Game, error) {
	switch Game(s) {
	case GamePokemon, GameYugioh:
		return Game(s), nil
	}
	return "", fmt.Errorf("unknown card game: %q", s)
}

// Card is one lookup hit, shaped for the result pane.
type Card struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	ImageURLSmall string `json:"imageUrlSmall"`
	ImageURLLarge string `json:"imageUrlLarge"`
	Details       string `json:"details"`
	Set           string `json:"set"`
	Rarity        string `json:"rarity"`
	Game          Game   `json:"type"`
}

// cardKey is the structural identity used to drop duplicate hits.
type cardKey struct {
	name, set, rarity, image string
}

func (c Card) key() cardKey {
	return cardKey{name: c.Name, set: c.Set, rarity: c.Rarity, image: c.ImageURLLarge}
}

// Client defines the interface for card database providers.
type Client interface {
	Search(ctx context.Context, query string) ([]Card, error)
	Game() Game
}

// DetailClient is implemented by providers that return partial search hits
// and need a second request to fill in set, rarity and full-size art.
type DetailClient interface {
	Details(ctx context.Context, id string) (*Card, error)
}

// Registry routes lookups to the provider for each game.
type Registry struct {
	clients map[Game]Client
}

func NewRegistry(clients ...Client) *Registry {
	r := &Registry{clients: make(map[Game]Client, len(clients))}
	for _, c := range clients {
		r.clients[c.Game()] = c
	}
	return r
}

// Search runs query against the provider for game.
func (r *Registry) Search(ctx context.Context, game Game, query string) ([]Card, error) {
	c, ok := r.clients[game]
	if !ok {
		return nil, fmt.Errorf("no lookup provider for %q", game)
	}
	return c.Search(ctx, query)
}

// Details completes a hit when the provider supports it.
func (r *Registry) Details(ctx context.Context, game Game, id string) (*Card, error) {
	c, ok := r.clients[game]
	if !ok {
		return nil, fmt.Errorf("no lookup provider for %q", game)
	}
	dc, ok := c.(DetailClient)
	if !ok {
		return nil, fmt.Errorf("%s provider has no card details", game)
	}
	return dc.Details(ctx, id)
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

// wait blocks until the next call is allowed or ctx is done.
func (r *rateLimiter) wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		t := time.NewTimer(r.interval - since)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.lastCall = time.Now()
	return nil
}

const userAgent = "CardShowcase/1.0"
