package search

import (
	"sync"
	"time"
)

// DefaultGuardWindow is how long a programmatic page turn stays accepted.
const DefaultGuardWindow = 1500 * time.Millisecond

// NavigationGuard marks a short window during which the Render Host must
// accept a transition that did not start from a corner drag. Arming it again
// extends the window.
type NavigationGuard struct {
	mu     sync.Mutex
	window time.Duration
	until  time.Time
	now    func() time.Time
}

func NewNavigationGuard(window time.Duration) *NavigationGuard {
	return &NavigationGuard{window: window, now: time.Now}
}

// Arm opens (or extends) the window.
func (g *NavigationGuard) Arm() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.until = g.now().Add(g.window)
}

// Active reports whether a search-originated transition is in progress.
func (g *NavigationGuard) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.now().Before(g.until)
}

// Clear closes the window early.
func (g *NavigationGuard) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.until = time.Time{}
}
