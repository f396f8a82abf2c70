package viewer

import (
	"github.com/cardshelf/showcase/internal/utils"
)

// Registry holds the live controller of every viewer session.
type Registry struct {
	controllers utils.ConcurrentMap[string, *Controller]
}

func NewRegistry() *Registry {
	return &Registry{controllers: utils.NewConcurrentMap[string, *Controller]()}
}

// Get returns the controller of a session.
func (r *Registry) Get(sessionID string) (*Controller, bool) {
	return r.controllers.Get(sessionID)
}

// GetOrCreate returns the session's controller, building it with create
// when the session has none. created reports whether create ran.
func (r *Registry) GetOrCreate(sessionID string, create func() *Controller) (c *Controller, created bool) {
	c, existed := r.controllers.GetOrCreate(sessionID, create)
	return c, !existed
}

// Replace installs c for a session and closes the controller it replaces.
func (r *Registry) Replace(sessionID string, c *Controller) {
	old, ok := r.controllers.Get(sessionID)
	r.controllers.Set(sessionID, c)
	if ok && old != c {
		old.Close()
	}
}

// Remove closes and forgets a session's controller.
func (r *Registry) Remove(sessionID string) {
	if c, ok := r.controllers.Delete(sessionID); ok {
		c.Close()
	}
}

func (r *Registry) Len() int {
	return r.controllers.Len()
}

// CloseAll closes every controller.
func (r *Registry) CloseAll() {
	for _, c := range r.controllers.Drain() {
		c.Close()
	}
}
