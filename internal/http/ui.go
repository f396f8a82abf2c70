package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardshelf/showcase/internal/analytics"
	"github.com/cardshelf/showcase/internal/viewer"
)

// UIController renders the showcase page. The page itself pulls its state
// from the /api endpoints.
type UIController struct {
	defaultStore string
	version      string
	analytics    *analytics.PlausibleConfig
}

func NewUIController(defaultStore, version string, plausible *analytics.PlausibleConfig) *UIController {
	return &UIController{defaultStore: defaultStore, version: version, analytics: plausible}
}

// Index handles GET /?store=...&view=albums|decks
func (uc *UIController) Index(c *gin.Context) {
	store := c.Query("store")
	if store == "" {
		store = uc.defaultStore
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Store":     store,
		"View":      viewer.ParseView(c.Query("view")),
		"Version":   uc.version,
		"Analytics": uc.analytics.ScriptTag(),
	})
}
