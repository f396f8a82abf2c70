package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardshelf/showcase/internal/lookup"
	"github.com/cardshelf/showcase/internal/search"
	"github.com/cardshelf/showcase/internal/viewer"
)

// Search modes.
const (
	SearchModeLive   = "live"
	SearchModeSubmit = "submit"
)

// SearchRequest is one keystroke batch (live) or the explicit search action.
type SearchRequest struct {
	Query string `json:"query"`
	Mode  string `json:"mode"`
	Game  string `json:"game"`
}

// SearchResponse is the outcome of a filter pass and the lookup pane.
type SearchResponse struct {
	Result search.Result      `json:"result"`
	Remote viewer.RemoteState `json:"remote"`
	State  viewer.Snapshot    `json:"state"`
}

// Search handles POST /api/search
// Live input is debounced and answered with 202; the client polls
// GET /api/search for the outcome. Submit runs both passes at once.
func (sc *ShowcaseController) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	ctrl, ok := sc.controllerFor(c)
	if !ok {
		return
	}

	game, ok := sc.gameOf(c, req.Game)
	if !ok {
		return
	}

	switch req.Mode {
	case "", SearchModeLive:
		if req.Game != "" {
			ctrl.SetLookupGame(game)
		}
		ctrl.Type(req.Query)
		respondAccepted(c, "search scheduled", gin.H{"query": req.Query})
	case SearchModeSubmit:
		result, remote := ctrl.Submit(c.Request.Context(), game, req.Query)
		c.JSON(http.StatusOK, SearchResponse{Result: result, Remote: remote, State: ctrl.Snapshot()})
	default:
		respondBadRequest(c, "mode must be live or submit")
	}
}

// GetSearch handles GET /api/search
func (sc *ShowcaseController) GetSearch(c *gin.Context) {
	ctrl, ok := sc.controllerFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, SearchResponse{
		Result: ctrl.LastResult(),
		Remote: ctrl.Remote(),
		State:  ctrl.Snapshot(),
	})
}

// Lookup handles GET /api/lookup?type=pokemon|yugioh&q=...
func (sc *ShowcaseController) Lookup(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondBadRequest(c, "q is required")
		return
	}
	game, ok := sc.gameOf(c, c.Query("type"))
	if !ok {
		return
	}

	ctrl, ok := sc.controllerFor(c)
	if !ok {
		return
	}

	state := ctrl.Lookup(c.Request.Context(), game, query)
	c.JSON(http.StatusOK, state)
}

// LookupDetails handles GET /api/lookup/:id?type=pokemon
func (sc *ShowcaseController) LookupDetails(c *gin.Context) {
	if sc.lookup == nil {
		respondNotFound(c, "card lookup")
		return
	}
	game, ok := sc.gameOf(c, c.Query("type"))
	if !ok {
		return
	}

	card, err := sc.lookup.Details(c.Request.Context(), game, c.Param("id"))
	if err != nil {
		respondCode(c, http.StatusBadGateway, CodeLookupFailed, "card lookup failed")
		return
	}
	c.JSON(http.StatusOK, card)
}

// gameOf parses a game name, defaulting to the configured lookup game.
func (sc *ShowcaseController) gameOf(c *gin.Context, name string) (lookup.Game, bool) {
	if name == "" {
		return sc.opts.LookupGame, true
	}
	game, err := lookup.ParseGame(name)
	if err != nil {
		respondBadRequest(c, err.Error())
		return "", false
	}
	return game, true
}
