package http

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/cardshelf/showcase/internal/database/catalog"
	"github.com/cardshelf/showcase/internal/sessions"
	"github.com/cardshelf/showcase/internal/viewer"
)

// ShowcaseController binds each browser session to a viewer.Controller and
// exposes the showcase state.
type ShowcaseController struct {
	catalog      CatalogStore
	lookup       CardLookup
	warmer       viewer.ImageWarmer
	sessions     *sessions.Manager
	viewers      *viewer.Registry
	opts         viewer.Options
	defaultStore string
}

// NewShowcaseController creates a new ShowcaseController. lookup and warmer
// may be nil.
func NewShowcaseController(
	store CatalogStore,
	lk CardLookup,
	warmer viewer.ImageWarmer,
	sm *sessions.Manager,
	viewers *viewer.Registry,
	opts viewer.Options,
	defaultStore string,
) *ShowcaseController {
	return &ShowcaseController{
		catalog:      store,
		lookup:       lk,
		warmer:       warmer,
		sessions:     sm,
		viewers:      viewers,
		opts:         opts,
		defaultStore: defaultStore,
	}
}

// ShowcaseResponse is the full renderable state of a session.
type ShowcaseResponse struct {
	StoreID uint               `json:"store_id"`
	URL     string             `json:"url,omitempty"`
	State   viewer.Snapshot    `json:"state"`
	Remote  viewer.RemoteState `json:"remote"`
}

// controllerFor returns the request's viewer controller, creating and
// loading one when the session has none or asks for another store. On
// failure the response has been written and ok is false.
func (sc *ShowcaseController) controllerFor(c *gin.Context) (ctrl *viewer.Controller, ok bool) {
	ctx := c.Request.Context()
	viewerID, _ := sc.sessions.ViewerID(ctx)
	current, hasCurrent := sc.viewers.Get(viewerID)

	storeName := c.Query("store")
	if storeName == "" {
		if hasCurrent {
			return current, true
		}
		storeName = sc.defaultStore
	}
	if storeName == "" {
		respondBadRequest(c, "store is required")
		return nil, false
	}

	store, err := sc.catalog.GetStoreByName(storeName)
	if errors.Is(err, catalog.ErrStoreNotFound) {
		respondCode(c, http.StatusNotFound, CodeStoreNotFound, "store not found")
		return nil, false
	}
	if err != nil {
		respondInternalError(c, err, "resolve store")
		return nil, false
	}

	if hasCurrent && current.StoreID() == store.ID {
		return current, true
	}

	opts := sc.opts
	opts.ViewportWidth = parseQueryInt(c, "vw", opts.ViewportWidth)
	opts.ContainerWidth = parseQueryInt(c, "cw", opts.ContainerWidth)

	ctrl = viewer.NewController(sc.catalog, sc.lookup, sc.warmer, store.ID, opts)
	if err := ctrl.Load(ctx); err != nil {
		ctrl.Close()
		respondInternalError(c, err, "load showcase")
		return nil, false
	}
	sc.viewers.Replace(viewerID, ctrl)

	log.Info().Str("viewer", viewerID).Str("store", store.StoreName).Msg("Viewer session started")
	return ctrl, true
}

func (sc *ShowcaseController) respondState(c *gin.Context, ctrl *viewer.Controller, location string) {
	c.JSON(http.StatusOK, ShowcaseResponse{
		StoreID: ctrl.StoreID(),
		URL:     location,
		State:   ctrl.Snapshot(),
		Remote:  ctrl.Remote(),
	})
}

// GetShowcase returns the session state, switching view when asked.
// GET /api/showcase?store=...&view=albums|decks
func (sc *ShowcaseController) GetShowcase(c *gin.Context) {
	ctrl, ok := sc.controllerFor(c)
	if !ok {
		return
	}

	if v := c.Query("view"); v != "" && viewer.ParseView(v) != ctrl.View() {
		if _, err := ctrl.SwitchView(viewer.ParseView(v), *c.Request.URL); err != nil {
			respondInternalError(c, err, "switch view")
			return
		}
	}

	sc.respondState(c, ctrl, "")
}

// SwitchViewRequest selects the active view. Location is the page URL whose
// view parameter gets rewritten.
type SwitchViewRequest struct {
	View     string `json:"view" binding:"required"`
	Location string `json:"location"`
}

// SwitchView handles POST /api/view
func (sc *ShowcaseController) SwitchView(c *gin.Context) {
	var req SwitchViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "view is required")
		return
	}

	location := req.Location
	if location == "" {
		location = "/"
	}
	u, err := url.Parse(location)
	if err != nil {
		respondBadRequest(c, "invalid location")
		return
	}

	ctrl, ok := sc.controllerFor(c)
	if !ok {
		return
	}

	rewritten, err := ctrl.SwitchView(viewer.ParseView(req.View), *u)
	if err != nil {
		respondInternalError(c, err, "switch view")
		return
	}

	sc.respondState(c, ctrl, rewritten)
}

// Forget ends the visitor's session and its viewer state.
// POST /api/session/reset
func (sc *ShowcaseController) Forget(c *gin.Context) {
	ctx := c.Request.Context()
	viewerID, created := sc.sessions.ViewerID(ctx)
	if !created {
		sc.viewers.Remove(viewerID)
	}
	if err := sc.sessions.Forget(ctx); err != nil {
		respondInternalError(c, err, "destroy session")
		return
	}
	respondSuccess(c, "session reset")
}
