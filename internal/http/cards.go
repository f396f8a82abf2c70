package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardshelf/showcase/internal/search"
	"github.com/cardshelf/showcase/internal/tilt"
	"github.com/cardshelf/showcase/internal/viewer"
)

// TurnPageRequest is a corner drag that ended on Page.
type TurnPageRequest struct {
	Page int `json:"page" binding:"required"`
}

// TurnPage handles POST /api/albums/:id/page
func (sc *ShowcaseController) TurnPage(c *gin.Context) {
	albumID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req TurnPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "page is required")
		return
	}

	ctrl, ok := sc.controllerFor(c)
	if !ok {
		return
	}

	page, err := ctrl.TurnPage(albumID, req.Page)
	switch {
	case errors.Is(err, viewer.ErrNotLoaded):
		respondNotFound(c, "album")
	case errors.Is(err, viewer.ErrTransitionRejected):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "page turn rejected", Code: CodeInvalidTransition, Details: gin.H{"page": page}})
	case err != nil:
		respondInternalError(c, err, "turn page")
	default:
		c.JSON(http.StatusOK, gin.H{"album_id": albumID, "page": page})
	}
}

// SlideRequest is a swipe that settled on Index.
type SlideRequest struct {
	Index int `json:"index"`
}

// Slide handles POST /api/decks/:id/slide
func (sc *ShowcaseController) Slide(c *gin.Context) {
	deckID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SlideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	ctrl, ok := sc.controllerFor(c)
	if !ok {
		return
	}

	err := ctrl.Slide(deckID, req.Index)
	switch {
	case errors.Is(err, viewer.ErrNotLoaded):
		respondNotFound(c, "deck")
	case errors.Is(err, viewer.ErrSlideOutOfRange):
		respondBadRequest(c, err.Error())
	case err != nil:
		respondInternalError(c, err, "slide deck")
	default:
		c.JSON(http.StatusOK, gin.H{"deck_id": deckID, "index": req.Index})
	}
}

// OpenCardRequest is a click on a rendered card.
type OpenCardRequest struct {
	Card    search.CardKey `json:"card"`
	Gesture viewer.Gesture `json:"gesture"`
}

// OpenCardResponse is the enlarged card and its first tilt frame.
type OpenCardResponse struct {
	Card  viewer.CardView `json:"card"`
	Frame tilt.Frame      `json:"frame"`
}

// OpenCard handles POST /api/cards/open
// A click that was really a drag is answered with 204 and opens nothing.
func (sc *ShowcaseController) OpenCard(c *gin.Context) {
	var req OpenCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	ctrl, ok := sc.controllerFor(c)
	if !ok {
		return
	}

	view, err := ctrl.OpenCard(req.Card, req.Gesture)
	switch {
	case errors.Is(err, viewer.ErrDragged):
		c.Status(http.StatusNoContent)
	case errors.Is(err, viewer.ErrNoImage):
		respondCode(c, http.StatusUnprocessableEntity, CodeNoImage, "card has no image")
	case errors.Is(err, viewer.ErrInvalidTransition):
		respondCode(c, http.StatusConflict, CodeInvalidTransition, "a card is already open")
	case err != nil:
		respondInternalError(c, err, "open card")
	default:
		resp := OpenCardResponse{Card: view}
		if s := ctrl.Tilt(); s != nil {
			resp.Frame = s.Snapshot()
		}
		c.JSON(http.StatusOK, resp)
	}
}

// CloseCard handles POST /api/cards/close
func (sc *ShowcaseController) CloseCard(c *gin.Context) {
	ctrl, ok := sc.controllerFor(c)
	if !ok {
		return
	}

	if err := ctrl.CloseCard(); err != nil {
		if errors.Is(err, viewer.ErrInvalidTransition) {
			respondCode(c, http.StatusConflict, CodeInvalidTransition, err.Error())
			return
		}
		respondInternalError(c, err, "close card")
		return
	}
	respondSuccess(c, "card closed")
}
