package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardshelf/showcase/internal/tilt"
)

// Tilt input kinds beyond the tilt package's own sources.
const (
	InputRelease    = "release"
	InputPermission = "permission"
)

// TiltInputRequest carries one input event for the open card. X, Y and Rect
// apply to pointer and touch, Beta and Gamma to orientation, Granted to the
// browser's orientation permission answer.
type TiltInputRequest struct {
	Kind    string    `json:"kind" binding:"required"`
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
	Rect    tilt.Rect `json:"rect"`
	Beta    float64   `json:"beta"`
	Gamma   float64   `json:"gamma"`
	Granted bool      `json:"granted"`
}

// TiltResponse is the current frame of the open card.
type TiltResponse struct {
	Frame       tilt.Frame `json:"frame"`
	Orientation bool       `json:"orientation"`
}

// reportedPermission is the browser's answer to the orientation prompt.
type reportedPermission bool

func (p reportedPermission) RequestOrientation(context.Context) (bool, error) {
	return bool(p), nil
}

// TiltInput handles POST /api/tilt/input
func (sc *ShowcaseController) TiltInput(c *gin.Context) {
	var req TiltInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "kind is required")
		return
	}

	ctrl, ok := sc.controllerFor(c)
	if !ok {
		return
	}
	session := ctrl.Tilt()
	if session == nil {
		respondCode(c, http.StatusConflict, CodeNoCardOpen, "no card is open")
		return
	}

	var err error
	switch req.Kind {
	case string(tilt.InputPointer):
		err = session.PointerMove(req.X, req.Y, req.Rect)
	case string(tilt.InputTouch):
		err = session.TouchMove(req.X, req.Y, req.Rect)
	case string(tilt.InputOrientation):
		err = session.Orientation(req.Beta, req.Gamma)
	case InputRelease:
		err = session.Release()
	case InputPermission:
		session.EnableOrientation(c.Request.Context(), reportedPermission(req.Granted))
	default:
		respondBadRequest(c, "unknown input kind: "+req.Kind)
		return
	}
	if errors.Is(err, tilt.ErrClosed) {
		respondCode(c, http.StatusConflict, CodeNoCardOpen, "card was closed")
		return
	}
	if err != nil {
		respondInternalError(c, err, "tilt input")
		return
	}

	sc.respondFrame(c, session)
}

// TiltFrame handles GET /api/tilt/frame
func (sc *ShowcaseController) TiltFrame(c *gin.Context) {
	ctrl, ok := sc.controllerFor(c)
	if !ok {
		return
	}
	session := ctrl.Tilt()
	if session == nil {
		respondCode(c, http.StatusConflict, CodeNoCardOpen, "no card is open")
		return
	}
	sc.respondFrame(c, session)
}

func (sc *ShowcaseController) respondFrame(c *gin.Context, session *tilt.Session) {
	c.JSON(http.StatusOK, TiltResponse{
		Frame:       session.Snapshot(),
		Orientation: session.Listening(tilt.InputOrientation),
	})
}
