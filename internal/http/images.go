package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/cardshelf/showcase/internal/images"
)

// ImagesController serves card, cover and back images from the local cache.
type ImagesController struct {
	cache *images.Cache
}

// NewImagesController creates a new ImagesController.
func NewImagesController(cache *images.Cache) *ImagesController {
	return &ImagesController{cache: cache}
}

// GetImage serves a cached image.
// GET /api/images?url=...
func (ic *ImagesController) GetImage(c *gin.Context) {
	imageURL := c.Query("url")
	if imageURL == "" {
		respondBadRequest(c, "url is required")
		return
	}

	cachePath, err := ic.cache.Get(c.Request.Context(), imageURL)
	if errors.Is(err, images.ErrUnsupportedURL) {
		respondBadRequest(c, "unsupported image url")
		return
	}
	if err != nil {
		// Fallback: redirect to original URL
		log.Debug().Err(err).Str("url", imageURL).Msg("Image cache miss, redirecting")
		c.Redirect(http.StatusTemporaryRedirect, imageURL)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.File(cachePath)
}
