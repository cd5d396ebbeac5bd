package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookworm/internal/covers"
)

// CoversController serves locally cached cover images so the browse views do
// not hammer external image hosts on every reload.
type CoversController struct {
	cache *covers.Cache
}

func NewCoversController(cache *covers.Cache) *CoversController {
	return &CoversController{cache: cache}
}

func (ctrl *CoversController) GetCover(c *gin.Context) {
	isbn := c.Query("isbn")
	url := c.Query("url")
	if isbn == "" || url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "isbn and url query parameters are required"})
		return
	}

	path, err := ctrl.cache.GetCover(isbn, url)
	if err != nil || path == "" {
		// Let the client fall back to the remote URL directly.
		c.Redirect(http.StatusTemporaryRedirect, url)
		return
	}

	c.File(path)
}
