package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookworm/internal/catalog"
	"github.com/mrlokans/bookworm/internal/notify"
)

// BookSource abstracts the books refresh controller for handler tests.
type BookSource interface {
	Get(ctx context.Context) (catalog.Snapshot[catalog.BookRecord], error)
	Refresh()
}

// AuthorSource abstracts the authors refresh controller.
type AuthorSource interface {
	Get(ctx context.Context) (catalog.Snapshot[catalog.AuthorRecord], error)
	Refresh()
}

// CatalogController serves the browse endpoints from the per-subject
// refresh controllers.
type CatalogController struct {
	books    BookSource
	authors  AuthorSource
	recorder *notify.Recorder
}

func NewCatalogController(books BookSource, authors AuthorSource, recorder *notify.Recorder) *CatalogController {
	return &CatalogController{
		books:    books,
		authors:  authors,
		recorder: recorder,
	}
}

// GetBooks returns the current book set, narrowed server-side via the same
// predicates the browse view applies.
func (ctrl *CatalogController) GetBooks(c *gin.Context) {
	var state catalog.FilterState
	if err := c.ShouldBindQuery(&state); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter parameters"})
		return
	}

	snap, err := ctrl.books.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog is shutting down"})
		return
	}

	books := catalog.Filter(snap.Records, state)
	c.JSON(http.StatusOK, gin.H{
		"books":    books,
		"count":    len(books),
		"genres":   catalog.DistinctGenres(snap.Records),
		"degraded": snap.Source == catalog.SourceFallback,
	})
}

func (ctrl *CatalogController) GetAuthors(c *gin.Context) {
	snap, err := ctrl.authors.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog is shutting down"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authors":  snap.Records,
		"count":    len(snap.Records),
		"degraded": snap.Source == catalog.SourceFallback,
	})
}

// Refresh is the manual retry trigger for a subject.
func (ctrl *CatalogController) Refresh(c *gin.Context) {
	switch c.Param("subject") {
	case "books":
		ctrl.books.Refresh()
	case "authors":
		ctrl.authors.Refresh()
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown subject"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "refresh scheduled"})
}

// Notifications drains buffered toast events for the presentation layer.
func (ctrl *CatalogController) Notifications(c *gin.Context) {
	events := ctrl.recorder.Drain()
	c.JSON(http.StatusOK, gin.H{"notifications": events, "count": len(events)})
}
