package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookworm/internal/catalog"
	"github.com/mrlokans/bookworm/internal/notify"
)

type fakeBookSource struct {
	snap     catalog.Snapshot[catalog.BookRecord]
	err      error
	refreshs int
}

func (f *fakeBookSource) Get(ctx context.Context) (catalog.Snapshot[catalog.BookRecord], error) {
	return f.snap, f.err
}

func (f *fakeBookSource) Refresh() { f.refreshs++ }

type fakeAuthorSource struct {
	snap     catalog.Snapshot[catalog.AuthorRecord]
	err      error
	refreshs int
}

func (f *fakeAuthorSource) Get(ctx context.Context) (catalog.Snapshot[catalog.AuthorRecord], error) {
	return f.snap, f.err
}

func (f *fakeAuthorSource) Refresh() { f.refreshs++ }

func newCatalogTestRouter(books *fakeBookSource, authors *fakeAuthorSource, recorder *notify.Recorder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := NewCatalogController(books, authors, recorder)
	router := gin.New()
	router.GET("/api/books", ctrl.GetBooks)
	router.GET("/api/authors", ctrl.GetAuthors)
	router.GET("/api/notifications", ctrl.Notifications)
	router.POST("/api/refresh/:subject", ctrl.Refresh)
	return router
}

func liveBooks(records ...catalog.BookRecord) catalog.Snapshot[catalog.BookRecord] {
	return catalog.Snapshot[catalog.BookRecord]{
		Records: records,
		Source:  catalog.SourceLive,
		State:   catalog.StateSucceeded,
		Token:   1,
	}
}

func TestGetBooksAppliesFilter(t *testing.T) {
	books := &fakeBookSource{snap: liveBooks(
		catalog.BookRecord{ISBN: "1", Title: "1984", Author: "George Orwell", Genre: "Fiction"},
		catalog.BookRecord{ISBN: "2", Title: "Emma", Author: "Jane Austen", Genre: "Classic"},
	)}
	router := newCatalogTestRouter(books, &fakeAuthorSource{}, notify.NewRecorder(10))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/books?search=orwell", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Books    []catalog.BookRecord `json:"books"`
		Count    int                  `json:"count"`
		Genres   []string             `json:"genres"`
		Degraded bool                 `json:"degraded"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "1984", body.Books[0].Title)
	// Genre choices come from the unfiltered set.
	assert.Equal(t, []string{"Fiction", "Classic"}, body.Genres)
	assert.False(t, body.Degraded)
}

func TestGetBooksReportsDegradedMode(t *testing.T) {
	books := &fakeBookSource{snap: catalog.Snapshot[catalog.BookRecord]{
		Records: catalog.SampleBooks(),
		Source:  catalog.SourceFallback,
		State:   catalog.StateSucceeded,
		Token:   1,
	}}
	router := newCatalogTestRouter(books, &fakeAuthorSource{}, notify.NewRecorder(10))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["degraded"])
}

func TestRefreshSubjects(t *testing.T) {
	books := &fakeBookSource{}
	authors := &fakeAuthorSource{}
	router := newCatalogTestRouter(books, authors, notify.NewRecorder(10))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/refresh/books", nil))
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 1, books.refreshs)
	assert.Equal(t, 0, authors.refreshs)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/refresh/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotificationsDrain(t *testing.T) {
	recorder := notify.NewRecorder(10)
	recorder.Error("Failed to fetch books")
	router := newCatalogTestRouter(&fakeBookSource{}, &fakeAuthorSource{}, recorder)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/notifications", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Notifications []notify.Event `json:"notifications"`
		Count         int            `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, notify.LevelError, body.Notifications[0].Level)

	// Drained on read.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/notifications", nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Count)
}
