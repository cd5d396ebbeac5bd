package catalog

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mrlokans/bookworm/internal/entities"
	"github.com/mrlokans/bookworm/internal/metrics"
	"github.com/mrlokans/bookworm/internal/notify"
)

// fakeStore scripts the read side of the store per test.
type fakeStore struct {
	probeBooksCount   int64
	probeBooksErr     error
	books             []entities.Book
	queryBooksErr     error
	probeAuthorsCount int64
	probeAuthorsErr   error
	authors           []entities.Author
	queryAuthorsErr   error
	reviewerIDs       []string
	reviewerIDsErr    error
	queryBooksCalls   int
	probeBooksCalls   int
}

func (f *fakeStore) ProbeBooks(ctx context.Context) (int64, error) {
	f.probeBooksCalls++
	return f.probeBooksCount, f.probeBooksErr
}

func (f *fakeStore) QueryBooks(ctx context.Context) ([]entities.Book, error) {
	f.queryBooksCalls++
	return f.books, f.queryBooksErr
}

func (f *fakeStore) ProbeAuthors(ctx context.Context) (int64, error) {
	return f.probeAuthorsCount, f.probeAuthorsErr
}

func (f *fakeStore) QueryAuthors(ctx context.Context) ([]entities.Author, error) {
	return f.authors, f.queryAuthorsErr
}

func (f *fakeStore) ReviewerIDs(ctx context.Context) ([]string, error) {
	return f.reviewerIDs, f.reviewerIDsErr
}

func newTestFetcher(s *fakeStore) (*Fetcher, *notify.Recorder) {
	recorder := notify.NewRecorder(20)
	fetcher := NewFetcher(s, recorder, metrics.NewNop(), zap.NewNop(),
		WithRand(rand.New(rand.NewSource(1))))
	return fetcher, recorder
}

func TestFetchBooksLive(t *testing.T) {
	s := &fakeStore{
		probeBooksCount: 2,
		books: []entities.Book{
			{ISBN: "a", Name: "Alpha"},
			{ISBN: "b", Name: "Beta"},
		},
	}
	fetcher, recorder := newTestFetcher(s)

	records, source := fetcher.FetchBooks(context.Background())
	assert.Equal(t, SourceLive, source)
	require.Len(t, records, 2)
	// Store order is preserved end to end.
	assert.Equal(t, "Alpha", records[0].Title)
	assert.Equal(t, "Beta", records[1].Title)
	assert.Empty(t, recorder.Events())
}

func TestFetchBooksEmptyReturnsSamples(t *testing.T) {
	fetcher, recorder := newTestFetcher(&fakeStore{})

	records, source := fetcher.FetchBooks(context.Background())
	assert.Equal(t, SourceFallback, source)
	assert.Equal(t, SampleBooks(), records)
	// Empty is a condition, not an error: no toast.
	assert.Empty(t, recorder.Events())
}

func TestFetchBooksProbeErrorFallsOpen(t *testing.T) {
	s := &fakeStore{probeBooksErr: errors.New("connection refused")}
	fetcher, recorder := newTestFetcher(s)

	records, source := fetcher.FetchBooks(context.Background())
	assert.Equal(t, SourceFallback, source)
	require.NotEmpty(t, records)

	// Probe failure short-circuits the detail query.
	assert.Equal(t, 0, s.queryBooksCalls)

	events := recorder.Events()
	require.Len(t, events, 1)
	assert.Equal(t, notify.LevelError, events[0].Level)
}

func TestFetchBooksQueryErrorEmitsOneNotification(t *testing.T) {
	s := &fakeStore{probeBooksCount: 3, queryBooksErr: errors.New("permission denied")}
	fetcher, recorder := newTestFetcher(s)

	records, source := fetcher.FetchBooks(context.Background())
	assert.Equal(t, SourceFallback, source)

	sampleISBNs := make([]string, 0)
	for _, b := range SampleBooks() {
		sampleISBNs = append(sampleISBNs, b.ISBN)
	}
	gotISBNs := make([]string, 0)
	for _, b := range records {
		gotISBNs = append(gotISBNs, b.ISBN)
	}
	assert.Equal(t, sampleISBNs, gotISBNs)

	require.Len(t, recorder.Events(), 1)
}

func TestFetchBooksErrorEnrichesWithSyntheticReviews(t *testing.T) {
	s := &fakeStore{
		probeBooksErr: errors.New("down"),
		reviewerIDs:   []string{"u1", "u2"},
	}
	fetcher, _ := newTestFetcher(s)

	records, source := fetcher.FetchBooks(context.Background())
	assert.Equal(t, SourceFallback, source)
	for _, book := range records {
		require.GreaterOrEqual(t, len(book.Reviews), 1)
		require.LessOrEqual(t, len(book.Reviews), 3)
		for _, review := range book.Reviews {
			assert.Contains(t, []string{"u1", "u2"}, review.UserID)
		}
	}
}

func TestFetchBooksEnrichmentSwallowsProbeError(t *testing.T) {
	s := &fakeStore{
		probeBooksErr:  errors.New("down"),
		reviewerIDsErr: errors.New("also down"),
	}
	fetcher, recorder := newTestFetcher(s)

	records, source := fetcher.FetchBooks(context.Background())
	assert.Equal(t, SourceFallback, source)
	assert.Equal(t, SampleBooks(), records)
	// Only the fetch failure surfaces, never the enrichment probe.
	require.Len(t, recorder.Events(), 1)
}

func TestFetchBooksIdempotentAgainstUnchangedStore(t *testing.T) {
	s := &fakeStore{
		probeBooksCount: 1,
		books: []entities.Book{{
			ISBN:    "a",
			Name:    "Alpha",
			Reviews: []entities.Review{{UserID: "u1", Rating: intPtr(4)}},
		}},
	}
	fetcher, _ := newTestFetcher(s)

	first, _ := fetcher.FetchBooks(context.Background())
	second, _ := fetcher.FetchBooks(context.Background())
	assert.Equal(t, first, second)
}

func TestFetchAuthorsLive(t *testing.T) {
	s := &fakeStore{
		probeAuthorsCount: 1,
		authors: []entities.Author{{
			ID:   7,
			Name: "Ursula K. Le Guin",
			AuthorBooks: []entities.AuthorBook{
				{Book: &entities.Book{ISBN: "9780441007318", Name: "The Left Hand of Darkness"}},
			},
		}},
	}
	fetcher, _ := newTestFetcher(s)

	records, source := fetcher.FetchAuthors(context.Background())
	assert.Equal(t, SourceLive, source)
	require.Len(t, records, 1)
	assert.Equal(t, "Ursula K. Le Guin", records[0].Name)
	require.Len(t, records[0].Books, 1)
}

func TestFetchAuthorsErrorFallsOpen(t *testing.T) {
	s := &fakeStore{probeAuthorsErr: errors.New("timeout")}
	fetcher, recorder := newTestFetcher(s)

	records, source := fetcher.FetchAuthors(context.Background())
	assert.Equal(t, SourceFallback, source)
	assert.Equal(t, SampleAuthors(), records)
	require.Len(t, recorder.Events(), 1)
}

func TestFetchAuthorsEmptyReturnsSamples(t *testing.T) {
	fetcher, recorder := newTestFetcher(&fakeStore{})

	records, source := fetcher.FetchAuthors(context.Background())
	assert.Equal(t, SourceFallback, source)
	assert.Equal(t, SampleAuthors(), records)
	assert.Empty(t, recorder.Events())
}
