package catalog

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/bookworm/internal/metrics"
	"github.com/mrlokans/bookworm/internal/notify"
	"github.com/mrlokans/bookworm/internal/store"
)

// Fetcher runs one fetch-and-map cycle against the store. Read paths are
// fail-open: every control path returns a usable record set, substituting the
// sample catalog on errors or empty results. That policy holds only because
// these paths are read-only; nothing with side effects may go through here.
type Fetcher struct {
	store    store.Reader
	notifier notify.Notifier
	metrics  *metrics.Metrics
	log      *zap.Logger
	rng      *rand.Rand
}

// FetcherOption tweaks Fetcher construction.
type FetcherOption func(*Fetcher)

// WithRand injects the random source used for synthetic review enrichment.
func WithRand(rng *rand.Rand) FetcherOption {
	return func(f *Fetcher) { f.rng = rng }
}

func NewFetcher(s store.Reader, notifier notify.Notifier, m *metrics.Metrics, log *zap.Logger, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		store:    s,
		notifier: notifier,
		metrics:  m,
		log:      log,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchBooks runs the probe + detail query pair and maps each row in store
// order. It never returns an error; the Source result says whether the data
// is live or the fallback set.
func (f *Fetcher) FetchBooks(ctx context.Context) ([]BookRecord, Source) {
	count, err := f.store.ProbeBooks(ctx)
	if err != nil {
		f.log.Warn("book table probe failed", zap.Error(err))
		return f.bookFallback(ctx, true)
	}
	f.log.Debug("book table probe", zap.Int64("count", count))

	rows, err := f.store.QueryBooks(ctx)
	if err != nil {
		f.log.Warn("book query failed", zap.Error(err))
		return f.bookFallback(ctx, true)
	}

	if len(rows) == 0 {
		f.metrics.Fetches.WithLabelValues("books", "empty").Inc()
		f.metrics.Fallback.WithLabelValues("books").Inc()
		return SampleBooks(), SourceFallback
	}

	records := make([]BookRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, MapBook(row))
	}
	f.metrics.Fetches.WithLabelValues("books", "live").Inc()
	return records, SourceLive
}

// FetchAuthors is the author-side counterpart of FetchBooks.
func (f *Fetcher) FetchAuthors(ctx context.Context) ([]AuthorRecord, Source) {
	count, err := f.store.ProbeAuthors(ctx)
	if err != nil {
		f.log.Warn("author table probe failed", zap.Error(err))
		return f.authorFallback()
	}
	f.log.Debug("author table probe", zap.Int64("count", count))

	rows, err := f.store.QueryAuthors(ctx)
	if err != nil {
		f.log.Warn("author query failed", zap.Error(err))
		return f.authorFallback()
	}

	if len(rows) == 0 {
		f.metrics.Fetches.WithLabelValues("authors", "empty").Inc()
		f.metrics.Fallback.WithLabelValues("authors").Inc()
		return SampleAuthors(), SourceFallback
	}

	records := make([]AuthorRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, MapAuthor(row))
	}
	f.metrics.Fetches.WithLabelValues("authors", "live").Inc()
	return records, SourceLive
}

// bookFallback handles the hard-failure path: one error toast, then the
// sample set, enriched with synthetic reviews when a reviewer-id probe
// happens to succeed. The enrichment is best effort and swallows its own
// errors.
func (f *Fetcher) bookFallback(ctx context.Context, notifyUser bool) ([]BookRecord, Source) {
	if notifyUser {
		f.notifier.Error("Failed to fetch books")
	}
	f.metrics.Fetches.WithLabelValues("books", "error").Inc()
	f.metrics.Fallback.WithLabelValues("books").Inc()

	if userIDs, err := f.store.ReviewerIDs(ctx); err == nil && len(userIDs) > 0 {
		return SampleBooksWithSyntheticReviews(userIDs, f.rng), SourceFallback
	}
	return SampleBooks(), SourceFallback
}

func (f *Fetcher) authorFallback() ([]AuthorRecord, Source) {
	f.notifier.Error("Failed to fetch authors")
	f.metrics.Fetches.WithLabelValues("authors", "error").Inc()
	f.metrics.Fallback.WithLabelValues("authors").Inc()
	return SampleAuthors(), SourceFallback
}
