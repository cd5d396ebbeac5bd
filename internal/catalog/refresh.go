package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/bookworm/internal/metrics"
	"github.com/mrlokans/bookworm/internal/notify"
)

// FetchFunc runs one fetch cycle. The error return is reserved for failures
// underneath the orchestrator's own fail-open handling (cancelled contexts,
// a torn-down environment); the orchestrator itself always returns data.
type FetchFunc[T any] func(ctx context.Context) ([]T, Source, error)

type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Snapshot is the externally visible (records, state, source, token) triple
// for one fetch subject.
type Snapshot[T any] struct {
	Records []T
	Source  Source
	State   State
	Token   uint64
}

// ControllerOptions carries the client-side staleness policy. Zero values
// take the documented defaults: 3 attempts, 1s between attempts, 3s empty
// watchdog.
type ControllerOptions struct {
	RetryAttempts int
	RetryDelay    time.Duration
	WatchdogDelay time.Duration
}

func (o ControllerOptions) withDefaults() ControllerOptions {
	if o.RetryAttempts <= 0 {
		o.RetryAttempts = 3
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = time.Second
	}
	if o.WatchdogDelay <= 0 {
		o.WatchdogDelay = 3 * time.Second
	}
	return o
}

// Controller wraps a fetch function with retry, refresh-token and
// empty-watchdog policy for one subject. Books and authors each get their own
// instance; tokens and caches are never shared across subjects.
type Controller[T any] struct {
	subject  string
	fetch    FetchFunc[T]
	notifier notify.Notifier
	metrics  *metrics.Metrics
	log      *zap.Logger
	opts     ControllerOptions

	mu            sync.Mutex
	cond          *sync.Cond
	state         State
	records       []T
	source        Source
	token         uint64 // current refetch token, monotonically increasing
	appliedToken  uint64 // highest token whose result was applied
	inflightToken uint64 // highest token with a running fetch, 0 when none
	watchdog      *time.Timer
	closed        bool

	rootCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// ErrClosed is returned by Get after the controller has been torn down.
var ErrClosed = errors.New("refresh controller closed")

func NewController[T any](subject string, fetch FetchFunc[T], notifier notify.Notifier, m *metrics.Metrics, log *zap.Logger, opts ControllerOptions) *Controller[T] {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller[T]{
		subject:  subject,
		fetch:    fetch,
		notifier: notifier,
		metrics:  m,
		log:      log,
		opts:     opts.withDefaults(),
		state:    StateIdle,
		token:    1,
		rootCtx:  ctx,
		cancel:   cancel,
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Get returns the snapshot for the current token, fetching if no result for
// it has been applied yet. Identical tokens are served from the cached
// result; bumping the token (Refresh, Invalidate, watchdog) always forces a
// fresh cycle.
func (c *Controller[T]) Get(ctx context.Context) (Snapshot[T], error) {
	c.mu.Lock()
	for {
		if c.closed {
			c.mu.Unlock()
			return Snapshot[T]{}, ErrClosed
		}
		token := c.token
		if c.appliedToken >= token {
			snap := c.snapshotLocked()
			c.mu.Unlock()
			return snap, nil
		}
		if c.inflightToken >= token {
			// Another caller is already fetching this token; wait for it.
			c.cond.Wait()
			continue
		}
		c.inflightToken = token
		c.state = StateLoading
		c.mu.Unlock()

		records, source, err := c.runCycle(ctx, token)
		c.mu.Lock()
		if err != nil {
			c.applyFailureLocked(token, err)
		} else {
			c.applyLocked(token, records, source)
		}
	}
}

// Snapshot returns the current state without triggering a fetch.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Refresh is the manual retry trigger: it bumps the token, tells the user a
// retry is underway and starts a background cycle.
func (c *Controller[T]) Refresh() {
	c.notifier.Info("Retrying connection to fetch " + c.subject + "...")
	c.bumpAndFetch("manual refresh")
}

// Invalidate forces a fresh cycle without user messaging. Hosts call it on
// regained connectivity or view focus.
func (c *Controller[T]) Invalidate() {
	c.bumpAndFetch("invalidated")
}

// Token returns the current refetch token.
func (c *Controller[T]) Token() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Close tears the controller down: pending watchdog timers are released and
// in-flight cycles cancelled. Nothing fires after Close returns.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopWatchdogLocked()
	c.cond.Broadcast()
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

func (c *Controller[T]) bumpAndFetch(reason string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.token++
	token := c.token
	c.stopWatchdogLocked()
	alreadyFetching := c.inflightToken >= token
	if !alreadyFetching {
		c.inflightToken = token
		c.state = StateLoading
		c.wg.Add(1)
	}
	c.mu.Unlock()

	c.log.Debug("refetch token bumped",
		zap.String("subject", c.subject),
		zap.Uint64("token", token),
		zap.String("reason", reason))

	if alreadyFetching {
		return
	}

	go func() {
		defer c.wg.Done()
		records, source, err := c.runCycle(c.rootCtx, token)
		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.applyFailureLocked(token, err)
			return
		}
		c.applyLocked(token, records, source)
	}()
}

// runCycle executes the fetch with the automatic retry policy: up to
// RetryAttempts attempts with a fixed delay between them.
func (c *Controller[T]) runCycle(ctx context.Context, token uint64) ([]T, Source, error) {
	var lastErr error
	for attempt := 1; attempt <= c.opts.RetryAttempts; attempt++ {
		records, source, err := c.fetch(ctx)
		if err == nil {
			return records, source, nil
		}
		lastErr = err
		c.log.Warn("fetch cycle failed",
			zap.String("subject", c.subject),
			zap.Uint64("token", token),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt == c.opts.RetryAttempts {
			break
		}
		c.metrics.Retries.WithLabelValues(c.subject).Inc()
		select {
		case <-time.After(c.opts.RetryDelay):
		case <-ctx.Done():
			return nil, "", ctx.Err()
		}
	}
	return nil, "", lastErr
}

// applyLocked installs a cycle's result. Results are applied strictly in
// token order: a stale in-flight arrival never overwrites a newer one.
func (c *Controller[T]) applyLocked(token uint64, records []T, source Source) {
	defer c.cond.Broadcast()
	if c.inflightToken == token {
		c.inflightToken = 0
	}
	if c.closed {
		return
	}
	if token <= c.appliedToken {
		c.log.Debug("discarding stale fetch result",
			zap.String("subject", c.subject),
			zap.Uint64("token", token),
			zap.Uint64("applied", c.appliedToken))
		return
	}

	c.appliedToken = token
	c.records = records
	c.source = source
	c.state = StateSucceeded

	c.stopWatchdogLocked()
	if len(records) == 0 {
		c.scheduleWatchdogLocked()
	}
}

func (c *Controller[T]) applyFailureLocked(token uint64, err error) {
	defer c.cond.Broadcast()
	if c.inflightToken == token {
		c.inflightToken = 0
	}
	if c.closed || token <= c.appliedToken {
		return
	}
	c.appliedToken = token
	c.state = StateFailed
	c.log.Warn("fetch cycle exhausted retries",
		zap.String("subject", c.subject),
		zap.Uint64("token", token),
		zap.Error(err))
}

// scheduleWatchdogLocked arms the single empty-result watchdog: one re-fetch
// after the configured delay. A newer result or Close disarms it.
func (c *Controller[T]) scheduleWatchdogLocked() {
	c.log.Debug("empty result, scheduling re-fetch",
		zap.String("subject", c.subject),
		zap.Duration("delay", c.opts.WatchdogDelay))
	c.watchdog = time.AfterFunc(c.opts.WatchdogDelay, func() {
		c.bumpAndFetch("empty-result watchdog")
	})
}

func (c *Controller[T]) stopWatchdogLocked() {
	if c.watchdog != nil {
		c.watchdog.Stop()
		c.watchdog = nil
	}
}

func (c *Controller[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{
		Records: c.records,
		Source:  c.source,
		State:   c.state,
		Token:   c.appliedToken,
	}
}
