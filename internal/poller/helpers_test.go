package poller

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/preston-bernstein/cricket-live-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-live-service/internal/gate"
	"github.com/preston-bernstein/cricket-live-service/internal/metrics"
	"github.com/preston-bernstein/cricket-live-service/internal/store"
	"github.com/preston-bernstein/cricket-live-service/internal/teststubs"
)

var base = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type harness struct {
	clock      *manualClock
	gate       *gate.Gate
	metrics    *metrics.Recorder
	provider   *teststubs.StubProvider
	store      *store.MemoryStore
	writer     *teststubs.StubSnapshotWriter
	publisher  *teststubs.StubPublisher
	commentary *CommentarySet
	poller     *MatchPoller
}

type harnessOptions struct {
	matchInterval      time.Duration
	commentaryInterval time.Duration
	retryDelay         time.Duration
	gateTick           time.Duration
}

func newHarness(t *testing.T, provider *teststubs.StubProvider, opts harnessOptions) *harness {
	t.Helper()
	if opts.matchInterval == 0 {
		opts.matchInterval = time.Hour
	}
	if opts.commentaryInterval == 0 {
		opts.commentaryInterval = time.Hour
	}
	if opts.retryDelay == 0 {
		opts.retryDelay = 20 * time.Millisecond
	}
	if opts.gateTick == 0 {
		opts.gateTick = 5 * time.Millisecond
	}
	h := &harness{
		clock:     &manualClock{now: base},
		metrics:   metrics.NewRecorder(),
		provider:  provider,
		store:     store.NewMemoryStore(),
		writer:    &teststubs.StubSnapshotWriter{},
		publisher: &teststubs.StubPublisher{},
	}
	h.gate = gate.New(nil, h.metrics, gate.WithClock(h.clock.Now), gate.WithTickInterval(opts.gateTick))
	h.commentary = NewCommentarySet(provider, h.gate, h.store, nil, h.metrics, opts.commentaryInterval)
	h.poller = NewMatchPoller(provider, h.gate, h.commentary, h.store, MatchOptions{
		Interval:   opts.matchInterval,
		RetryDelay: opts.retryDelay,
		Writer:     h.writer,
		Publisher:  h.publisher,
		Metrics:    h.metrics,
	})
	t.Cleanup(func() {
		_ = h.poller.Stop(context.Background())
		h.commentary.Close()
	})
	return h
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func liveMatch(id string) matches.Match {
	return matches.Match{ID: id, Name: id, MatchStarted: true, Status: "In progress"}
}

func upcomingMatch(id string) matches.Match {
	return matches.Match{ID: id, Name: id, Status: "Match not started", DateTimeGMT: "2024-05-02T09:30:00"}
}

func completedMatch(id string) matches.Match {
	return matches.Match{ID: id, Name: id, MatchStarted: true, MatchEnded: true, Status: "India won by 5 wkts"}
}

// blockingProvider holds every fetch until release is closed.
type blockingProvider struct {
	entered chan struct{}
	release chan struct{}
	list    []matches.Match
	entries []matches.CommentaryEntry
}

func newBlockingProvider() *blockingProvider {
	return &blockingProvider{entered: make(chan struct{}, 4), release: make(chan struct{})}
}

func (b *blockingProvider) FetchCurrentMatches(ctx context.Context) ([]matches.Match, error) {
	_ = ctx
	b.entered <- struct{}{}
	<-b.release
	return b.list, nil
}

func (b *blockingProvider) FetchCommentary(ctx context.Context, id string) ([]matches.CommentaryEntry, error) {
	_ = ctx
	_ = id
	b.entered <- struct{}{}
	<-b.release
	return b.entries, nil
}
