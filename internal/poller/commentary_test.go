package poller

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/preston-bernstein/cricket-live-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-live-service/internal/gate"
	"github.com/preston-bernstein/cricket-live-service/internal/providers"
	"github.com/preston-bernstein/cricket-live-service/internal/store"
	"github.com/preston-bernstein/cricket-live-service/internal/teststubs"
)

func TestCommentaryStartIsIdempotent(t *testing.T) {
	provider := &teststubs.StubProvider{
		Commentary: map[string][]matches.CommentaryEntry{"m1": {{Over: "12.4", Commentary: "FOUR"}}},
	}
	h := newHarness(t, provider, harnessOptions{})

	for i := 0; i < 2; i++ {
		if err := h.commentary.Start(context.Background(), "m1"); err != nil {
			t.Fatalf("start %d: %v", i, err)
		}
	}
	if provider.CommentaryCalls.Load() != 1 {
		t.Fatalf("expected a single immediate fetch, got %d", provider.CommentaryCalls.Load())
	}
	if active := h.commentary.Active(); len(active) != 1 || active[0] != "m1" {
		t.Fatalf("expected one poller, got %v", active)
	}
	entries, ok := h.store.Commentary("m1")
	if !ok || len(entries) != 1 || entries[0].Commentary != "FOUR" {
		t.Fatalf("expected cached commentary, got %+v", entries)
	}
	if h.metrics.Gate().CommentaryPollers != 1 {
		t.Fatalf("expected poller gauge at 1")
	}
}

func TestCommentaryStartRefusedWhileBlocked(t *testing.T) {
	provider := &teststubs.StubProvider{}
	h := newHarness(t, provider, harnessOptions{})
	h.gate.Arm(5*time.Minute, h.clock.Now())

	err := h.commentary.Start(context.Background(), "m1")
	blocked, ok := AsBlockedError(err)
	if !ok || !blocked.Commentary {
		t.Fatalf("expected commentary BlockedError, got %v", err)
	}
	if blocked.Error() != "cannot fetch commentary while blocked, wait 5:00" {
		t.Fatalf("unexpected message %q", blocked.Error())
	}
	if provider.CommentaryCalls.Load() != 0 {
		t.Fatalf("expected no request while blocked")
	}
	if h.commentary.IsPolling("m1") {
		t.Fatalf("expected no poller registered")
	}
}

func TestCommentaryKeepsNewestTwenty(t *testing.T) {
	entries := make([]matches.CommentaryEntry, 30)
	for i := range entries {
		entries[i] = matches.CommentaryEntry{Over: fmt.Sprintf("%d.1", 30-i)}
	}
	provider := &teststubs.StubProvider{Commentary: map[string][]matches.CommentaryEntry{"m1": entries}}
	h := newHarness(t, provider, harnessOptions{})

	if err := h.commentary.Start(context.Background(), "m1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	cached, _ := h.store.Commentary("m1")
	if len(cached) != matches.MaxCommentaryEntries {
		t.Fatalf("expected %d entries, got %d", matches.MaxCommentaryEntries, len(cached))
	}
	if cached[0].Over != "30.1" {
		t.Fatalf("expected newest first, got %s", cached[0].Over)
	}
}

func TestCommentaryStopDiscardsCacheAndIsIdempotent(t *testing.T) {
	provider := &teststubs.StubProvider{
		Commentary: map[string][]matches.CommentaryEntry{"m1": {{Over: "1.1"}}},
	}
	h := newHarness(t, provider, harnessOptions{})
	if err := h.commentary.Start(context.Background(), "m1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	h.commentary.Stop("m1")
	h.commentary.Stop("m1")
	h.commentary.Stop("never-started")

	if h.commentary.IsPolling("m1") {
		t.Fatalf("expected poller removed")
	}
	if _, ok := h.store.Commentary("m1"); ok {
		t.Fatalf("expected cached commentary discarded")
	}
	if h.metrics.Gate().CommentaryPollers != 0 {
		t.Fatalf("expected poller gauge back at 0, got %d", h.metrics.Gate().CommentaryPollers)
	}
}

func TestCommentaryRateLimitDoesNotArmGate(t *testing.T) {
	provider := &teststubs.StubProvider{
		CommentaryErr: &providers.RateLimitError{Provider: "cricapi", RetryAfter: 15 * time.Minute},
	}
	h := newHarness(t, provider, harnessOptions{})

	if err := h.commentary.Start(context.Background(), "m1"); err != nil {
		t.Fatalf("expected start to succeed despite fetch failure, got %v", err)
	}
	if h.gate.IsBlocked(h.clock.Now()) {
		t.Fatalf("expected commentary rate limit to leave the gate alone")
	}
	if !h.commentary.IsPolling("m1") {
		t.Fatalf("expected poller to stay registered")
	}
	if _, ok := h.store.Commentary("m1"); ok {
		t.Fatalf("expected nothing cached after failure")
	}
}

func TestCommentaryMissingEntriesKeepsCache(t *testing.T) {
	provider := &teststubs.StubProvider{
		Commentary: map[string][]matches.CommentaryEntry{"m1": {{Over: "5.5"}}},
	}
	h := newHarness(t, provider, harnessOptions{commentaryInterval: 10 * time.Millisecond})
	if err := h.commentary.Start(context.Background(), "m1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	provider.SetCommentaryErr(providers.ErrNoCommentary)
	calls := provider.CommentaryCalls.Load()
	waitFor(t, "two more commentary ticks", func() bool { return provider.CommentaryCalls.Load() > calls+1 })

	cached, ok := h.store.Commentary("m1")
	if !ok || len(cached) != 1 || cached[0].Over != "5.5" {
		t.Fatalf("expected previous commentary kept, got %+v", cached)
	}
}

func TestCommentaryCadenceTicks(t *testing.T) {
	provider := &teststubs.StubProvider{}
	h := newHarness(t, provider, harnessOptions{commentaryInterval: 10 * time.Millisecond})
	if err := h.commentary.Start(context.Background(), "m1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitFor(t, "commentary ticks", func() bool { return provider.CommentaryCalls.Load() >= 3 })
}

func TestCommentaryGateArmStopsAllAndKeepsCache(t *testing.T) {
	provider := &teststubs.StubProvider{
		Commentary: map[string][]matches.CommentaryEntry{"m1": {{Over: "1.1"}}, "m2": {{Over: "2.2"}}},
	}
	h := newHarness(t, provider, harnessOptions{})
	for _, id := range []string{"m1", "m2"} {
		if err := h.commentary.Start(context.Background(), id); err != nil {
			t.Fatalf("start %s: %v", id, err)
		}
	}

	h.gate.Arm(time.Minute, h.clock.Now())

	if active := h.commentary.Active(); len(active) != 0 {
		t.Fatalf("expected all pollers stopped, got %v", active)
	}
	if _, ok := h.store.Commentary("m1"); !ok {
		t.Fatalf("expected cached commentary retained while blocked")
	}
	h.commentary.Stop("m2")
	if _, ok := h.store.Commentary("m2"); ok {
		t.Fatalf("expected stop while blocked to discard cache")
	}
}

func TestCommentaryCloseRefusesStart(t *testing.T) {
	h := newHarness(t, &teststubs.StubProvider{}, harnessOptions{})
	h.commentary.Close()
	if err := h.commentary.Start(context.Background(), "m1"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestCommentaryStopDiscardsInFlightResult(t *testing.T) {
	provider := newBlockingProvider()
	provider.entries = []matches.CommentaryEntry{{Over: "late"}}
	s := store.NewMemoryStore()
	set := NewCommentarySet(provider, gate.New(nil, nil), s, nil, nil, time.Hour)
	t.Cleanup(set.Close)

	done := make(chan error, 1)
	go func() { done <- set.Start(context.Background(), "m1") }()
	select {
	case <-provider.entered:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for fetch")
	}

	set.Stop("m1")
	close(provider.release)
	if err := <-done; err != nil {
		t.Fatalf("start returned %v", err)
	}
	if _, ok := s.Commentary("m1"); ok {
		t.Fatalf("expected late commentary discarded")
	}
}

func TestCommentaryArmDuringFetchDropsReplyAndHalts(t *testing.T) {
	provider := newBlockingProvider()
	provider.entries = []matches.CommentaryEntry{{Over: "9.9"}}
	s := store.NewMemoryStore()
	g := gate.New(nil, nil)
	set := NewCommentarySet(provider, g, s, nil, nil, time.Hour)
	t.Cleanup(set.Close)

	done := make(chan error, 1)
	go func() { done <- set.Start(context.Background(), "m1") }()
	select {
	case <-provider.entered:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for fetch")
	}

	g.Arm(time.Minute, g.Now())
	close(provider.release)
	if err := <-done; err != nil {
		t.Fatalf("start returned %v", err)
	}
	if _, ok := s.Commentary("m1"); ok {
		t.Fatalf("expected reply from before the arm to be dropped")
	}
	if set.IsPolling("m1") {
		t.Fatalf("expected poller halted by the arm")
	}
	if err := set.Start(context.Background(), "m1"); err == nil {
		t.Fatalf("expected start refused while blocked")
	}
}

func TestCommentaryRequireLiveRefusesFinishedMatch(t *testing.T) {
	provider := &teststubs.StubProvider{
		Commentary: map[string][]matches.CommentaryEntry{"m1": {{Over: "1.1"}}},
	}
	h := newHarness(t, provider, harnessOptions{})
	h.commentary.RequireLive(h.store.IsLive)

	if err := h.commentary.Start(context.Background(), "m1"); !errors.Is(err, ErrNotLive) {
		t.Fatalf("expected ErrNotLive, got %v", err)
	}
	if provider.CommentaryCalls.Load() != 0 || h.commentary.IsPolling("m1") {
		t.Fatalf("expected no poller and no request for a match that is not live")
	}

	all := []matches.Match{liveMatch("m1")}
	h.store.SetBoard(matches.Classify(all, h.clock.Now()), all, h.clock.Now())
	if err := h.commentary.Start(context.Background(), "m1"); err != nil {
		t.Fatalf("expected start for live match, got %v", err)
	}
	if !h.commentary.IsPolling("m1") {
		t.Fatalf("expected poller registered")
	}
}
