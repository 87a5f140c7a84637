package teststubs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/cricket-live-service/internal/domain/matches"
)

// MatchResult is one scripted response for FetchCurrentMatches.
type MatchResult struct {
	Matches []matches.Match
	Err     error
}

// StubProvider is a test double for providers.CricketProvider.
// Scripted results are consumed in order; afterwards Matches and Err are returned.
type StubProvider struct {
	Matches       []matches.Match
	Err           error
	Script        []MatchResult
	Commentary    map[string][]matches.CommentaryEntry
	CommentaryErr error

	Calls           atomic.Int32
	CommentaryCalls atomic.Int32
	// Notify is closed on the first match fetch.
	Notify chan struct{}
	// Fetched receives one value per match fetch when buffered space allows.
	Fetched chan struct{}
	// CommentaryFetched receives the match ID of each commentary fetch when space allows.
	CommentaryFetched chan string

	mu sync.Mutex
}

// FetchCurrentMatches returns the next scripted result while tracking calls.
func (s *StubProvider) FetchCurrentMatches(ctx context.Context) ([]matches.Match, error) {
	_ = ctx
	s.mu.Lock()
	list, err := s.Matches, s.Err
	if len(s.Script) > 0 {
		list, err = s.Script[0].Matches, s.Script[0].Err
		s.Script = s.Script[1:]
	}
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	s.mu.Unlock()

	s.Calls.Add(1)
	if s.Fetched != nil {
		select {
		case s.Fetched <- struct{}{}:
		default:
		}
	}
	return list, err
}

// FetchCommentary returns configured commentary for the match.
func (s *StubProvider) FetchCommentary(ctx context.Context, matchID string) ([]matches.CommentaryEntry, error) {
	_ = ctx
	s.mu.Lock()
	entries, err := s.Commentary[matchID], s.CommentaryErr
	s.mu.Unlock()

	s.CommentaryCalls.Add(1)
	if s.CommentaryFetched != nil {
		select {
		case s.CommentaryFetched <- matchID:
		default:
		}
	}
	return entries, err
}

// SetResult replaces the fallback match result.
func (s *StubProvider) SetResult(list []matches.Match, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Matches = list
	s.Err = err
}

// SetCommentaryErr replaces the commentary error.
func (s *StubProvider) SetCommentaryErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CommentaryErr = err
}

// StubSnapshotStore is a test double for snapshots.Store.
type StubSnapshotStore struct {
	Boards  map[string]matches.Snapshot // keyed by date
	LoadErr error
}

// LoadBoard returns the snapshot for the date if present.
func (s *StubSnapshotStore) LoadBoard(date string) (matches.Snapshot, error) {
	if s.LoadErr != nil {
		return matches.Snapshot{}, s.LoadErr
	}
	snap, ok := s.Boards[date]
	if !ok {
		return matches.Snapshot{}, errors.New("snapshot not found")
	}
	return snap, nil
}

// StubSnapshotWriter is a test double for poller.SnapshotWriter.
type StubSnapshotWriter struct {
	mu      sync.Mutex
	Written map[string]matches.Snapshot // keyed by date
	Err     error
}

// WriteBoardSnapshot records the snapshot for verification in tests.
func (w *StubSnapshotWriter) WriteBoardSnapshot(date string, snapshot matches.Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Err != nil {
		return w.Err
	}
	if w.Written == nil {
		w.Written = make(map[string]matches.Snapshot)
	}
	w.Written[date] = snapshot
	return nil
}

// Count returns how many dates have been written.
func (w *StubSnapshotWriter) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.Written)
}

// StubPublisher is a test double for poller.Publisher.
type StubPublisher struct {
	mu        sync.Mutex
	Published []matches.Snapshot
	Err       error
}

// PublishBoard records the published snapshot.
func (p *StubPublisher) PublishBoard(ctx context.Context, snapshot matches.Snapshot) error {
	_ = ctx
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Published = append(p.Published, snapshot)
	return nil
}

// Count returns the number of successful publishes.
func (p *StubPublisher) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Published)
}
