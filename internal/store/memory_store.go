package store

import (
	"sync"
	"time"

	"github.com/preston-bernstein/cricket-live-service/internal/domain/matches"
)

// MemoryStore keeps the latest board, the full match list and per-match commentary in memory.
type MemoryStore struct {
	mu          sync.RWMutex
	board       matches.Board
	all         []matches.Match
	byID        map[string]matches.Match
	lastUpdated time.Time

	commentaryMu sync.RWMutex
	commentary   map[string][]matches.CommentaryEntry
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		board:      matches.Board{Live: make([]matches.Match, 0), Upcoming: make([]matches.Match, 0)},
		all:        make([]matches.Match, 0),
		byID:       make(map[string]matches.Match),
		commentary: make(map[string][]matches.CommentaryEntry),
	}
}

// SetBoard replaces the board and the full match list in one step.
func (s *MemoryStore) SetBoard(board matches.Board, all []matches.Match, updated time.Time) {
	byID := make(map[string]matches.Match, len(all))
	for _, m := range all {
		byID[m.ID] = m
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board = matches.Board{Live: copyMatches(board.Live), Upcoming: copyMatches(board.Upcoming)}
	s.all = copyMatches(all)
	s.byID = byID
	s.lastUpdated = updated
}

// Board returns a copy of the current board and when it was last replaced.
func (s *MemoryStore) Board() (matches.Board, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return matches.Board{Live: copyMatches(s.board.Live), Upcoming: copyMatches(s.board.Upcoming)}, s.lastUpdated
}

// AllMatches returns a copy of the last fetched match list.
func (s *MemoryStore) AllMatches() []matches.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyMatches(s.all)
}

// GetMatch retrieves a match by ID from the last fetched list.
func (s *MemoryStore) GetMatch(id string) (matches.Match, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byID[id]
	return m, ok
}

// IsLive reports whether id is on the live side of the current board.
func (s *MemoryStore) IsLive(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.board.Live {
		if m.ID == id {
			return true
		}
	}
	return false
}

// SetCommentary replaces the cached commentary for a match.
func (s *MemoryStore) SetCommentary(id string, entries []matches.CommentaryEntry) {
	s.commentaryMu.Lock()
	defer s.commentaryMu.Unlock()
	s.commentary[id] = matches.TruncateCommentary(entries)
}

// Commentary returns a copy of the cached commentary for a match.
func (s *MemoryStore) Commentary(id string) ([]matches.CommentaryEntry, bool) {
	s.commentaryMu.RLock()
	defer s.commentaryMu.RUnlock()
	entries, ok := s.commentary[id]
	if !ok {
		return nil, false
	}
	out := make([]matches.CommentaryEntry, len(entries))
	copy(out, entries)
	return out, true
}

// DeleteCommentary discards the cached commentary for a match.
func (s *MemoryStore) DeleteCommentary(id string) {
	s.commentaryMu.Lock()
	defer s.commentaryMu.Unlock()
	delete(s.commentary, id)
}

// RetainCommentary discards cached commentary for every match not in keep.
func (s *MemoryStore) RetainCommentary(keep map[string]struct{}) {
	s.commentaryMu.Lock()
	defer s.commentaryMu.Unlock()
	for id := range s.commentary {
		if _, ok := keep[id]; !ok {
			delete(s.commentary, id)
		}
	}
}

func copyMatches(in []matches.Match) []matches.Match {
	out := make([]matches.Match, len(in))
	copy(out, in)
	return out
}
