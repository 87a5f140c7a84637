package live

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/preston-bernstein/cricket-live-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-live-service/internal/poller"
	"github.com/preston-bernstein/cricket-live-service/internal/timeutil"
)

var (
	// ErrSnapshotsDisabled is returned for dated board requests when no snapshot store is configured.
	ErrSnapshotsDisabled = errors.New("snapshots not enabled")
	// ErrInvalidDate is returned when a date is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")
	// ErrSnapshotNotFound is returned when no board was stored for the date.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// Store is the read side of the live board and commentary cache.
type Store interface {
	Board() (matches.Board, time.Time)
	IsLive(id string) bool
	Commentary(id string) ([]matches.CommentaryEntry, bool)
}

// Poller is the match poller as seen by the view.
type Poller interface {
	Refresh(ctx context.Context) error
	Status() poller.Status
}

// Commentary controls per-match commentary polling.
type Commentary interface {
	Start(ctx context.Context, id string) error
	Stop(id string)
	IsPolling(id string) bool
}

// Gate exposes the rate-limit countdown.
type Gate interface {
	Now() time.Time
	Remaining(now time.Time) int
}

// Snapshots serves boards persisted on earlier days.
type Snapshots interface {
	LoadBoard(date string) (matches.Snapshot, error)
	Dates() ([]string, error)
}

// Board is the live view: both sets, freshness, poller health and the block countdown.
type Board struct {
	Live        []matches.Match `json:"live"`
	Upcoming    []matches.Match `json:"upcoming"`
	LastUpdated *time.Time      `json:"lastUpdated"`
	Status      poller.Status   `json:"status"`
	Blocked     bool            `json:"blocked"`
	RetryAfter  int             `json:"retryAfterSeconds,omitempty"`
	Countdown   string          `json:"countdown,omitempty"`
	Date        string          `json:"date,omitempty"`
}

// CommentaryView is the cached commentary for one match.
type CommentaryView struct {
	MatchID string                    `json:"matchId"`
	Polling bool                      `json:"polling"`
	Entries []matches.CommentaryEntry `json:"commentary"`
}

// Service composes the store, pollers and gate into the operations the HTTP layer exposes.
type Service struct {
	store      Store
	poller     Poller
	commentary Commentary
	gate       Gate
	snapshots  Snapshots
}

// NewService wires the live view. snapshots may be nil.
func NewService(store Store, p Poller, commentary Commentary, g Gate, snapshots Snapshots) *Service {
	return &Service{store: store, poller: p, commentary: commentary, gate: g, snapshots: snapshots}
}

// Board returns the current board. A positive limit caps the upcoming set.
func (s *Service) Board(limit int) Board {
	board, updated := s.store.Board()
	view := Board{
		Live:     board.Live,
		Upcoming: capList(board.Upcoming, limit),
		Status:   s.poller.Status(),
	}
	if !updated.IsZero() {
		view.LastUpdated = &updated
	}
	s.applyCountdown(&view)
	return view
}

// BoardOn returns the snapshot stored for date (YYYY-MM-DD).
func (s *Service) BoardOn(date string, limit int) (Board, error) {
	if s.snapshots == nil {
		return Board{}, ErrSnapshotsDisabled
	}
	if _, err := timeutil.ParseDate(date); err != nil {
		return Board{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	snap, err := s.snapshots.LoadBoard(date)
	if errors.Is(err, os.ErrNotExist) {
		return Board{}, fmt.Errorf("%w for %s", ErrSnapshotNotFound, date)
	}
	if err != nil {
		return Board{}, err
	}
	view := Board{
		Live:     snap.Live,
		Upcoming: capList(snap.Upcoming, limit),
		Status:   s.poller.Status(),
		Date:     snap.Date,
	}
	if !snap.LastUpdated.IsZero() {
		updated := snap.LastUpdated
		view.LastUpdated = &updated
	}
	s.applyCountdown(&view)
	return view, nil
}

// SnapshotDates lists the dates with a stored board.
func (s *Service) SnapshotDates() ([]string, error) {
	if s.snapshots == nil {
		return nil, ErrSnapshotsDisabled
	}
	return s.snapshots.Dates()
}

// Refresh triggers a manual fetch and returns the resulting board alongside its error.
func (s *Service) Refresh(ctx context.Context) (Board, error) {
	err := s.poller.Refresh(ctx)
	return s.Board(0), err
}

// Ready reports whether the poller has produced a usable board.
func (s *Service) Ready() bool {
	return s.poller.Status().IsReady()
}

// Commentary returns the cached commentary for id.
func (s *Service) Commentary(id string) CommentaryView {
	entries, _ := s.store.Commentary(id)
	if entries == nil {
		entries = []matches.CommentaryEntry{}
	}
	return CommentaryView{MatchID: id, Polling: s.commentary.IsPolling(id), Entries: entries}
}

// OpenCommentary starts commentary polling for a live match and returns what is cached
// after the immediate fetch. The wired CommentarySet repeats the live check under its own
// lock, so a board update racing this call cannot leave a poller for a finished match.
func (s *Service) OpenCommentary(ctx context.Context, id string) (CommentaryView, error) {
	if !s.store.IsLive(id) {
		return CommentaryView{}, poller.ErrNotLive
	}
	if err := s.commentary.Start(ctx, id); err != nil {
		return CommentaryView{}, err
	}
	return s.Commentary(id), nil
}

// CloseCommentary stops commentary polling for id and drops its cache.
func (s *Service) CloseCommentary(id string) {
	s.commentary.Stop(id)
}

func (s *Service) applyCountdown(view *Board) {
	remaining := s.gate.Remaining(s.gate.Now())
	if remaining <= 0 {
		return
	}
	view.Blocked = true
	view.RetryAfter = remaining
	view.Countdown = timeutil.FormatCountdown(remaining)
}

func capList(list []matches.Match, limit int) []matches.Match {
	if list == nil {
		return []matches.Match{}
	}
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}
