package testutil

import (
	"testing"
	"time"

	"github.com/preston-bernstein/cricket-live-service/internal/app/live"
	appmatches "github.com/preston-bernstein/cricket-live-service/internal/app/matches"
	"github.com/preston-bernstein/cricket-live-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-live-service/internal/gate"
	"github.com/preston-bernstein/cricket-live-service/internal/snapshots"
	"github.com/preston-bernstein/cricket-live-service/internal/store"
)

// LiveFixture bundles a live service with the collaborators tests poke at.
type LiveFixture struct {
	Store      *store.MemoryStore
	Poller     *StubPoller
	Commentary *StubCommentary
	Gate       *gate.Gate
	Writer     *snapshots.Writer
	Live       *live.Service
	Schedule   *appmatches.Service
}

// NewLiveFixture builds a live service over an in-memory store, stub pollers, a gate
// frozen at now and a snapshot store in a temp dir.
func NewLiveFixture(t *testing.T, now time.Time) *LiveFixture {
	t.Helper()
	f := &LiveFixture{
		Store:      store.NewMemoryStore(),
		Poller:     &StubPoller{},
		Commentary: &StubCommentary{},
		Gate:       gate.New(nil, nil, gate.WithClock(NowAt(now))),
		Writer:     NewTempWriter(t, 7),
	}
	f.Commentary.Cache = f.Store
	f.Live = live.NewService(f.Store, f.Poller, f.Commentary, f.Gate, snapshots.NewFSStore(f.Writer.BasePath()))
	f.Schedule = appmatches.NewService(f.Store)
	return f
}

// SetMatches classifies list at updated and stores the result.
func (f *LiveFixture) SetMatches(list []matches.Match, updated time.Time) {
	f.Store.SetBoard(matches.Classify(list, updated), list, updated)
}

// NewScheduleService builds a schedule service over an in-memory store preloaded with list.
func NewScheduleService(list []matches.Match) *appmatches.Service {
	ms := store.NewMemoryStore()
	if len(list) > 0 {
		now := time.Now()
		ms.SetBoard(matches.Classify(list, now), list, now)
	}
	return appmatches.NewService(ms)
}
