package testutil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/cricket-live-service/internal/domain/matches"
)

func TestClockHelpers(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := NowAt(now)(); !got.Equal(now) {
		t.Fatalf("expected fixed time, got %v", got)
	}
	if MustParseRFC3339(now.Format(time.RFC3339)) != now {
		t.Fatalf("expected parse round trip")
	}
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on invalid RFC3339")
		}
	}()
	MustParseRFC3339("not-a-time")
}

func TestFixturesHelper(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	board := matches.Classify([]matches.Match{
		SampleMatch("up"),
		LiveMatch("live"),
		CompletedMatch("done"),
	}, now)
	if len(board.Live) != 1 || board.Live[0].ID != "live" {
		t.Fatalf("expected LiveMatch to classify as live, got %+v", board.Live)
	}
	if len(board.Upcoming) != 1 || board.Upcoming[0].ID != "up" {
		t.Fatalf("expected SampleMatch to classify as upcoming, got %+v", board.Upcoming)
	}

	entries := SampleCommentary(25)
	if len(entries) != 25 || entries[0].Over != "4.1" {
		t.Fatalf("unexpected commentary fixture %+v", entries[0])
	}
	if b := SampleBlog("b1", "news"); b.ID != "b1" || b.Category != "news" {
		t.Fatalf("unexpected blog fixture %+v", b)
	}
}

func TestLiveFixture(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f := NewLiveFixture(t, now)
	f.SetMatches([]matches.Match{LiveMatch("m1"), SampleMatch("m2")}, now)

	board := f.Live.Board(0)
	if len(board.Live) != 1 || len(board.Upcoming) != 1 {
		t.Fatalf("unexpected board %+v", board)
	}
	if len(f.Schedule.Matches()) != 2 {
		t.Fatalf("expected schedule to see stored matches")
	}

	f.Commentary.Entries = map[string][]matches.CommentaryEntry{"m1": SampleCommentary(2)}
	view, err := f.Live.OpenCommentary(context.Background(), "m1")
	if err != nil || len(view.Entries) != 2 {
		t.Fatalf("expected stub commentary cached, got %+v %v", view, err)
	}
	f.Live.CloseCommentary("m1")
	if _, ok := f.Store.Commentary("m1"); ok {
		t.Fatalf("expected stub stop to drop cache")
	}

	today := time.Now().UTC().Format(time.DateOnly)
	WriteSnapshot(t, f.Writer, today)
	if _, err := f.Live.BoardOn(today, 0); err != nil {
		t.Fatalf("expected snapshot readable through fixture, got %v", err)
	}
}

func TestNewScheduleService(t *testing.T) {
	svc := NewScheduleService([]matches.Match{SampleMatch("a")})
	if _, ok := svc.MatchByID("a"); !ok {
		t.Fatalf("expected preloaded match")
	}
	if len(NewScheduleService(nil).Matches()) != 0 {
		t.Fatalf("expected empty service")
	}
}

func TestServeHelpers(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	rr := Serve(handler, http.MethodPost, "/test", strings.NewReader("{}"))
	AssertStatus(t, rr, http.StatusCreated)
	var body map[string]bool
	DecodeJSON(t, rr, &body)
	if !body["ok"] {
		t.Fatalf("expected ok=true")
	}

	req := httptest.NewRequest(http.MethodGet, "/req", nil)
	rr2 := ServeRequest(handler, req)
	AssertStatus(t, rr2, http.StatusCreated)
}

func TestSnapshotHelpers(t *testing.T) {
	w := NewTempWriter(t, 5)
	date := time.Now().UTC().Format(time.DateOnly)
	WriteSnapshot(t, w, date)
	path := SnapshotPath(w, date)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected snapshot file, got %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected snapshot contents")
	}
}

func TestWriteSnapshotPayloadHandlesNilWriter(t *testing.T) {
	if err := writeSnapshotPayload(nil, "2024-01-01"); err == nil {
		t.Fatalf("expected error for nil writer")
	}
}

func TestServerStubs(t *testing.T) {
	p := &StubPoller{Err: errors.New("stop"), RefreshErr: errors.New("refresh")}
	p.Start(context.Background())
	if err := p.Stop(context.Background()); !errors.Is(err, p.Err) {
		t.Fatalf("expected stop error")
	}
	if err := p.Refresh(context.Background()); !errors.Is(err, p.RefreshErr) {
		t.Fatalf("expected refresh error")
	}
	if p.StartCalls != 1 || p.StopCalls != 1 || p.RefreshCalls != 1 {
		t.Fatalf("unexpected call counts %+v", p)
	}

	sh := &StubHTTPServer{ListenErr: errors.New("boom"), ShutdownErr: errors.New("down")}
	sh.HandlerVal = http.NewServeMux()
	_ = sh.ListenAndServe()
	_ = sh.Shutdown(context.Background())
	_ = sh.Handler()
	_ = sh.Addr()
	if sh.ListenCalls != 1 || sh.ShutdownCalls != 1 {
		t.Fatalf("expected listen/shutdown calls, got %+v", sh)
	}

	b := &BlockingHTTPServer{Unblock: make(chan struct{}), HandlerVal: http.NewServeMux()}
	if err := b.ListenAndServe(); err != nil {
		t.Fatalf("expected nil listen error for blocking server")
	}
	done := make(chan error, 1)
	go func() { done <- b.Shutdown(context.Background()) }()
	close(b.Unblock)
	_ = b.Handler()
	if b.Addr() != b.AddrVal {
		t.Fatalf("expected blocking server addr passthrough")
	}
	if err := <-done; err != nil {
		t.Fatalf("expected nil shutdown err, got %v", err)
	}
	if b.ShutdownCalls != 1 {
		t.Fatalf("expected shutdown called once")
	}

	e := &ErrHTTPServer{}
	_ = e.ListenAndServe()
	_ = e.Shutdown(context.Background())
	_ = e.Handler()
	if e.Addr() == "" {
		t.Fatalf("expected addr from ErrHTTPServer")
	}
	if e.ShutdownCalls != 1 {
		t.Fatalf("expected shutdown call for ErrHTTPServer")
	}

	c := &CloseableHTTPServer{}
	_ = c.ListenAndServe()
	_ = c.Shutdown(context.Background())
	_ = c.Handler()
	if c.Addr() == "" {
		t.Fatalf("expected addr from CloseableHTTPServer")
	}
	if c.ShutdownCalls != 1 {
		t.Fatalf("expected shutdown call for CloseableHTTPServer")
	}

	// verify Status passthrough
	if p.Status() != p.StatusVal {
		t.Fatalf("expected status passthrough")
	}
}

func TestLoggerAndMetricsHelpers(t *testing.T) {
	logger, buf := NewBufferLogger()
	logger.Info("hello", "k", "v")
	if buf.Len() == 0 {
		t.Fatalf("expected buffered log output")
	}
	rec, shutdown := NewRecorderWithShutdown()
	if rec == nil || shutdown == nil {
		t.Fatalf("expected recorder and shutdown")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("expected nil shutdown error, got %v", err)
	}
}
