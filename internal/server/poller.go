package server

import (
	"context"

	"github.com/preston-bernstein/cricket-live-service/internal/poller"
)

// Poller defines the minimal poller behavior needed by the server.
type Poller interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() poller.Status
}

// commentaryCloser stops every commentary poller at shutdown.
type commentaryCloser interface {
	Close()
}
