package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/preston-bernstein/cricket-live-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-live-service/internal/logging"
)

const (
	// BoardKey holds the latest board snapshot as JSON.
	BoardKey = "live:board"
	// LiveIDsKey holds the IDs of live matches, in board order.
	LiveIDsKey = "live:ids"

	defaultTTL = 10 * time.Minute
)

// Publisher mirrors the live board into Redis for other consumers.
type Publisher struct {
	store  kv
	ttl    time.Duration
	logger *slog.Logger
}

// NewPublisher connects to the Redis instance at url. It does not contact the server;
// call Ping to verify connectivity.
func NewPublisher(url string, ttl time.Duration, logger *slog.Logger) (*Publisher, error) {
	store, err := dial(url)
	if err != nil {
		return nil, err
	}
	return newPublisher(store, ttl, logger), nil
}

func newPublisher(store kv, ttl time.Duration, logger *slog.Logger) *Publisher {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Publisher{store: store, ttl: ttl, logger: logger}
}

// PublishBoard writes the snapshot and the live ID list. Both keys expire after the
// configured TTL so a stalled service does not leave a stale board behind.
func (p *Publisher) PublishBoard(ctx context.Context, snap matches.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}
	if err := p.store.setJSON(ctx, BoardKey, payload, p.ttl); err != nil {
		return fmt.Errorf("publish board: %w", err)
	}

	ids := make([]string, 0, len(snap.Live))
	for _, m := range snap.Live {
		ids = append(ids, m.ID)
	}
	if err := p.store.replaceList(ctx, LiveIDsKey, ids, p.ttl); err != nil {
		return fmt.Errorf("publish live ids: %w", err)
	}

	if p.logger != nil {
		p.logger.Debug("board published",
			slog.Int(logging.FieldLive, len(snap.Live)),
			slog.Int(logging.FieldUpcoming, len(snap.Upcoming)),
		)
	}
	return nil
}

// Ping checks the connection.
func (p *Publisher) Ping(ctx context.Context) error {
	return p.store.ping(ctx)
}

// Close releases the underlying client.
func (p *Publisher) Close() error {
	return p.store.close()
}
