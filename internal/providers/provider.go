package providers

import (
	"context"

	"github.com/preston-bernstein/cricket-live-service/internal/domain/matches"
)

// MatchProvider fetches the current match list from upstream.
type MatchProvider interface {
	FetchCurrentMatches(ctx context.Context) ([]matches.Match, error)
}

// CommentaryProvider fetches ball-by-ball commentary for one match.
type CommentaryProvider interface {
	FetchCommentary(ctx context.Context, matchID string) ([]matches.CommentaryEntry, error)
}

// CricketProvider combines all cricket data capabilities.
type CricketProvider interface {
	MatchProvider
	CommentaryProvider
}
