package matches

import domainmatches "github.com/preston-bernstein/cricket-live-service/internal/domain/matches"

// Store defines the read side of the match store.
type Store interface {
	AllMatches() []domainmatches.Match
	GetMatch(id string) (domainmatches.Match, bool)
}

// Service answers schedule queries from the most recent match list.
type Service struct {
	store Store
}

// NewService constructs a Service with the provided Store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Matches returns the full list from the last successful fetch.
func (s *Service) Matches() []domainmatches.Match {
	return s.store.AllMatches()
}

// Schedule returns the matches passing filter.
func (s *Service) Schedule(filter domainmatches.Filter) []domainmatches.Match {
	return filter.Apply(s.store.AllMatches())
}

// MatchByID returns a single match if present.
func (s *Service) MatchByID(id string) (domainmatches.Match, bool) {
	return s.store.GetMatch(id)
}
