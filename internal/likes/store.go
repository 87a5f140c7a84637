package likes

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Store is the set of blog IDs the reader has liked, persisted as a JSON array.
type Store struct {
	path string

	mu  sync.RWMutex
	ids map[string]struct{}
}

// Open loads the set from path. A missing file yields an empty set; an empty path keeps
// the set in memory only.
func Open(path string) (*Store, error) {
	s := &Store{path: path, ids: make(map[string]struct{})}
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read likes: %w", err)
	}
	var list []string
	if len(data) > 0 {
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decode likes %s: %w", path, err)
		}
	}
	for _, id := range list {
		s.ids[id] = struct{}{}
	}
	return s, nil
}

// IsLiked reports whether id is in the set.
func (s *Store) IsLiked(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// List returns the liked IDs in sorted order.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Toggle flips id and returns its new state.
func (s *Store) Toggle(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, liked := s.ids[id]
	return !liked, s.setLocked(id, !liked)
}

// Set forces id into the given state.
func (s *Store) Set(id string, liked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(id, liked)
}

func (s *Store) setLocked(id string, liked bool) error {
	_, had := s.ids[id]
	if had == liked {
		return nil
	}
	if liked {
		s.ids[id] = struct{}{}
	} else {
		delete(s.ids, id)
	}
	if err := s.persistLocked(); err != nil {
		if liked {
			delete(s.ids, id)
		} else {
			s.ids[id] = struct{}{}
		}
		return err
	}
	return nil
}

func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}
	list := make([]string, 0, len(s.ids))
	for id := range s.ids {
		list = append(list, id)
	}
	sort.Strings(list)
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("write likes: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write likes: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("write likes: %w", err)
	}
	return nil
}
