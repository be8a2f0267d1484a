// Package favorites persists the set of favorited station IDs.
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// DefaultKey is the storage key holding the favorites list.
const DefaultKey = "favorite_stations"

// Backend is a key-value store. Get returns nil without error when the key is absent.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store keeps favorited station IDs under a single key as a JSON array of strings.
// Every toggle is a read-modify-write of the whole list.
type Store struct {
	backend Backend
	key     string
	mu      sync.Mutex
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     DefaultKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the favorited IDs in insertion order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(ctx)
}

func (s *Store) IsFavorite(ctx context.Context, stationID string) (bool, error) {
	ids, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	return indexOf(ids, stationID) >= 0, nil
}

// Toggle adds the station if absent or removes it if present, and returns the new state.
func (s *Store) Toggle(ctx context.Context, stationID string) (bool, error) {
	if stationID == "" {
		return false, fmt.Errorf("station id is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.read(ctx)
	if err != nil {
		return false, err
	}

	favorite := false
	if i := indexOf(ids, stationID); i >= 0 {
		ids = append(ids[:i], ids[i+1:]...)
	} else {
		ids = append(ids, stationID)
		favorite = true
	}

	data, err := json.Marshal(ids)
	if err != nil {
		return false, fmt.Errorf("encoding favorites: %w", err)
	}
	if err := s.backend.Set(ctx, s.key, data); err != nil {
		return false, fmt.Errorf("saving favorites: %w", err)
	}

	log.Debug().
		Str("station_id", stationID).
		Bool("favorite", favorite).
		Int("favorite_count", len(ids)).
		Msg("Toggled favorite")

	return favorite, nil
}

func (s *Store) read(ctx context.Context) ([]string, error) {
	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("loading favorites: %w", err)
	}
	if len(data) == 0 {
		return []string{}, nil
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("Stored favorites are unreadable, starting empty")
		return []string{}, nil
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
