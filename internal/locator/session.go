// Package locator holds the state of one map session: the loaded stations, the
// active filter, the selected station and the reference point.
package locator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/voltmap-kh/chargemap/backend-go/internal/favorites"
	"github.com/voltmap-kh/chargemap/backend-go/internal/feed"
	"github.com/voltmap-kh/chargemap/backend-go/internal/locate"
	"github.com/voltmap-kh/chargemap/backend-go/internal/models"
	"github.com/voltmap-kh/chargemap/backend-go/internal/rank"
	"github.com/voltmap-kh/chargemap/backend-go/internal/station"
)

type NoticeKind string

const (
	NoticeFeedUnavailable NoticeKind = "feed_unavailable"
	NoticeFeedMalformed   NoticeKind = "feed_malformed"
	NoticeLocation        NoticeKind = "location"
	NoticeFavorites       NoticeKind = "favorites"
)

// Notice is a transient message for the user about a failed operation.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
	At      time.Time  `json:"at"`
}

type Session struct {
	loader    *feed.Loader
	feedPath  string
	resolver  *locate.Resolver
	favorites *favorites.Store

	mu       sync.RWMutex
	stations []models.Station
	filter   models.Filter
	selected *models.Station
	notices  []Notice
}

func NewSession(loader *feed.Loader, feedPath string, resolver *locate.Resolver, store *favorites.Store) *Session {
	if store == nil {
		store = favorites.NewStore(favorites.NewMemoryBackend())
	}
	return &Session{
		loader:    loader,
		feedPath:  feedPath,
		resolver:  resolver,
		favorites: store,
		stations:  []models.Station{},
	}
}

// Load replaces the station list with a fresh copy of the feed. On failure the list
// is cleared, a notice is recorded and the error is returned.
func (s *Session) Load(ctx context.Context) error {
	stations, err := s.loader.Load(ctx, s.feedPath)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.stations = []models.Station{}
		s.selected = nil

		kind := NoticeFeedUnavailable
		message := "Unable to load charging stations. Please try again."
		var formatErr *feed.FormatError
		if errors.As(err, &formatErr) {
			kind = NoticeFeedMalformed
			message = "Charging station data is unavailable right now."
		}
		s.addNotice(kind, message)
		return err
	}

	s.stations = stations
	if s.selected != nil {
		s.selected = findByID(stations, s.selected.ID)
	}
	return nil
}

func (s *Session) Loading() bool {
	return s.loader.Loading()
}

// Stations returns a copy of the loaded stations in feed order.
func (s *Session) Stations() []models.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneStations(s.stations)
}

func (s *Session) SetFilter(filter models.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
}

func (s *Session) Filter() models.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// Results ranks the loaded stations against the current filter and reference point.
func (s *Session) Results() []models.Station {
	ref := s.resolver.Reference()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return rank.Rank(s.stations, ref, s.filter)
}

func (s *Session) Summary() models.NetworkSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return station.Summarize(s.stations)
}

// Select marks the station with the given id as selected. An empty id clears it.
func (s *Session) Select(stationID string) (*models.Station, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stationID == "" {
		s.selected = nil
		return nil, nil
	}

	found := findByID(s.stations, stationID)
	if found == nil {
		return nil, fmt.Errorf("station not found: %s", stationID)
	}
	s.selected = found
	selected := found.Clone()
	return &selected, nil
}

func (s *Session) Selected() *models.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return nil
	}
	selected := s.selected.Clone()
	return &selected
}

func (s *Session) SetViewport(center models.LatLng) {
	s.resolver.SetViewport(center)
}

func (s *Session) Reference() models.LatLng {
	return s.resolver.Reference()
}

// Locate asks for the device position. On failure the reference point and the
// station list are unchanged and a notice is recorded.
func (s *Session) Locate(ctx context.Context) (models.LatLng, error) {
	p, err := s.resolver.Locate(ctx)
	if err != nil {
		s.mu.Lock()
		s.addNotice(NoticeLocation, "Unable to get your location: "+locationReason(err)+".")
		s.mu.Unlock()
		return models.LatLng{}, err
	}
	return p, nil
}

func (s *Session) IsFavorite(ctx context.Context, stationID string) (bool, error) {
	return s.favorites.IsFavorite(ctx, stationID)
}

func (s *Session) Favorites(ctx context.Context) ([]string, error) {
	return s.favorites.List(ctx)
}

func (s *Session) ToggleFavorite(ctx context.Context, stationID string) (bool, error) {
	favorite, err := s.favorites.Toggle(ctx, stationID)
	if err != nil {
		log.Error().Err(err).Str("station_id", stationID).Msg("Unable to update favorites")
		s.mu.Lock()
		s.addNotice(NoticeFavorites, "Unable to save your favorites.")
		s.mu.Unlock()
		return false, err
	}
	return favorite, nil
}

// Notices returns and clears the pending notices.
func (s *Session) Notices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	notices := s.notices
	s.notices = nil
	return notices
}

func (s *Session) addNotice(kind NoticeKind, message string) {
	s.notices = append(s.notices, Notice{Kind: kind, Message: message, At: time.Now()})
}

func findByID(stations []models.Station, id string) *models.Station {
	for i := range stations {
		if stations[i].ID == id {
			found := stations[i].Clone()
			return &found
		}
	}
	return nil
}

func locationReason(err error) string {
	var locErr *locate.LocationError
	if errors.As(err, &locErr) {
		return locErr.Reason.String()
	}
	return "position unavailable"
}
