package station

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/voltmap-kh/chargemap/backend-go/internal/cache"
	"github.com/voltmap-kh/chargemap/backend-go/internal/feed"
	"github.com/voltmap-kh/chargemap/backend-go/internal/models"
	"github.com/voltmap-kh/chargemap/backend-go/internal/rank"
)

// InvalidCoordinatesError is returned for a reference point outside the valid range.
type InvalidCoordinatesError struct {
	Point models.LatLng
}

func (e *InvalidCoordinatesError) Error() string {
	return fmt.Sprintf("invalid coordinates: %s", e.Point)
}

// FeedStationFinder serves stations from the charger feed through a memory cache, an
// optional S3 snapshot and an optional ranked-query cache.
type FeedStationFinder struct {
	loader     *feed.Loader
	feedPath   string
	memCache   *cache.StationCache
	s3Cache    cache.StationListCacheProvider
	queryCache *cache.QueryCache
	cacheMutex sync.RWMutex
	saveWG     sync.WaitGroup
}

var _ models.StationFinder = (*FeedStationFinder)(nil)
var _ models.SummaryProvider = (*FeedStationFinder)(nil)

type Option func(*FeedStationFinder)

func WithS3Cache(s3Cache cache.StationListCacheProvider) Option {
	return func(f *FeedStationFinder) {
		f.s3Cache = s3Cache
	}
}

func WithQueryCache(queryCache *cache.QueryCache) Option {
	return func(f *FeedStationFinder) {
		f.queryCache = queryCache
	}
}

func NewFeedStationFinder(loader *feed.Loader, feedPath string, memCache *cache.StationCache, opts ...Option) (*FeedStationFinder, error) {
	if loader == nil {
		return nil, fmt.Errorf("feed loader is required")
	}
	if memCache == nil {
		memCache = cache.NewStationCache(nil) // Use default config
	}

	f := &FeedStationFinder{
		loader:   loader,
		feedPath: feedPath,
		memCache: memCache,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// FindNearestStations ranks the stations matching filter by distance from ref. A
// non-positive limit returns every match.
func (f *FeedStationFinder) FindNearestStations(ctx context.Context, ref models.LatLng, filter models.Filter, limit int) ([]models.Station, error) {
	if !ref.Valid() {
		return nil, &InvalidCoordinatesError{Point: ref}
	}

	key := cache.QueryKey(ref, filter, limit)
	if f.queryCache != nil {
		if stations, ok := f.queryCache.Get(ctx, key); ok {
			log.Debug().Str("key", key).Msg("Query cache HIT")
			return stations, nil
		}
	}

	stations, err := f.getStationList(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting station list: %w", err)
	}

	result := rank.Nearest(stations, ref, filter, limit)

	if f.queryCache != nil {
		f.queryCache.Add(ctx, key, result)
	}

	return result, nil
}

// FindStation returns the station with the given id, or nil when there is none.
func (f *FeedStationFinder) FindStation(ctx context.Context, stationID string) (*models.Station, error) {
	stations, err := f.getStationList(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting station list: %w", err)
	}

	for i := range stations {
		if stations[i].ID == stationID {
			found := stations[i].Clone()
			return &found, nil
		}
	}

	return nil, nil
}

func (f *FeedStationFinder) Summary(ctx context.Context) (*models.NetworkSummary, error) {
	stations, err := f.getStationList(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting station list: %w", err)
	}
	summary := Summarize(stations)
	return &summary, nil
}

// Refresh drops cached results so the next request reloads the feed.
func (f *FeedStationFinder) Refresh() {
	f.cacheMutex.Lock()
	f.memCache.Invalidate()
	f.cacheMutex.Unlock()

	if f.queryCache != nil {
		f.queryCache.Clear()
	}
}

// Wait blocks until pending snapshot writes have finished.
func (f *FeedStationFinder) Wait() {
	f.saveWG.Wait()
}

func (f *FeedStationFinder) getStationList(ctx context.Context) ([]models.Station, error) {
	// Check memory cache first
	f.cacheMutex.RLock()
	stations := f.memCache.GetStations()
	f.cacheMutex.RUnlock()

	if stations != nil {
		log.Debug().Msg("Memory cache HIT for station list")
		return stations, nil
	}

	// Check S3 cache if available
	if f.s3Cache != nil {
		stations, err := f.s3Cache.GetStations(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Error getting stations from S3 cache")
		} else if stations != nil {
			log.Debug().Int("station_count", len(stations)).Msg("S3 cache HIT for station list")
			f.cacheMutex.Lock()
			f.memCache.SetStations(stations)
			f.cacheMutex.Unlock()
			return stations, nil
		}
	}

	log.Debug().Str("path", f.feedPath).Msg("Cache MISS for station list, fetching feed")

	stations, err := f.loader.Load(ctx, f.feedPath)
	if err != nil {
		return nil, err
	}

	if f.s3Cache != nil {
		f.saveWG.Add(1)
		go func() {
			defer f.saveWG.Done()
			if err := f.s3Cache.SaveStations(context.Background(), stations); err != nil {
				log.Error().Err(err).Msg("Failed to save stations to S3 cache")
			}
		}()
	}

	f.cacheMutex.Lock()
	f.memCache.SetStations(stations)
	f.cacheMutex.Unlock()

	return stations, nil
}
