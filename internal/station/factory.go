package station

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/voltmap-kh/chargemap/backend-go/internal/cache"
	"github.com/voltmap-kh/chargemap/backend-go/internal/config"
	"github.com/voltmap-kh/chargemap/backend-go/internal/feed"
	"github.com/voltmap-kh/chargemap/backend-go/pkg/http/client"
)

// FinderFactory builds a FeedStationFinder from configuration.
type FinderFactory interface {
	NewFinder(ctx context.Context, cfg *config.Config, cacheCfg *config.CacheConfig) (*FeedStationFinder, error)
}

// DefaultFinderFactory wires the feed loader and the caches enabled in cacheCfg. The
// S3 snapshot is used only when a stations bucket is configured.
type DefaultFinderFactory struct{}

func (DefaultFinderFactory) NewFinder(ctx context.Context, cfg *config.Config, cacheCfg *config.CacheConfig) (*FeedStationFinder, error) {
	if cacheCfg == nil {
		cacheCfg = config.GetCacheConfig()
	}

	httpClient := client.New(client.Options{
		BaseURL: cfg.FeedBaseURL,
		Timeout: cfg.HTTPTimeout,
	})
	loader := feed.NewLoader(httpClient)

	var opts []Option

	if cacheCfg.EnableS3Cache && cfg.StationsBucket != "" {
		s3Client, err := cache.NewS3Client(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating S3 client: %w", err)
		}
		opts = append(opts, WithS3Cache(cache.NewS3StationCache(s3Client, cfg.StationsBucket, cacheCfg)))
		log.Debug().Str("bucket", cfg.StationsBucket).Msg("Station snapshot cache enabled")
	}

	if cacheCfg.EnableLRUCache {
		queryCache, err := cache.NewQueryCache(cacheCfg)
		if err != nil {
			return nil, fmt.Errorf("creating query cache: %w", err)
		}
		opts = append(opts, WithQueryCache(queryCache))
	}

	return NewFeedStationFinder(loader, cfg.FeedPath, cache.NewStationCache(cacheCfg), opts...)
}
