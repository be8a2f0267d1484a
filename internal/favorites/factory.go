package favorites

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/voltmap-kh/chargemap/backend-go/internal/cache"
	"github.com/voltmap-kh/chargemap/backend-go/internal/config"
)

// redisPrefix namespaces favorites keys in a shared Redis database.
const redisPrefix = "chargemap:"

// NewBackend returns the backend selected by cfg.FavoritesBackend.
func NewBackend(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.FavoritesBackend {
	case config.FavoritesFile:
		return NewFileBackend(cfg.FavoritesDir), nil
	case config.FavoritesDynamo:
		client, err := cache.NewDynamoClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating DynamoDB client: %w", err)
		}
		return NewDynamoBackend(client, cfg.FavoritesTable), nil
	case config.FavoritesRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return NewRedisBackend(client, redisPrefix), nil
	default:
		return NewMemoryBackend(), nil
	}
}

// NewStoreFromConfig builds a Store over the configured backend.
func NewStoreFromConfig(ctx context.Context, cfg *config.Config) (*Store, error) {
	backend, err := NewBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("backend", cfg.FavoritesBackend).Msg("Favorites store ready")
	return NewStore(backend), nil
}
