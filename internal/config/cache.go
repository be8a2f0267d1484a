package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	// In-memory station list
	StationListTTLHours int

	// S3 snapshot of the normalized station list
	StationSnapshotTTLDays int

	// Ranked query cache
	QueryLRUSize       int
	QueryLRUTTLMinutes int

	// General settings
	EnableLRUCache bool
	EnableS3Cache  bool
}

const (
	// Default values
	defaultStationListTTLHours    = 24
	defaultStationSnapshotTTLDays = 2
	defaultQueryLRUSize           = 5000
	defaultQueryTTLMinutes        = 15
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		StationListTTLHours:    getEnvInt("CACHE_STATION_LIST_TTL_HOURS", defaultStationListTTLHours),
		StationSnapshotTTLDays: getEnvInt("CACHE_STATION_SNAPSHOT_TTL_DAYS", defaultStationSnapshotTTLDays),
		QueryLRUSize:           getEnvInt("CACHE_QUERY_LRU_SIZE", defaultQueryLRUSize),
		QueryLRUTTLMinutes:     getEnvInt("CACHE_QUERY_TTL_MINUTES", defaultQueryTTLMinutes),
		EnableLRUCache:         getEnvBool("CACHE_ENABLE_LRU", true),
		EnableS3Cache:          getEnvBool("CACHE_ENABLE_S3", true),
	}

	log.Debug().
		Int("StationListTTLHours", config.StationListTTLHours).
		Int("StationSnapshotTTLDays", config.StationSnapshotTTLDays).
		Int("QueryLRUSize", config.QueryLRUSize).
		Int("QueryLRUTTLMinutes", config.QueryLRUTTLMinutes).
		Bool("EnableLRUCache", config.EnableLRUCache).
		Bool("EnableS3Cache", config.EnableS3Cache).
		Msg("Cache configuration loaded")

	return config
}

func (c *CacheConfig) GetStationListTTL() time.Duration {
	return time.Duration(c.StationListTTLHours) * time.Hour
}

func (c *CacheConfig) GetStationSnapshotTTL() time.Duration {
	return time.Duration(c.StationSnapshotTTLDays) * 24 * time.Hour
}

func (c *CacheConfig) GetQueryLRUTTL() time.Duration {
	return time.Duration(c.QueryLRUTTLMinutes) * time.Minute
}

// Helper functions to get environment variables with defaults
func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
