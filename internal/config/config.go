package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/voltmap-kh/chargemap/backend-go/internal/models"
)

const (
	FavoritesMemory = "memory"
	FavoritesFile   = "file"
	FavoritesDynamo = "dynamodb"
	FavoritesRedis  = "redis"
)

type Config struct {
	Environment    string
	LogLevel       zerolog.Level
	HTTPTimeout    time.Duration
	FeedBaseURL    string
	FeedPath       string
	GeolocationURL string
	DefaultCenter  models.LatLng
	Port           string

	FavoritesBackend string
	FavoritesDir     string
	FavoritesTable   string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int

	StationsBucket string
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithHTTPTimeout allows setting the HTTP timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

// WithFeed sets where the station feed is fetched from.
func WithFeed(baseURL, path string) Option {
	return func(c *Config) {
		c.FeedBaseURL = baseURL
		c.FeedPath = path
	}
}

func WithGeolocationURL(url string) Option {
	return func(c *Config) {
		c.GeolocationURL = url
	}
}

// WithDefaultCenter sets the initial viewport center. Invalid points are ignored.
func WithDefaultCenter(center models.LatLng) Option {
	return func(c *Config) {
		if center.Valid() {
			c.DefaultCenter = center
		}
	}
}

func WithPort(port string) Option {
	return func(c *Config) {
		if port != "" {
			c.Port = port
		}
	}
}

// WithFavoritesBackend selects the favorites backend. Unknown names fall back to memory.
func WithFavoritesBackend(backend string) Option {
	return func(c *Config) {
		switch backend {
		case FavoritesMemory, FavoritesFile, FavoritesDynamo, FavoritesRedis:
			c.FavoritesBackend = backend
		default:
			log.Warn().Str("backend", backend).Msg("Unknown favorites backend, using memory")
			c.FavoritesBackend = FavoritesMemory
		}
	}
}

func WithFavoritesDir(dir string) Option {
	return func(c *Config) {
		c.FavoritesDir = dir
	}
}

func WithFavoritesTable(table string) Option {
	return func(c *Config) {
		c.FavoritesTable = table
	}
}

func WithRedis(addr, password string, db int) Option {
	return func(c *Config) {
		c.RedisAddr = addr
		c.RedisPassword = password
		c.RedisDB = db
	}
}

func WithStationsBucket(bucket string) Option {
	return func(c *Config) {
		c.StationsBucket = bucket
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:      "production",
		LogLevel:         zerolog.InfoLevel,
		HTTPTimeout:      10 * time.Second,
		FeedBaseURL:      "https://data.opendevelopmentcambodia.net",
		FeedPath:         "/chargers_real.json",
		GeolocationURL:   "http://ip-api.com/json",
		DefaultCenter:    models.PhnomPenh,
		Port:             "8080",
		FavoritesBackend: FavoritesMemory,
		FavoritesDir:     ".chargemap",
		FavoritesTable:   "chargemap-favorites",
		RedisAddr:        "localhost:6379",
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	// Setup console logger for development environments
	if c.IsLocal() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
}

func (c *Config) IsLocal() bool {
	return c.Environment == "local" || c.Environment == "development"
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	return New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(getDurationEnvOrDefault("HTTP_TIMEOUT", 10*time.Second)),
		WithFeed(
			getEnvOrDefault("FEED_BASE_URL", "https://data.opendevelopmentcambodia.net"),
			getEnvOrDefault("FEED_PATH", "/chargers_real.json"),
		),
		WithGeolocationURL(getEnvOrDefault("GEOLOCATION_URL", "http://ip-api.com/json")),
		WithDefaultCenter(models.LatLng{
			Lat: getFloatEnvOrDefault("DEFAULT_CENTER_LAT", models.PhnomPenh.Lat),
			Lng: getFloatEnvOrDefault("DEFAULT_CENTER_LNG", models.PhnomPenh.Lng),
		}),
		WithPort(getEnvOrDefault("PORT", "8080")),
		WithFavoritesBackend(getEnvOrDefault("FAVORITES_BACKEND", FavoritesMemory)),
		WithFavoritesDir(getEnvOrDefault("FAVORITES_DIR", ".chargemap")),
		WithFavoritesTable(getEnvOrDefault("FAVORITES_TABLE", "chargemap-favorites")),
		WithRedis(
			getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			os.Getenv("REDIS_PASSWORD"),
			getEnvInt("REDIS_DB", 0),
		),
		WithStationsBucket(os.Getenv("STATIONS_BUCKET")),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getFloatEnvOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Warn().Str("key", key).Msg("Invalid float value in environment variable, using default")
	}
	return defaultValue
}
