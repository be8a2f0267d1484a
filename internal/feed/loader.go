package feed

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/voltmap-kh/chargemap/backend-go/internal/models"
	"github.com/voltmap-kh/chargemap/backend-go/pkg/http/client"
)

// Loader fetches the station feed and normalizes it.
type Loader struct {
	httpClient client.Interface
	normalizer *Normalizer
	observers  []func(loading bool)
	loading    atomic.Bool
}

type LoaderOption func(*Loader)

// WithLoadingObserver registers fn to be told when a load starts and settles.
func WithLoadingObserver(fn func(loading bool)) LoaderOption {
	return func(l *Loader) {
		if fn != nil {
			l.observers = append(l.observers, fn)
		}
	}
}

func WithNormalizer(n *Normalizer) LoaderOption {
	return func(l *Loader) {
		if n != nil {
			l.normalizer = n
		}
	}
}

func NewLoader(httpClient client.Interface, opts ...LoaderOption) *Loader {
	l := &Loader{
		httpClient: httpClient,
		normalizer: defaultNormalizer,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) Loading() bool {
	return l.loading.Load()
}

func (l *Loader) setLoading(v bool) {
	l.loading.Store(v)
	for _, fn := range l.observers {
		fn(v)
	}
}

// Load fetches path and returns the normalized stations. On any failure it returns a
// nil station set and a *FetchError or *FormatError.
func (l *Loader) Load(ctx context.Context, path string) ([]models.Station, error) {
	l.setLoading(true)
	defer l.setLoading(false)

	url := l.httpClient.URL(path)
	log.Debug().Str("url", url).Msg("Fetching station feed")

	resp, err := l.httpClient.Get(ctx, path)
	if err != nil {
		log.Error().Err(err).Str("url", url).Msg("Station feed request failed")
		return nil, NewFetchError(url, 0, err)
	}
	if resp == nil {
		log.Error().Str("url", url).Msg("No response for station feed")
		return nil, NewFetchError(url, 0, nil)
	}
	if !resp.OK() {
		log.Error().Str("url", url).Int("status", resp.StatusCode).Msg("Station feed returned non-success status")
		return nil, NewFetchError(url, resp.StatusCode, nil)
	}

	features, err := Decode(resp.Body)
	if err != nil {
		log.Error().Err(err).Str("url", url).Msg("Station feed is malformed")
		return nil, err
	}

	stations := l.normalizer.Normalize(features)
	log.Debug().Int("station_count", len(stations)).Msgf("Loaded %d stations", len(stations))

	return stations, nil
}

type rawCollection struct {
	Features *[]json.RawMessage `json:"features"`
}

// Decode parses a feature collection. A feature that cannot be decoded is kept as an
// empty feature so that it still yields a station.
func Decode(body []byte) ([]models.Feature, error) {
	var doc rawCollection
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, NewFormatError("decoding feature collection", err)
	}
	if doc.Features == nil {
		return nil, NewFormatError("missing features array", nil)
	}

	features := make([]models.Feature, len(*doc.Features))
	for i, raw := range *doc.Features {
		if err := json.Unmarshal(raw, &features[i]); err != nil {
			log.Warn().Err(err).Int("index", i).Msg("Undecodable feature, using defaults")
			features[i] = models.Feature{}
		}
	}
	return features, nil
}
