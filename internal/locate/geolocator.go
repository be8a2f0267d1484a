package locate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/voltmap-kh/chargemap/backend-go/internal/models"
	"github.com/voltmap-kh/chargemap/backend-go/pkg/http/client"
)

// Geolocator performs a single one-shot position lookup.
type Geolocator interface {
	Locate(ctx context.Context) (models.LatLng, error)
}

// HTTPGeolocator resolves the caller's position from an IP geolocation endpoint that
// answers {"status", "message", "lat", "lon"}.
type HTTPGeolocator struct {
	httpClient client.Interface
	path       string
}

func NewHTTPGeolocator(httpClient client.Interface, path string) *HTTPGeolocator {
	return &HTTPGeolocator{
		httpClient: httpClient,
		path:       path,
	}
}

// NewHTTPGeolocatorFromURL splits endpoint into a base URL for the HTTP client and the
// request path plus query.
func NewHTTPGeolocatorFromURL(endpoint string, timeout time.Duration) (*HTTPGeolocator, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing geolocation url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("geolocation url %q is not absolute", endpoint)
	}

	path := u.EscapedPath()
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	httpClient := client.New(client.Options{
		BaseURL: u.Scheme + "://" + u.Host,
		Timeout: timeout,
	})
	return NewHTTPGeolocator(httpClient, path), nil
}

type lookupResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

func (g *HTTPGeolocator) Locate(ctx context.Context) (models.LatLng, error) {
	resp, err := g.httpClient.Get(ctx, g.path)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return models.LatLng{}, NewLocationError(ReasonTimeout, err)
		}
		return models.LatLng{}, NewLocationError(ReasonUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return models.LatLng{}, NewLocationError(ReasonPermissionDenied, fmt.Errorf("lookup returned status %d", resp.StatusCode))
	case !resp.OK():
		return models.LatLng{}, NewLocationError(ReasonUnavailable, fmt.Errorf("lookup returned status %d", resp.StatusCode))
	}

	var body lookupResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return models.LatLng{}, NewLocationError(ReasonUnavailable, fmt.Errorf("decoding lookup response: %w", err))
	}
	if body.Status != "" && body.Status != "success" {
		return models.LatLng{}, NewLocationError(ReasonUnavailable, errors.New(body.Message))
	}
	if body.Lat == nil || body.Lon == nil {
		return models.LatLng{}, NewLocationError(ReasonUnavailable, errors.New("lookup response has no position"))
	}

	p := models.LatLng{Lat: *body.Lat, Lng: *body.Lon}
	if !p.Valid() {
		return models.LatLng{}, NewLocationError(ReasonUnavailable, fmt.Errorf("lookup returned invalid position %s", p))
	}

	log.Debug().Str("position", p.String()).Msg("Resolved device position")
	return p, nil
}

// StaticGeolocator always answers with the same position or the same error.
type StaticGeolocator struct {
	Position models.LatLng
	Err      error
}

func (g StaticGeolocator) Locate(ctx context.Context) (models.LatLng, error) {
	if g.Err != nil {
		return models.LatLng{}, g.Err
	}
	if err := ctx.Err(); err != nil {
		return models.LatLng{}, NewLocationError(ReasonTimeout, err)
	}
	return g.Position, nil
}
