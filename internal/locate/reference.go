// Package locate resolves the point that station distances are measured from.
package locate

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/voltmap-kh/chargemap/backend-go/internal/models"
)

type Mode int

const (
	ModeViewportCenter Mode = iota
	ModeUserLocation
)

func (m Mode) String() string {
	if m == ModeUserLocation {
		return "user_location"
	}
	return "viewport_center"
}

// Resolver tracks the viewport center and the last acquired user location. Once a
// user location has been acquired it is the reference point.
type Resolver struct {
	mu       sync.RWMutex
	locator  Geolocator
	viewport models.LatLng
	user     *models.LatLng
	mode     Mode
	lastErr  *LocationError
	inFlight int
}

func NewResolver(locator Geolocator, center models.LatLng) *Resolver {
	return &Resolver{
		locator:  locator,
		viewport: center,
		mode:     ModeViewportCenter,
	}
}

// SetViewport records the map center after a pan or zoom settles. The mode is unchanged.
func (r *Resolver) SetViewport(p models.LatLng) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewport = p
}

func (r *Resolver) Viewport() models.LatLng {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.viewport
}

// UserLocation returns the last acquired position, if any.
func (r *Resolver) UserLocation() (models.LatLng, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.user == nil {
		return models.LatLng{}, false
	}
	return *r.user, true
}

func (r *Resolver) Mode() Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mode
}

// Reference returns the user location once acquired, else the viewport center.
func (r *Resolver) Reference() models.LatLng {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.mode == ModeUserLocation && r.user != nil {
		return *r.user
	}
	return r.viewport
}

// Busy reports whether a lookup is in flight. It does not block further calls to Locate.
func (r *Resolver) Busy() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.inFlight > 0
}

// LastError returns the error from the most recent failed lookup, cleared on success.
func (r *Resolver) LastError() *LocationError {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

// Locate performs one fresh lookup. On failure the mode and viewport are kept and the
// error is returned as a *LocationError.
func (r *Resolver) Locate(ctx context.Context) (models.LatLng, error) {
	r.mu.Lock()
	r.inFlight++
	r.mu.Unlock()

	p, err := r.lookup(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.inFlight--

	if err != nil {
		var locErr *LocationError
		if !errors.As(err, &locErr) {
			locErr = NewLocationError(ReasonUnavailable, err)
		}
		r.lastErr = locErr
		log.Warn().Err(locErr).Str("mode", r.mode.String()).Msg("Unable to determine device position")
		return models.LatLng{}, locErr
	}

	r.user = &p
	r.mode = ModeUserLocation
	r.lastErr = nil
	log.Info().Str("position", p.String()).Msg("Using device position as reference point")
	return p, nil
}

func (r *Resolver) lookup(ctx context.Context) (models.LatLng, error) {
	if r.locator == nil {
		return models.LatLng{}, NewLocationError(ReasonUnavailable, errors.New("geolocation is not supported"))
	}
	return r.locator.Locate(ctx)
}
