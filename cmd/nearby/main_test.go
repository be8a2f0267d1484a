package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltmap-kh/chargemap/backend-go/internal/config"
	"github.com/voltmap-kh/chargemap/backend-go/internal/favorites"
	"github.com/voltmap-kh/chargemap/backend-go/internal/feed"
	"github.com/voltmap-kh/chargemap/backend-go/internal/locate"
	"github.com/voltmap-kh/chargemap/backend-go/internal/locator"
	"github.com/voltmap-kh/chargemap/backend-go/internal/models"
	"github.com/voltmap-kh/chargemap/backend-go/pkg/http/client"
)

const testFeed = `{"features": [
	{"properties": {"Location Name": "PTT Siem Reap", "Plug Types": "CCS2"}, "geometry": {"coordinates": [103.8564, 13.3633]}},
	{"properties": {"Location Name": "Total Energies BKK1", "Plug Types": "CCS2 / Type 2"}, "geometry": {"coordinates": [104.93, 11.55]}},
	{"properties": {"Location Name": "BYD Showroom", "Plug Types": "GB/T"}, "geometry": {"coordinates": [104.91, 11.56]}}
]}`

func newFeed(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestSession(t *testing.T, feedURL string, geolocator locate.Geolocator) *locator.Session {
	t.Helper()
	loader := feed.NewLoader(client.New(client.Options{BaseURL: feedURL, Timeout: 5 * time.Second}))
	return locator.NewSession(loader, "/chargers.json",
		locate.NewResolver(geolocator, models.PhnomPenh),
		favorites.NewStore(favorites.NewMemoryBackend()))
}

func runArgs(t *testing.T, session *locator.Session, args ...string) (int, string, string) {
	t.Helper()
	opts, err := parseFlags(args, &bytes.Buffer{})
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), session, opts, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunNearestJSON(t *testing.T) {
	srv := newFeed(t, http.StatusOK, testFeed)
	session := newTestSession(t, srv.URL, nil)

	code, out, errOut := runArgs(t, session, "-json", "-limit", "2")
	require.Equal(t, 0, code, errOut)

	var stations []models.Station
	require.NoError(t, json.Unmarshal([]byte(out), &stations))
	require.Len(t, stations, 2)
	assert.Equal(t, "station-2", stations[0].ID)
	assert.Equal(t, "station-1", stations[1].ID)
}

func TestRunFilterAndReference(t *testing.T) {
	srv := newFeed(t, http.StatusOK, testFeed)
	session := newTestSession(t, srv.URL, nil)

	code, out, errOut := runArgs(t, session, "-lat", "13.36", "-lon", "103.86", "-connectors", "CCS2", "-json", "-limit", "0")
	require.Equal(t, 0, code, errOut)

	var stations []models.Station
	require.NoError(t, json.Unmarshal([]byte(out), &stations))
	require.Len(t, stations, 2)
	assert.Equal(t, "station-0", stations[0].ID, "Siem Reap is nearest to the given point")
}

func TestRunText(t *testing.T) {
	srv := newFeed(t, http.StatusOK, testFeed)
	session := newTestSession(t, srv.URL, nil)
	_, err := session.ToggleFavorite(context.Background(), "station-2")
	require.NoError(t, err)

	code, out, _ := runArgs(t, session, "-operators", "BYD")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "BYD Showroom")
	assert.Contains(t, out, "*")
	assert.NotContains(t, out, "PTT Siem Reap")
}

func TestRunInvalidInput(t *testing.T) {
	srv := newFeed(t, http.StatusOK, testFeed)

	code, _, errOut := runArgs(t, newTestSession(t, srv.URL, nil), "-lat", "95", "-lon", "104")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "Invalid coordinates")

	code, _, _ = runArgs(t, newTestSession(t, srv.URL, nil), "-operators", "Tesla")
	assert.Equal(t, 2, code)
}

func TestRunFeedFailure(t *testing.T) {
	srv := newFeed(t, http.StatusServiceUnavailable, "")
	session := newTestSession(t, srv.URL, nil)

	code, out, errOut := runArgs(t, session)
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, string(locator.NoticeFeedUnavailable))
}

func TestRunLocateRejected(t *testing.T) {
	srv := newFeed(t, http.StatusOK, testFeed)
	denied := locate.StaticGeolocator{Err: locate.NewLocationError(locate.ReasonPermissionDenied, errors.New("denied"))}
	session := newTestSession(t, srv.URL, denied)

	code, out, errOut := runArgs(t, session, "-locate", "-json", "-limit", "1")
	require.Equal(t, 0, code)
	assert.Contains(t, errOut, "permission denied")

	var stations []models.Station
	require.NoError(t, json.Unmarshal([]byte(out), &stations))
	require.Len(t, stations, 1)
	assert.Equal(t, "station-2", stations[0].ID, "ranking still uses the viewport center")
}

func TestRunLocateAccepted(t *testing.T) {
	srv := newFeed(t, http.StatusOK, testFeed)
	session := newTestSession(t, srv.URL, locate.StaticGeolocator{Position: models.LatLng{Lat: 13.36, Lng: 103.86}})

	code, out, _ := runArgs(t, session, "-locate", "-json", "-limit", "1")
	require.Equal(t, 0, code)

	var stations []models.Station
	require.NoError(t, json.Unmarshal([]byte(out), &stations))
	require.Len(t, stations, 1)
	assert.Equal(t, "station-0", stations[0].ID)
}

func TestRunFavorites(t *testing.T) {
	session := newTestSession(t, "http://feed.invalid", nil)

	code, out, _ := runArgs(t, session, "-toggle-favorite", "station-1")
	require.Equal(t, 0, code)
	assert.Equal(t, "station-1 favorite: true\n", out)

	code, out, _ = runArgs(t, session, "-favorites", "-json")
	require.Equal(t, 0, code)
	assert.JSONEq(t, `["station-1"]`, out)
}

func TestRunStationAndSummary(t *testing.T) {
	srv := newFeed(t, http.StatusOK, testFeed)

	code, out, _ := runArgs(t, newTestSession(t, srv.URL, nil), "-station", "station-1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Total Energies BKK1")

	code, _, errOut := runArgs(t, newTestSession(t, srv.URL, nil), "-station", "station-9")
	assert.Equal(t, 1, code)
	assert.NotEmpty(t, errOut)

	code, out, _ = runArgs(t, newTestSession(t, srv.URL, nil), "-summary", "-json")
	require.Equal(t, 0, code)
	var summary models.NetworkSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 3, summary.TotalStations)
	assert.Equal(t, 1, summary.ByOperator[models.OperatorBYD])
	assert.Equal(t, 2, summary.ByConnector["CCS2"])
}

func TestNewSession(t *testing.T) {
	cfg := config.New(config.WithGeolocationURL("http://ip-api.com/json"))
	session, err := newSession(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.DefaultCenter, session.Reference())

	_, err = newSession(context.Background(), config.New(config.WithGeolocationURL("not a url")))
	assert.Error(t, err)
}

func TestParseFlagsRejectsUnknown(t *testing.T) {
	_, err := parseFlags([]string{"-bogus"}, &bytes.Buffer{})
	assert.Error(t, err)
}
