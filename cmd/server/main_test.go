package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltmap-kh/chargemap/backend-go/internal/config"
	"github.com/voltmap-kh/chargemap/backend-go/internal/favorites"
	"github.com/voltmap-kh/chargemap/backend-go/internal/models"
)

type staticFinder struct {
	stations []models.Station
}

func (f *staticFinder) FindStation(ctx context.Context, stationID string) (*models.Station, error) {
	for i := range f.stations {
		if f.stations[i].ID == stationID {
			return &f.stations[i], nil
		}
	}
	return nil, nil
}

func (f *staticFinder) FindNearestStations(ctx context.Context, ref models.LatLng, filter models.Filter, limit int) ([]models.Station, error) {
	return f.stations, nil
}

func newTestStore() *favorites.Store {
	return favorites.NewStore(favorites.NewMemoryBackend())
}

func TestNewRouter(t *testing.T) {
	finder := &staticFinder{stations: []models.Station{{
		ID:          "station-0",
		Name:        "PTT Station A",
		Operator:    models.OperatorPTT,
		Connectors:  []string{"CCS2"},
		Coordinates: models.PhnomPenh,
	}}}

	tests := []struct {
		name       string
		prefix     string
		method     string
		target     string
		wantStatus int
	}{
		{"health", "", http.MethodGet, "/health", http.StatusOK},
		{"nearest", "", http.MethodGet, "/stations", http.StatusOK},
		{"station", "", http.MethodGet, "/stations/station-0", http.StatusOK},
		{"missing station", "", http.MethodGet, "/stations/station-9", http.StatusNotFound},
		{"toggle favorite", "", http.MethodPost, "/favorites/station-0", http.StatusOK},
		{"preflight", "", http.MethodOptions, "/favorites/station-0", http.StatusOK},
		{"prefixed", "/api", http.MethodGet, "/api/stations", http.StatusOK},
		{"unprefixed with prefix set", "/api", http.MethodGet, "/stations", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(finder, newTestStore(), models.PhnomPenh, tt.prefix)

			req := httptest.NewRequest(tt.method, tt.target, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return fmt.Sprint(l.Addr().(*net.TCPAddr).Port)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"features": []}`))
	}))
	defer feed.Close()

	port := freePort(t)
	cfg := config.New(config.WithFeed(feed.URL, "/chargers.json"), config.WithPort(port))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://127.0.0.1:" + port + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunLambda(t *testing.T) {
	original := lambdaStart
	defer func() { lambdaStart = original }()

	var started interface{}
	lambdaStart = func(h interface{}) { started = h }

	require.NoError(t, runLambda(context.Background(), config.New()))

	fn, ok := started.(func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error))
	require.True(t, ok, "handler has the API Gateway proxy signature")

	response, err := fn(context.Background(), events.APIGatewayProxyRequest{Path: "/health"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)
}
