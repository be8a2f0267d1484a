package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltmap-kh/chargemap/backend-go/internal/handler"
	"github.com/voltmap-kh/chargemap/backend-go/internal/models"
)

// mockStationFinder implements models.StationFinder for testing
type mockStationFinder struct {
	findStationFn         func(ctx context.Context, stationID string) (*models.Station, error)
	findNearestStationsFn func(ctx context.Context, ref models.LatLng, filter models.Filter, limit int) ([]models.Station, error)
}

func (m *mockStationFinder) FindStation(ctx context.Context, stationID string) (*models.Station, error) {
	if m.findStationFn != nil {
		return m.findStationFn(ctx, stationID)
	}
	return nil, nil
}

func (m *mockStationFinder) FindNearestStations(ctx context.Context, ref models.LatLng, filter models.Filter, limit int) ([]models.Station, error) {
	if m.findNearestStationsFn != nil {
		return m.findNearestStationsFn(ctx, ref, filter, limit)
	}
	return nil, nil
}

func createTestStation(id string) models.Station {
	return models.Station{
		ID:            id,
		Name:          "Total Energies " + id,
		Operator:      models.OperatorTotalEnergies,
		Connectors:    []string{"CCS2"},
		Coordinates:   models.PhnomPenh,
		OperationTime: "24/7",
	}
}

var (
	mu sync.Mutex // Protect lambdaStart in tests
)

func TestLambdaInit(t *testing.T) {
	t.Setenv("_LAMBDA_SERVER_PORT", "8080")
	t.Setenv("AWS_LAMBDA_RUNTIME_API", "localhost")

	mu.Lock()
	originalStartFn := lambdaStart
	var startCalled bool
	lambdaStart = func(handler interface{}) {
		mu.Lock()
		startCalled = true
		mu.Unlock()

		handlerType := reflect.TypeOf(handler)
		if handlerType.Kind() != reflect.Func {
			t.Error("Handler is not a function")
			return
		}

		contextInterface := reflect.TypeOf((*context.Context)(nil)).Elem()
		proxyRequest := reflect.TypeOf(events.APIGatewayProxyRequest{})
		proxyResponse := reflect.TypeOf(events.APIGatewayProxyResponse{})
		errorInterface := reflect.TypeOf((*error)(nil)).Elem()

		if handlerType.NumIn() != 2 || handlerType.NumOut() != 2 ||
			!handlerType.In(0).Implements(contextInterface) ||
			handlerType.In(1) != proxyRequest ||
			handlerType.Out(0) != proxyResponse ||
			!handlerType.Out(1).Implements(errorInterface) {
			t.Error("Handler does not match expected signature")
		}
	}
	mu.Unlock()

	defer func() {
		mu.Lock()
		lambdaStart = originalStartFn
		mu.Unlock()
	}()

	go main()

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	wasStartCalled := startCalled
	mu.Unlock()

	if !wasStartCalled {
		t.Error("Lambda start was not called")
	}
}

func TestMain(m *testing.M) {
	if err := os.Setenv("LOG_LEVEL", "debug"); err != nil {
		return
	}
	if err := os.Setenv("ENV", "test"); err != nil {
		return
	}

	os.Exit(m.Run())
}

func TestHandleRequest(t *testing.T) {
	tests := []struct {
		name           string
		request        events.APIGatewayProxyRequest
		finder         models.StationFinder
		expectedStatus int
	}{
		{
			name: "successful station lookup by ID",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{"stationId": "station-0"},
			},
			finder: &mockStationFinder{
				findStationFn: func(ctx context.Context, stationID string) (*models.Station, error) {
					s := createTestStation(stationID)
					return &s, nil
				},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "successful nearest stations lookup",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{
					"lat":   "11.55",
					"lon":   "104.91",
					"limit": "2",
				},
			},
			finder: &mockStationFinder{
				findNearestStationsFn: func(ctx context.Context, ref models.LatLng, filter models.Filter, limit int) ([]models.Station, error) {
					return []models.Station{createTestStation("station-0"), createTestStation("station-1")}, nil
				},
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stationsHandler = handler.NewStationsHandler(tt.finder, models.PhnomPenh)

			response, err := handleRequest(context.Background(), tt.request)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, response.StatusCode)

			var responseBody map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(response.Body), &responseBody))
			assert.Contains(t, responseBody, "responseType")
			assert.Contains(t, responseBody, "stations")
		})
	}
}

func TestErrorHandling(t *testing.T) {
	tests := []struct {
		name           string
		request        events.APIGatewayProxyRequest
		finder         models.StationFinder
		expectedStatus int
		expectedError  string
	}{
		{
			name: "station not found",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{"stationId": "NONEXISTENT"},
			},
			finder:         &mockStationFinder{},
			expectedStatus: http.StatusNotFound,
			expectedError:  "Station not found",
		},
		{
			name: "invalid coordinates",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{"lat": "91", "lon": "0"},
			},
			finder:         &mockStationFinder{},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid coordinates",
		},
		{
			name: "internal server error during lookup",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{"lat": "11.55", "lon": "104.91"},
			},
			finder: &mockStationFinder{
				findNearestStationsFn: func(ctx context.Context, ref models.LatLng, filter models.Filter, limit int) ([]models.Station, error) {
					return nil, assert.AnError
				},
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Error finding stations",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stationsHandler = handler.NewStationsHandler(tt.finder, models.PhnomPenh)

			response, err := handleRequest(context.Background(), tt.request)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, response.StatusCode)

			var responseBody map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(response.Body), &responseBody))
			assert.Equal(t, "error", responseBody["responseType"])
			assert.Equal(t, tt.expectedError, responseBody["error"])
		})
	}
}
