package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/voltmap-kh/chargemap/backend-go/internal/models"
)

type APIResponse struct {
	ResponseType string `json:"responseType"`
}

type StationsResponse struct {
	APIResponse
	Stations []models.Station `json:"stations"`
}

type SummaryResponse struct {
	APIResponse
	Summary *models.NetworkSummary `json:"summary"`
}

type FavoritesResponse struct {
	APIResponse
	Favorites []string `json:"favorites"`
}

type FavoriteResponse struct {
	APIResponse
	StationID string `json:"stationId"`
	Favorite  bool   `json:"favorite"`
}

type ErrorResponse struct {
	APIResponse
	Error string `json:"error"`
}

func NewStationsResponse(stations []models.Station) *StationsResponse {
	if stations == nil {
		stations = []models.Station{}
	}
	return &StationsResponse{
		APIResponse: APIResponse{ResponseType: "stations"},
		Stations:    stations,
	}
}

func NewSummaryResponse(summary *models.NetworkSummary) *SummaryResponse {
	return &SummaryResponse{
		APIResponse: APIResponse{ResponseType: "summary"},
		Summary:     summary,
	}
}

func NewFavoritesResponse(ids []string) *FavoritesResponse {
	if ids == nil {
		ids = []string{}
	}
	return &FavoritesResponse{
		APIResponse: APIResponse{ResponseType: "favorites"},
		Favorites:   ids,
	}
}

func NewFavoriteResponse(stationID string, favorite bool) *FavoriteResponse {
	return &FavoriteResponse{
		APIResponse: APIResponse{ResponseType: "favorite"},
		StationID:   stationID,
		Favorite:    favorite,
	}
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		APIResponse: APIResponse{ResponseType: "error"},
		Error:       message,
	}
}

// Result is a status code and a body to be encoded as JSON.
type Result struct {
	StatusCode int
	Body       interface{}
}

func OK(body interface{}) Result {
	return Result{StatusCode: http.StatusOK, Body: body}
}

func Fail(message string, statusCode int) Result {
	return Result{StatusCode: statusCode, Body: NewErrorResponse(message)}
}

var defaultHeaders = map[string]string{
	"Content-Type":                "application/json",
	"Access-Control-Allow-Origin": "*",
}

// Response helpers
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	return Respond(OK(body))
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	return Respond(Fail(message, statusCode))
}

// Respond encodes a Result as an API Gateway proxy response.
func Respond(result Result) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(result.Body)
	if err != nil {
		log.Error().Err(err).Msg("Encoding response body")
		result = Fail("Internal Server Error", http.StatusInternalServerError)
		jsonBody, _ = json.Marshal(result.Body)
	}

	headers := make(map[string]string, len(defaultHeaders))
	for k, v := range defaultHeaders {
		headers[k] = v
	}

	return events.APIGatewayProxyResponse{
		StatusCode: result.StatusCode,
		Headers:    headers,
		Body:       string(jsonBody),
	}, nil
}

// Write encodes a Result onto an HTTP response.
func Write(w http.ResponseWriter, result Result) {
	jsonBody, err := json.Marshal(result.Body)
	if err != nil {
		log.Error().Err(err).Msg("Encoding response body")
		result = Fail("Internal Server Error", http.StatusInternalServerError)
		jsonBody, _ = json.Marshal(result.Body)
	}

	for k, v := range defaultHeaders {
		w.Header().Set(k, v)
	}
	w.WriteHeader(result.StatusCode)
	_, _ = w.Write(jsonBody)
}

// Parameter parsing helpers

// ParseCoordinates reads lat and lon. When either is absent the fallback is returned.
func ParseCoordinates(params map[string]string, fallback models.LatLng) (models.LatLng, error) {
	latStr, hasLat := params["lat"]
	lonStr, hasLon := params["lon"]

	if !hasLat || !hasLon {
		return fallback, nil
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return models.LatLng{}, InvalidCoordinatesError{}
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return models.LatLng{}, InvalidCoordinatesError{}
	}

	p := models.LatLng{Lat: lat, Lng: lon}
	if !p.Valid() {
		return models.LatLng{}, InvalidCoordinatesError{}
	}

	return p, nil
}

// ParseFilter reads comma separated connectors and operators and the free-text q.
func ParseFilter(params map[string]string) (models.Filter, error) {
	filter := models.Filter{
		Connectors: splitList(params["connectors"]),
		Query:      strings.TrimSpace(params["q"]),
	}

	for _, name := range splitList(params["operators"]) {
		op := models.Operator(name)
		if !op.Valid() {
			return models.Filter{}, InvalidParameterError{Name: "operators", Value: name}
		}
		filter.Operators = append(filter.Operators, op)
	}

	return filter, nil
}

// ParseLimit reads limit. A missing limit yields defaultLimit.
func ParseLimit(params map[string]string, defaultLimit int) (int, error) {
	limitStr, ok := params["limit"]
	if !ok || limitStr == "" {
		return defaultLimit, nil
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 0 {
		return 0, InvalidParameterError{Name: "limit", Value: limitStr}
	}
	return limit, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

type InvalidCoordinatesError struct{}

func (e InvalidCoordinatesError) Error() string {
	return "Invalid coordinates"
}

type InvalidParameterError struct {
	Name  string
	Value string
}

func (e InvalidParameterError) Error() string {
	return "invalid value " + strconv.Quote(e.Value) + " for " + e.Name
}
