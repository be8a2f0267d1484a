package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/voltmap-kh/chargemap/backend-go/internal/api"
	"github.com/voltmap-kh/chargemap/backend-go/internal/models"
)

// DefaultLimit is the number of stations returned when the request has no limit.
const DefaultLimit = 10

type StationsHandler struct {
	stationFinder models.StationFinder
	defaultCenter models.LatLng
}

func NewStationsHandler(finder models.StationFinder, defaultCenter models.LatLng) *StationsHandler {
	if !defaultCenter.Valid() {
		defaultCenter = models.PhnomPenh
	}
	return &StationsHandler{
		stationFinder: finder,
		defaultCenter: defaultCenter,
	}
}

func (h *StationsHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters

	if stationID := request.PathParameters["id"]; stationID != "" {
		return api.Respond(h.station(ctx, stationID))
	}
	if stationID, ok := params["stationId"]; ok {
		return api.Respond(h.station(ctx, stationID))
	}
	if strings.HasSuffix(strings.TrimRight(request.Path, "/"), "/summary") {
		return api.Respond(h.summary(ctx))
	}

	return api.Respond(h.nearest(ctx, params))
}

func (h *StationsHandler) station(ctx context.Context, stationID string) api.Result {
	found, err := h.stationFinder.FindStation(ctx, stationID)
	if err != nil {
		log.Error().Err(err).Str("station_id", stationID).Msg("Finding station")
		return api.Fail("Error finding station", http.StatusInternalServerError)
	}
	if found == nil {
		return api.Fail("Station not found", http.StatusNotFound)
	}
	return api.OK(api.NewStationsResponse([]models.Station{*found}))
}

func (h *StationsHandler) nearest(ctx context.Context, params map[string]string) api.Result {
	ref, err := api.ParseCoordinates(params, h.defaultCenter)
	if err != nil {
		var invalidCoordErr api.InvalidCoordinatesError
		if errors.As(err, &invalidCoordErr) {
			return api.Fail(err.Error(), http.StatusBadRequest)
		}
		return api.Fail("Invalid parameters", http.StatusBadRequest)
	}

	filter, err := api.ParseFilter(params)
	if err != nil {
		log.Debug().Err(err).Msg("Rejecting filter")
		return api.Fail("Invalid parameters", http.StatusBadRequest)
	}

	limit, err := api.ParseLimit(params, DefaultLimit)
	if err != nil {
		return api.Fail("Invalid parameters", http.StatusBadRequest)
	}

	stations, err := h.stationFinder.FindNearestStations(ctx, ref, filter, limit)
	if err != nil {
		log.Error().Err(err).Str("reference", ref.String()).Msg("Finding nearest stations")
		return api.Fail("Error finding stations", http.StatusInternalServerError)
	}

	return api.OK(api.NewStationsResponse(stations))
}

func (h *StationsHandler) summary(ctx context.Context) api.Result {
	provider, ok := h.stationFinder.(models.SummaryProvider)
	if !ok {
		return api.Fail("Summary not available", http.StatusNotImplemented)
	}

	summary, err := provider.Summary(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Summarizing stations")
		return api.Fail("Error summarizing stations", http.StatusInternalServerError)
	}
	return api.OK(api.NewSummaryResponse(summary))
}
