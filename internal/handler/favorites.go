package handler

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/voltmap-kh/chargemap/backend-go/internal/api"
	"github.com/voltmap-kh/chargemap/backend-go/internal/favorites"
)

// FavoritesHandler lists favorites on GET and toggles one station on POST.
type FavoritesHandler struct {
	store *favorites.Store
}

func NewFavoritesHandler(store *favorites.Store) *FavoritesHandler {
	return &FavoritesHandler{store: store}
}

func (h *FavoritesHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch request.HTTPMethod {
	case http.MethodGet, "":
		return api.Respond(h.list(ctx))
	case http.MethodPost:
		stationID := request.PathParameters["id"]
		if stationID == "" {
			stationID = request.QueryStringParameters["stationId"]
		}
		return api.Respond(h.toggle(ctx, stationID))
	default:
		return api.Error("Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *FavoritesHandler) list(ctx context.Context) api.Result {
	ids, err := h.store.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Listing favorites")
		return api.Fail("Error loading favorites", http.StatusInternalServerError)
	}
	return api.OK(api.NewFavoritesResponse(ids))
}

func (h *FavoritesHandler) toggle(ctx context.Context, stationID string) api.Result {
	if stationID == "" {
		return api.Fail("Missing station id", http.StatusBadRequest)
	}

	favorite, err := h.store.Toggle(ctx, stationID)
	if err != nil {
		log.Error().Err(err).Str("station_id", stationID).Msg("Toggling favorite")
		return api.Fail("Error saving favorites", http.StatusInternalServerError)
	}
	return api.OK(api.NewFavoriteResponse(stationID, favorite))
}
