package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/voltmap-kh/chargemap/backend-go/internal/api"
)

// HTTPHandler serves the station and favorites handlers over plain HTTP.
type HTTPHandler struct {
	stations  *StationsHandler
	favorites *FavoritesHandler
}

func NewHTTPHandler(stations *StationsHandler, favorites *FavoritesHandler) *HTTPHandler {
	return &HTTPHandler{
		stations:  stations,
		favorites: favorites,
	}
}

// RegisterRoutes sets up HTTP routes. /stations/summary must precede /stations/{id}.
func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.Health).Methods("GET")
	router.HandleFunc("/stations", h.NearestStations).Methods("GET")
	router.HandleFunc("/stations/summary", h.Summary).Methods("GET")
	router.HandleFunc("/stations/{id}", h.GetStation).Methods("GET")
	if h.favorites != nil {
		router.HandleFunc("/favorites", h.ListFavorites).Methods("GET")
		router.HandleFunc("/favorites/{id}", h.ToggleFavorite).Methods("POST")
	}
}

func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	api.Write(w, api.OK(map[string]string{"status": "healthy"}))
}

func (h *HTTPHandler) NearestStations(w http.ResponseWriter, r *http.Request) {
	api.Write(w, h.stations.nearest(r.Context(), queryParams(r)))
}

func (h *HTTPHandler) GetStation(w http.ResponseWriter, r *http.Request) {
	api.Write(w, h.stations.station(r.Context(), mux.Vars(r)["id"]))
}

func (h *HTTPHandler) Summary(w http.ResponseWriter, r *http.Request) {
	api.Write(w, h.stations.summary(r.Context()))
}

func (h *HTTPHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	api.Write(w, h.favorites.list(r.Context()))
}

func (h *HTTPHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	api.Write(w, h.favorites.toggle(r.Context(), mux.Vars(r)["id"]))
}

// queryParams flattens the query string the way API Gateway does, keeping the first value.
func queryParams(r *http.Request) map[string]string {
	params := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}

// AccessLog attaches logger to each request context and logs one line per request.
func AccessLog(logger zerolog.Logger) mux.MiddlewareFunc {
	withLogger := hlog.NewHandler(logger)
	access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Handled request")
	})
	return func(next http.Handler) http.Handler {
		return withLogger(access(next))
	}
}

// CORS adds CORS headers for browser clients.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
