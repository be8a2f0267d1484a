package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/voltmap-kh/chargemap/backend-go/internal/config"
	"github.com/voltmap-kh/chargemap/backend-go/internal/favorites"
	"github.com/voltmap-kh/chargemap/backend-go/internal/handler"
	"github.com/voltmap-kh/chargemap/backend-go/internal/models"
	"github.com/voltmap-kh/chargemap/backend-go/internal/station"
)

const shutdownTimeout = 10 * time.Second

var lambdaStart = lambda.Start // Allow mocking of lambda.Start in tests

// newRouter mounts the API under pathPrefix when it is set.
func newRouter(finder models.StationFinder, store *favorites.Store, center models.LatLng, pathPrefix string) http.Handler {
	httpHandler := handler.NewHTTPHandler(
		handler.NewStationsHandler(finder, center),
		handler.NewFavoritesHandler(store),
	)

	router := mux.NewRouter()
	if pathPrefix != "" {
		httpHandler.RegisterRoutes(router.PathPrefix(pathPrefix).Subrouter())
	} else {
		httpHandler.RegisterRoutes(router)
	}
	router.Use(handler.AccessLog(log.Logger))

	return handler.CORS(router)
}

func buildHandler(ctx context.Context, cfg *config.Config) (http.Handler, *station.FeedStationFinder, error) {
	finder, err := station.DefaultFinderFactory{}.NewFinder(ctx, cfg, config.GetCacheConfig())
	if err != nil {
		return nil, nil, err
	}

	store, err := favorites.NewStoreFromConfig(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	return newRouter(finder, store, cfg.DefaultCenter, os.Getenv("PATH_PREFIX")), finder, nil
}

// runLambda serves the router behind API Gateway.
func runLambda(ctx context.Context, cfg *config.Config) error {
	router, _, err := buildHandler(ctx, cfg)
	if err != nil {
		return err
	}
	lambdaStart(handler.NewGatewayAdapter(router, nil).HandleRequest)
	return nil
}

func run(ctx context.Context, cfg *config.Config) error {
	router, finder, err := buildHandler(ctx, cfg)
	if err != nil {
		return err
	}
	defer finder.Wait()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("favorites", cfg.FavoritesBackend).Msg("Station server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down station server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serve := run
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		serve = runLambda
	}

	if err := serve(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Station server failed")
	}
}
