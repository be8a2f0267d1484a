package main

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/voltmap-kh/chargemap/backend-go/internal/config"
	"github.com/voltmap-kh/chargemap/backend-go/internal/favorites"
	"github.com/voltmap-kh/chargemap/backend-go/internal/handler"
)

var (
	lambdaStart      = lambda.Start // Allow mocking of lambda.Start in tests
	favoritesHandler *handler.FavoritesHandler
	setupOnce        sync.Once
)

func init() {
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()

		store, err := favorites.NewStoreFromConfig(context.Background(), cfg)
		if err != nil {
			log.Fatal().Err(err).Str("backend", cfg.FavoritesBackend).Msg("Failed to initialize favorites store")
		}

		favoritesHandler = handler.NewFavoritesHandler(store)
	})
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	log.Debug().Str("method", request.HTTPMethod).Str("path", request.Path).Msg("Handling favorites request")
	return favoritesHandler.HandleRequest(ctx, request)
}

func main() {
	lambdaStart(handleRequest)
}
