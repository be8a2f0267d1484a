package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/voltmap-kh/chargemap/backend-go/internal/api"
)

type RequestCreator func(ctx context.Context, method, url string, body *bytes.Buffer) (*http.Request, error)

// GatewayAdapter serves API Gateway proxy events through an http.Handler such as the
// router built by RegisterRoutes.
type GatewayAdapter struct {
	handler        http.Handler
	requestCreator RequestCreator
}

func defaultRequestCreator(ctx context.Context, method, url string, body *bytes.Buffer) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, method, url, body)
}

func NewGatewayAdapter(h http.Handler, requestCreator RequestCreator) *GatewayAdapter {
	if requestCreator == nil {
		requestCreator = defaultRequestCreator
	}
	return &GatewayAdapter{
		handler:        h,
		requestCreator: requestCreator,
	}
}

func (a *GatewayAdapter) HandleRequest(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if event.HTTPMethod == "" {
		event.HTTPMethod = http.MethodGet
	}
	path := event.Path
	if path == "" {
		path = "/"
	}

	query := url.Values{}
	for key, value := range event.QueryStringParameters {
		query.Set(key, value)
	}
	target := url.URL{Scheme: "http", Host: "localhost", Path: path, RawQuery: query.Encode()}

	req, err := a.requestCreator(ctx, event.HTTPMethod, target.String(), bytes.NewBufferString(event.Body))
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to create request")
		return api.Error("Failed to create request", http.StatusInternalServerError)
	}
	for key, value := range event.Headers {
		req.Header.Set(key, value)
	}

	w := &responseWriter{
		headers: make(http.Header),
		body:    &bytes.Buffer{},
		code:    http.StatusOK,
	}
	a.handler.ServeHTTP(w, req)

	headers := make(map[string]string, len(w.headers))
	for key := range w.headers {
		headers[key] = w.headers.Get(key)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: w.code,
		Headers:    headers,
		Body:       w.body.String(),
	}, nil
}

// responseWriter implements http.ResponseWriter
type responseWriter struct {
	headers http.Header
	body    *bytes.Buffer
	code    int
}

func (w *responseWriter) Header() http.Header {
	return w.headers
}

func (w *responseWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.code = statusCode
}
