package main

import (
	"context"
	"net/http"
	"time"

	"github.com/graph-gophers/graphql-go"
	"github.com/jonboulle/clockwork"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mcdev12/teamgraph/go/internal/gqlhttp"
	"github.com/mcdev12/teamgraph/go/internal/metrics"
	"github.com/mcdev12/teamgraph/go/internal/middleware"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

func setupServer(config *Config, schema *graphql.Schema, db Pinger, recorder *metrics.Recorder, clock clockwork.Clock) *http.Server {
	return &http.Server{
		Addr:              listenAddr,
		Handler:           h2c.NewHandler(setupHandler(config, schema, db, recorder, clock), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func setupHandler(config *Config, schema *graphql.Schema, db Pinger, recorder *metrics.Recorder, clock clockwork.Clock) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/api", &gqlhttp.Handler{
		Schema:   schema,
		GraphiQL: config.GraphQL.GraphiQL,
	})
	mux.Handle("/metrics", recorder.Handler())
	setupHealthCheck(mux, db)

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: config.CORS.AllowedOrigins,
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.HeaderRequestID},
	})

	return middleware.Chain(c.Handler(mux),
		middleware.RequestID(),
		middleware.AccessLog(log.Logger, clock),
		middleware.Recover(),
		middleware.Metrics(recorder, clock),
	)
}

func setupHealthCheck(mux *http.ServeMux, db Pinger) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			log.Ctx(r.Context()).Warn().Err(err).Msg("Health check failed")
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write health check response")
		}
	})
}
