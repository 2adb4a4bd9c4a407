// Package graph binds the GraphQL schema to the player and team apps.
package graph

import (
	"context"
	_ "embed"
	"fmt"
	"runtime/debug"

	"github.com/graph-gophers/graphql-go"
	otelgraphql "github.com/graph-gophers/graphql-go/trace/otel"
	"github.com/rs/zerolog"
)

//go:embed schema.graphql
var schemaSDL string

// SDL returns the schema definition served at /api.
func SDL() string {
	return schemaSDL
}

// Options tune schema execution.
type Options struct {
	// MaxDepth limits selection nesting. Zero means unlimited.
	MaxDepth int
	// MaxParallelism caps concurrently running resolvers. Zero keeps the engine default.
	MaxParallelism int
	// Tracing enables OpenTelemetry spans for queries and fields.
	Tracing bool
}

// NewSchema parses the embedded SDL against resolver.
func NewSchema(resolver *Resolver, opts Options) (*graphql.Schema, error) {
	schemaOpts := []graphql.SchemaOpt{
		graphql.Logger(panicLogger{}),
	}
	if opts.MaxDepth > 0 {
		schemaOpts = append(schemaOpts, graphql.MaxDepth(opts.MaxDepth))
	}
	if opts.MaxParallelism > 0 {
		schemaOpts = append(schemaOpts, graphql.MaxParallelism(opts.MaxParallelism))
	}
	if opts.Tracing {
		schemaOpts = append(schemaOpts, graphql.Tracer(otelgraphql.DefaultTracer()))
	}

	schema, err := graphql.ParseSchema(schemaSDL, resolver, schemaOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse graphql schema: %w", err)
	}
	return schema, nil
}

// panicLogger reports resolver panics on the request logger.
type panicLogger struct{}

func (panicLogger) LogPanic(ctx context.Context, value interface{}) {
	zerolog.Ctx(ctx).Error().
		Interface("panic", value).
		Bytes("stack", debug.Stack()).
		Msg("graphql resolver panicked")
}
