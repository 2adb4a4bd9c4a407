package main

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/teamgraph/go/internal/events"
	"github.com/mcdev12/teamgraph/go/internal/graph"
	"github.com/mcdev12/teamgraph/go/internal/metrics"
	"github.com/mcdev12/teamgraph/go/internal/player"
	"github.com/mcdev12/teamgraph/go/internal/teams"
)

// database is the part of *pgxpool.Pool the repositories use.
type database interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Services struct {
	Players  *player.App
	Teams    *teams.App
	Resolver *graph.Resolver
}

func setupServices(db database, queryTimeout time.Duration, publisher events.Publisher, recorder *metrics.Recorder, clock clockwork.Clock) *Services {
	// Wire up dependency injection chain
	// Pool → Repository layer → App layer → Resolver

	// Teams
	teamsRepo := teams.NewRepository(db, queryTimeout)
	teamsApp := teams.NewApp(teamsRepo)

	// Players
	playerRepo := player.NewRepository(db, queryTimeout)
	playerApp := player.NewApp(playerRepo, publisher, clock, recorder)

	return &Services{
		Players:  playerApp,
		Teams:    teamsApp,
		Resolver: graph.NewResolver(playerApp, teamsApp),
	}
}

// setupPublisher connects to NATS when a URL is configured and logs events otherwise.
func setupPublisher(config *Config) (events.Publisher, func(), error) {
	if config.NATS.URL == "" {
		return events.LogPublisher{}, func() {}, nil
	}

	natsConfig := events.DefaultNATSConfig()
	natsConfig.URL = config.NATS.URL
	natsConfig.SubjectPrefix = config.NATS.SubjectPrefix

	publisher, err := events.NewNATSPublisher(natsConfig)
	if err != nil {
		return nil, nil, err
	}
	return publisher, func() { _ = publisher.Close() }, nil
}
