package graph

import (
	"context"

	"github.com/graph-gophers/graphql-go"

	"github.com/mcdev12/teamgraph/go/internal/models"
	"github.com/mcdev12/teamgraph/go/internal/player"
)

const greeting = "Hello world!"

// PlayerApp defines what the resolvers need from the player app
type PlayerApp interface {
	ListPlayers(ctx context.Context, fields []string) ([]*models.Player, error)
	GetPlayer(ctx context.Context, id int64, fields []string) (*models.Player, error)
	CreatePlayer(ctx context.Context, req player.CreatePlayerRequest, fields []string) (*models.Player, error)
}

// TeamsApp defines what the resolvers need from the teams app
type TeamsApp interface {
	ListTeams(ctx context.Context, fields []string) ([]*models.Team, error)
}

// Resolver is the schema root. Query and Mutation are resolved separately
// because both define a player field.
type Resolver struct {
	players PlayerApp
	teams   TeamsApp
}

// NewResolver creates the root resolver
func NewResolver(players PlayerApp, teams TeamsApp) *Resolver {
	return &Resolver{players: players, teams: teams}
}

func (r *Resolver) Query() interface{} {
	return &QueryResolver{root: r}
}

func (r *Resolver) Mutation() interface{} {
	return &MutationResolver{root: r}
}

// QueryResolver resolves the Query type.
type QueryResolver struct {
	root *Resolver
}

func (q *QueryResolver) Hello() string {
	return greeting
}

func (q *QueryResolver) Players(ctx context.Context) ([]*PlayerResolver, error) {
	players, err := q.root.players.ListPlayers(ctx, graphql.SelectedFieldNames(ctx))
	if err != nil {
		return nil, wrapError(err)
	}
	return newPlayerResolvers(players), nil
}

func (q *QueryResolver) Player(ctx context.Context, args struct{ ID int32 }) (*PlayerResolver, error) {
	p, err := q.root.players.GetPlayer(ctx, int64(args.ID), graphql.SelectedFieldNames(ctx))
	if err != nil {
		if player.IsNotFound(err) {
			return nil, nil
		}
		return nil, wrapError(err)
	}
	return &PlayerResolver{p: p}, nil
}

func (q *QueryResolver) Teams(ctx context.Context) ([]*TeamResolver, error) {
	teams, err := q.root.teams.ListTeams(ctx, graphql.SelectedFieldNames(ctx))
	if err != nil {
		return nil, wrapError(err)
	}
	out := make([]*TeamResolver, 0, len(teams))
	for _, t := range teams {
		out = append(out, &TeamResolver{t: t})
	}
	return out, nil
}

// MutationResolver resolves the Mutation type.
type MutationResolver struct {
	root *Resolver
}

type createPlayerArgs struct {
	FirstName string
	LastName  string
	TeamID    int32
}

func (m *MutationResolver) Player(ctx context.Context, args createPlayerArgs) (*PlayerResolver, error) {
	if !mutationsAllowed(ctx) {
		return nil, wrapError(errMutationNotAllowed)
	}

	p, err := m.root.players.CreatePlayer(ctx, player.CreatePlayerRequest{
		FirstName: args.FirstName,
		LastName:  args.LastName,
		TeamID:    args.TeamID,
	}, graphql.SelectedFieldNames(ctx))
	if err != nil {
		return nil, wrapError(err)
	}
	return &PlayerResolver{p: p}, nil
}
