package teams

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mcdev12/teamgraph/go/internal/models"
	"github.com/mcdev12/teamgraph/go/internal/sqlutil"
)

// TeamsRepository defines what the app layer needs from the repository
type TeamsRepository interface {
	ListTeams(ctx context.Context, fields []string) ([]*models.Team, error)
	InsertTeam(ctx context.Context, team SeedTeam) (bool, error)
	ResyncSequence(ctx context.Context) error
}

// App handles teams business logic
type App struct {
	repo TeamsRepository
}

// NewApp creates a new teams App
func NewApp(repo TeamsRepository) *App {
	return &App{repo: repo}
}

// ListTeams retrieves every team with the selected fields
func (a *App) ListTeams(ctx context.Context, fields []string) ([]*models.Team, error) {
	teams, err := a.repo.ListTeams(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", sqlutil.Classify(err))
	}
	return teams, nil
}

// Seed inserts the given teams, skipping ids that already exist. Per-team
// failures are collected in the result.
func (a *App) Seed(ctx context.Context, teams []SeedTeam) (*SeedResult, error) {
	logger := zerolog.Ctx(ctx)
	result := &SeedResult{Total: len(teams)}

	for _, t := range teams {
		inserted, err := a.repo.InsertTeam(ctx, t)
		if err != nil {
			logger.Error().Err(err).Int32("team_id", t.ID).Msg("failed to seed team")
			result.Errors = append(result.Errors, sqlutil.Classify(err))
			continue
		}
		if inserted {
			result.Inserted++
		} else {
			result.Skipped++
		}
	}

	if result.Inserted > 0 {
		if err := a.repo.ResyncSequence(ctx); err != nil {
			return result, fmt.Errorf("failed to finish seed: %w", sqlutil.Classify(err))
		}
	}

	logger.Info().
		Int("total", result.Total).
		Int("inserted", result.Inserted).
		Int("skipped", result.Skipped).
		Int("errors", len(result.Errors)).
		Msg("Teams seed complete")
	return result, nil
}
