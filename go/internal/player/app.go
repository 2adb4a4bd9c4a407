package player

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/mcdev12/teamgraph/go/internal/events"
	"github.com/mcdev12/teamgraph/go/internal/models"
	"github.com/mcdev12/teamgraph/go/internal/sqlutil"
)

// PlayerRepository defines what the app layer needs from the repository
type PlayerRepository interface {
	ListPlayers(ctx context.Context, fields []string) ([]*models.Player, error)
	GetPlayer(ctx context.Context, id int64, fields []string) (*models.Player, error)
	CreatePlayer(ctx context.Context, req CreatePlayerRequest, fields []string) (*models.Player, error)
}

// Recorder counts created players
type Recorder interface {
	RecordPlayerCreated()
}

// App handles player business logic
type App struct {
	repo      PlayerRepository
	publisher events.Publisher
	clock     clockwork.Clock
	recorder  Recorder
}

// NewApp creates a new player App. recorder may be nil.
func NewApp(repo PlayerRepository, publisher events.Publisher, clock clockwork.Clock, recorder Recorder) *App {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &App{
		repo:      repo,
		publisher: publisher,
		clock:     clock,
		recorder:  recorder,
	}
}

// ListPlayers retrieves every player with the selected fields
func (a *App) ListPlayers(ctx context.Context, fields []string) ([]*models.Player, error) {
	players, err := a.repo.ListPlayers(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", sqlutil.Classify(err))
	}
	return players, nil
}

// GetPlayer retrieves a player by ID. It returns ErrPlayerNotFound when no row matches.
func (a *App) GetPlayer(ctx context.Context, id int64, fields []string) (*models.Player, error) {
	player, err := a.repo.GetPlayer(ctx, id, fields)
	if err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get player: %w", sqlutil.Classify(err))
	}
	return player, nil
}

// CreatePlayer creates a new player with validation and emits player.created
func (a *App) CreatePlayer(ctx context.Context, req CreatePlayerRequest, fields []string) (*models.Player, error) {
	if err := a.validateCreatePlayerRequest(req); err != nil {
		return nil, err
	}

	player, err := a.repo.CreatePlayer(ctx, req, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", sqlutil.Classify(err))
	}

	if a.recorder != nil {
		a.recorder.RecordPlayerCreated()
	}
	a.publishCreated(ctx, req, player)

	return player, nil
}

// publishCreated never fails the request; the row is already committed.
func (a *App) publishCreated(ctx context.Context, req CreatePlayerRequest, player *models.Player) {
	logger := zerolog.Ctx(ctx)

	teamID := req.TeamID
	event, err := events.NewPlayerCreated(a.clock, &models.Player{
		ID:        player.ID,
		FirstName: &req.FirstName,
		LastName:  &req.LastName,
		TeamID:    &teamID,
	})
	if err != nil {
		logger.Error().Err(err).Int64("player_id", player.ID).Msg("failed to build player.created event")
		return
	}

	if err := a.publisher.Publish(ctx, event); err != nil {
		logger.Error().Err(err).
			Int64("player_id", player.ID).
			Str("event_id", event.ID.String()).
			Msg("failed to publish player.created event")
	}
}

// validateCreatePlayerRequest validates create player request
func (a *App) validateCreatePlayerRequest(req CreatePlayerRequest) error {
	if strings.TrimSpace(req.FirstName) == "" {
		return fmt.Errorf("%w: first_name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.LastName) == "" {
		return fmt.Errorf("%w: last_name is required", ErrInvalidInput)
	}
	return nil
}
