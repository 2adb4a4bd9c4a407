package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mcdev12/teamgraph/go/internal/dbschema"
	"github.com/mcdev12/teamgraph/go/internal/joinplan"
	"github.com/mcdev12/teamgraph/go/internal/models"
	"github.com/mcdev12/teamgraph/go/internal/sqlutil"
)

const insertPlayerSQL = `INSERT INTO player (first_name, last_name, team_id) VALUES ($1, $2, $3) RETURNING id`

// DB is satisfied by *pgxpool.Pool
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository handles all player-related database operations
type Repository struct {
	db      DB
	timeout time.Duration
}

// NewRepository creates a new player repository. A positive timeout bounds
// every statement.
func NewRepository(db DB, timeout time.Duration) *Repository {
	return &Repository{
		db:      db,
		timeout: timeout,
	}
}

// CreatePlayerRequest contains all data needed to create a player
type CreatePlayerRequest struct {
	FirstName string
	LastName  string
	TeamID    int32
}

// ListPlayers returns every player, joining team only when fields select it
func (r *Repository) ListPlayers(ctx context.Context, fields []string) ([]*models.Player, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	plan, err := joinplan.Compile(dbschema.Players, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to plan players query: %w", err)
	}

	records, err := plan.Query(ctx, r.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	return dbschema.PlayersFromRecords(records)
}

// GetPlayer retrieves a player by ID
func (r *Repository) GetPlayer(ctx context.Context, id int64, fields []string) (*models.Player, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.getPlayer(ctx, r.db, id, fields)
}

// CreatePlayer inserts a player and reads it back with the requested fields in one transaction
func (r *Repository) CreatePlayer(ctx context.Context, req CreatePlayerRequest, fields []string) (*models.Player, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var created *models.Player
	err := sqlutil.RunTx(ctx, r.db, func(tx pgx.Tx) error {
		var id int64
		if err := tx.QueryRow(ctx, insertPlayerSQL, req.FirstName, req.LastName, req.TeamID).Scan(&id); err != nil {
			return fmt.Errorf("failed to insert player: %w", err)
		}

		player, err := r.getPlayer(ctx, tx, id, fields)
		if err != nil {
			return fmt.Errorf("failed to read back player %d: %w", id, err)
		}
		created = player
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *Repository) getPlayer(ctx context.Context, q joinplan.Querier, id int64, fields []string) (*models.Player, error) {
	plan, err := joinplan.Compile(dbschema.Players, fields, joinplan.Eq("id", id))
	if err != nil {
		return nil, fmt.Errorf("failed to plan player query: %w", err)
	}

	records, err := plan.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrPlayerNotFound
	}

	return dbschema.PlayerFromRecord(records[0])
}

func (r *Repository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// IsNotFound reports whether err means the player does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPlayerNotFound)
}
