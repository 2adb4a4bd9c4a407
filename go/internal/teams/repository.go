package teams

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mcdev12/teamgraph/go/internal/dbschema"
	"github.com/mcdev12/teamgraph/go/internal/joinplan"
	"github.com/mcdev12/teamgraph/go/internal/models"
)

const (
	insertTeamSQL = `INSERT INTO team (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`
	// explicit ids bypass the serial sequence
	resyncTeamSequenceSQL = `SELECT setval(pg_get_serial_sequence('team', 'id'), GREATEST((SELECT MAX(id) FROM team), 1))`
)

// DB is satisfied by *pgxpool.Pool
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository handles all team-related database operations
type Repository struct {
	db      DB
	timeout time.Duration
}

// NewRepository creates a new teams repository
func NewRepository(db DB, timeout time.Duration) *Repository {
	return &Repository{
		db:      db,
		timeout: timeout,
	}
}

// ListTeams returns every team, joining players only when fields select them
func (r *Repository) ListTeams(ctx context.Context, fields []string) ([]*models.Team, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	plan, err := joinplan.Compile(dbschema.Teams, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to plan teams query: %w", err)
	}

	records, err := plan.Query(ctx, r.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	return dbschema.TeamsFromRecords(records)
}

// InsertTeam inserts a team with a fixed id. It reports false when the id already exists.
func (r *Repository) InsertTeam(ctx context.Context, team SeedTeam) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, insertTeamSQL, team.ID, team.Name)
	if err != nil {
		return false, fmt.Errorf("failed to insert team %d: %w", team.ID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// ResyncSequence moves the team id sequence past the highest seeded id
func (r *Repository) ResyncSequence(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.Exec(ctx, resyncTeamSequenceSQL); err != nil {
		return fmt.Errorf("failed to resync team sequence: %w", err)
	}
	return nil
}

func (r *Repository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}
