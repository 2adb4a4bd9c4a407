package joinplan

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Query executes the plan on q and hydrates the result.
func (p *Plan) Query(ctx context.Context, q Querier) ([]*Record, error) {
	rows, err := q.Query(ctx, p.SQL, p.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", p.root.table.Name, err)
	}
	defer rows.Close()

	return p.Hydrate(rows)
}
