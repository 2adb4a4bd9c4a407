// Package testutil holds pgx fakes shared by repository tests.
package testutil

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Call records one statement sent to a FakeDB.
type Call struct {
	SQL  string
	Args []any
}

// FakeDB scripts responses for Query/QueryRow and records every call. It
// satisfies the repository DB interfaces (Query, QueryRow, Exec, Begin).
type FakeDB struct {
	mu sync.Mutex

	QueryFunc    func(sql string, args []any) (pgx.Rows, error)
	QueryRowFunc func(sql string, args []any) pgx.Row
	ExecFunc     func(sql string, args []any) (pgconn.CommandTag, error)
	BeginErr     error
	CommitErr    error

	Calls []Call
	Txs   []*FakeTx
}

func (f *FakeDB) record(sql string, args []any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, Call{SQL: sql, Args: args})
}

func (f *FakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.record(sql, args)
	if f.QueryFunc == nil {
		return &FakeRows{}, nil
	}
	return f.QueryFunc(sql, args)
}

func (f *FakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.record(sql, args)
	if f.QueryRowFunc == nil {
		return FakeRow{Err: pgx.ErrNoRows}
	}
	return f.QueryRowFunc(sql, args)
}

func (f *FakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.record(sql, args)
	if f.ExecFunc == nil {
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	return f.ExecFunc(sql, args)
}

func (f *FakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	if f.BeginErr != nil {
		return nil, f.BeginErr
	}
	tx := &FakeTx{db: f}
	f.mu.Lock()
	f.Txs = append(f.Txs, tx)
	f.mu.Unlock()
	return tx, nil
}

// FakeTx forwards statements to its FakeDB. Methods not overridden here panic.
type FakeTx struct {
	pgx.Tx
	db *FakeDB

	Committed  bool
	RolledBack bool
}

func (t *FakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.db.Query(ctx, sql, args...)
}

func (t *FakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.db.QueryRow(ctx, sql, args...)
}

func (t *FakeTx) Commit(ctx context.Context) error {
	if t.db.CommitErr != nil {
		return t.db.CommitErr
	}
	t.Committed = true
	return nil
}

func (t *FakeTx) Rollback(ctx context.Context) error {
	if t.Committed {
		return pgx.ErrTxClosed
	}
	t.RolledBack = true
	return nil
}

// FakeRows serves fixed row values. Methods not overridden here panic.
type FakeRows struct {
	pgx.Rows

	Data   [][]any
	Error  error
	Closed bool

	pos int
}

func (r *FakeRows) Next() bool {
	if r.pos >= len(r.Data) {
		return false
	}
	r.pos++
	return true
}

func (r *FakeRows) Values() ([]any, error) {
	return r.Data[r.pos-1], nil
}

func (r *FakeRows) Err() error { return r.Error }

func (r *FakeRows) Close() { r.Closed = true }

// FakeRow is a single scripted row for QueryRow.
type FakeRow struct {
	Values []any
	Err    error
}

func (r FakeRow) Scan(dest ...any) error {
	if r.Err != nil {
		return r.Err
	}
	if len(dest) != len(r.Values) {
		return fmt.Errorf("fake row has %d values, scan wants %d", len(r.Values), len(dest))
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.Values[i]))
	}
	return nil
}
