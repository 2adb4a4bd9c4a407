// Package joinplan compiles GraphQL field selections into a single SQL
// statement with LEFT JOINs for nested relations, and hydrates the flat
// result rows back into a tree of records.
package joinplan

import "fmt"

// Table describes a SQL table exposed as a GraphQL object type.
type Table struct {
	Name      string
	UniqueKey string
	// Columns maps GraphQL field names to column names.
	Columns map[string]string

	relations map[string]Relation
}

// Relation is a join predicate between a parent and a child table:
// parent.LocalColumn = child.RemoteColumn.
type Relation struct {
	Field        string
	Target       *Table
	LocalColumn  string
	RemoteColumn string
	// Many is true for one-to-many relations (the field is a list).
	Many bool
}

// NewTable creates a table. The columns map is copied.
func NewTable(name, uniqueKey string, columns map[string]string) *Table {
	cols := make(map[string]string, len(columns))
	for field, column := range columns {
		cols[field] = column
	}
	return &Table{
		Name:      name,
		UniqueKey: uniqueKey,
		Columns:   cols,
		relations: make(map[string]Relation),
	}
}

// Join registers a relation field on t. It panics on a duplicate field, since
// tables are declared once at package initialization.
func (t *Table) Join(field string, target *Table, localColumn, remoteColumn string, many bool) {
	if _, exists := t.relations[field]; exists {
		panic(fmt.Sprintf("joinplan: relation %q already registered on %s", field, t.Name))
	}
	if _, exists := t.Columns[field]; exists {
		panic(fmt.Sprintf("joinplan: %q is already a column of %s", field, t.Name))
	}
	t.relations[field] = Relation{
		Field:        field,
		Target:       target,
		LocalColumn:  localColumn,
		RemoteColumn: remoteColumn,
		Many:         many,
	}
}

// Relation returns the relation registered under field.
func (t *Table) Relation(field string) (Relation, bool) {
	r, ok := t.relations[field]
	return r, ok
}

func (t *Table) hasColumn(column string) bool {
	if column == t.UniqueKey {
		return true
	}
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}
