package joinplan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Predicate is an equality condition on a root table column.
type Predicate struct {
	Column string
	Value  any
}

// Eq returns a predicate matching rows whose column equals value.
func Eq(column string, value any) Predicate {
	return Predicate{Column: column, Value: value}
}

// Plan is a compiled statement together with the shape needed to hydrate its rows.
type Plan struct {
	SQL  string
	Args []any

	root *node
}

type node struct {
	table    *Table
	alias    string
	keyIndex int
	fields   []selectedField
	children []edge
}

type selectedField struct {
	name  string
	index int
}

type edge struct {
	field string
	many  bool
	node  *node
}

// Compile builds one SELECT over root for the given dot-delimited field paths
// (e.g. "first_name", "team", "team.name"). Each selected relation becomes a
// LEFT JOIN; fields that are neither columns nor relations are ignored.
func Compile(root *Table, fields []string, where ...Predicate) (*Plan, error) {
	if root == nil {
		return nil, errors.New("joinplan: nil root table")
	}

	b := &builder{}
	n := b.build(root, parsePaths(fields))

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(b.columns, ", "))
	fmt.Fprintf(&sb, " FROM %s AS %s", quote(root.Name), quote(n.alias))
	for _, join := range b.joins {
		sb.WriteString(" ")
		sb.WriteString(join)
	}

	var args []any
	if len(where) > 0 {
		conds := make([]string, 0, len(where))
		for i, p := range where {
			if !root.hasColumn(p.Column) {
				return nil, fmt.Errorf("joinplan: unknown column %q on %s", p.Column, root.Name)
			}
			conds = append(conds, fmt.Sprintf("%s = $%d", qualify(n.alias, p.Column), i+1))
			args = append(args, p.Value)
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}

	sb.WriteString(" ORDER BY ")
	sb.WriteString(strings.Join(b.order, ", "))

	return &Plan{SQL: sb.String(), Args: args, root: n}, nil
}

type builder struct {
	columns []string
	joins   []string
	order   []string
	aliases int
}

func (b *builder) build(t *Table, sel *selection) *node {
	n := &node{table: t, alias: fmt.Sprintf("t%d", b.aliases)}
	b.aliases++

	n.keyIndex = b.column(n.alias, t.UniqueKey)
	b.order = append(b.order, qualify(n.alias, t.UniqueKey))

	for _, s := range sel.children {
		if column, ok := t.Columns[s.name]; ok {
			index := n.keyIndex
			if column != t.UniqueKey {
				index = b.column(n.alias, column)
			}
			n.fields = append(n.fields, selectedField{name: s.name, index: index})
			continue
		}

		rel, ok := t.relations[s.name]
		if !ok {
			continue
		}

		// Reserve the join slot so it precedes joins nested under the child.
		slot := len(b.joins)
		b.joins = append(b.joins, "")
		child := b.build(rel.Target, s)
		b.joins[slot] = fmt.Sprintf("LEFT JOIN %s AS %s ON %s = %s",
			quote(rel.Target.Name), quote(child.alias),
			qualify(n.alias, rel.LocalColumn), qualify(child.alias, rel.RemoteColumn))

		n.children = append(n.children, edge{field: s.name, many: rel.Many, node: child})
	}

	return n
}

// column appends a select expression and returns its position in the row.
func (b *builder) column(alias, column string) int {
	b.columns = append(b.columns, fmt.Sprintf("%s AS %s", qualify(alias, column), quote(alias+"_"+column)))
	return len(b.columns) - 1
}

func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func qualify(alias, column string) string {
	return pgx.Identifier{alias, column}.Sanitize()
}

type selection struct {
	name     string
	children []*selection
}

func (s *selection) child(name string) *selection {
	for _, c := range s.children {
		if c.name == name {
			return c
		}
	}
	c := &selection{name: name}
	s.children = append(s.children, c)
	return c
}

func parsePaths(paths []string) *selection {
	root := &selection{}
	for _, path := range paths {
		cur := root
		for _, part := range strings.Split(path, ".") {
			if part == "" {
				continue
			}
			cur = cur.child(part)
		}
	}
	return root
}
