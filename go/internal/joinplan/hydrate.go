package joinplan

import "fmt"

// Rows is the subset of pgx.Rows the hydrator reads.
type Rows interface {
	Next() bool
	Values() ([]any, error)
	Err() error
}

// Record is one hydrated object: its selected column values and the records
// of its selected relations.
type Record struct {
	key      any
	values   map[string]any
	children map[string][]*Record
	index    map[string]map[any]*Record
}

// Key returns the record's unique key value.
func (r *Record) Key() any {
	return r.key
}

// Value returns the value of a selected column field, or nil.
func (r *Record) Value(field string) any {
	return r.values[field]
}

// Has reports whether field was selected on this record.
func (r *Record) Has(field string) bool {
	_, ok := r.values[field]
	return ok
}

// Children returns the records of a many relation. The slice is empty, not
// nil, when the relation was selected but matched nothing.
func (r *Record) Children(field string) []*Record {
	return r.children[field]
}

// Child returns the record of a one relation, or nil.
func (r *Record) Child(field string) *Record {
	if c := r.children[field]; len(c) > 0 {
		return c[0]
	}
	return nil
}

// Hydrate folds the flat joined rows into root records, de-duplicating every
// level by its unique key and keeping first-seen order.
func (p *Plan) Hydrate(rows Rows) ([]*Record, error) {
	out := []*Record{}
	seen := make(map[any]*Record)

	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}

		key := keyOf(vals[p.root.keyIndex])
		if key == nil {
			continue
		}

		rec, ok := seen[key]
		if !ok {
			rec = p.root.newRecord(vals)
			seen[key] = rec
			out = append(out, rec)
		}
		p.root.merge(rec, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return out, nil
}

func (n *node) newRecord(vals []any) *Record {
	rec := &Record{
		key:      vals[n.keyIndex],
		values:   make(map[string]any, len(n.fields)),
		children: make(map[string][]*Record, len(n.children)),
		index:    make(map[string]map[any]*Record, len(n.children)),
	}
	for _, f := range n.fields {
		rec.values[f.name] = vals[f.index]
	}
	for _, e := range n.children {
		rec.children[e.field] = []*Record{}
		rec.index[e.field] = make(map[any]*Record)
	}
	return rec
}

func (n *node) merge(rec *Record, vals []any) {
	for _, e := range n.children {
		key := keyOf(vals[e.node.keyIndex])
		if key == nil {
			continue
		}

		child, ok := rec.index[e.field][key]
		if !ok {
			if !e.many && len(rec.children[e.field]) > 0 {
				// A one relation keeps the first match.
				continue
			}
			child = e.node.newRecord(vals)
			rec.index[e.field][key] = child
			rec.children[e.field] = append(rec.children[e.field], child)
		}
		e.node.merge(child, vals)
	}
}

// keyOf makes a row value usable as a map key.
func keyOf(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
