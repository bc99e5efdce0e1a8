package table

import (
	"fmt"
	"sort"
)

// Column describes one typed column of a schema
type Column struct {
	Name     string
	Kind     Kind
	Required bool
}

// Schema is the ordered set of columns a loader expects. Columns in the
// source that are not listed are carried through as strings.
type Schema struct {
	Columns []Column
	// Sheet selects the worksheet for workbook sources; empty means the first.
	Sheet string
}

// Lookup returns the column definition for name
func (s Schema) Lookup(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Row is one record, positionally aligned with the table's columns
type Row []Value

// Table is an ordered, in-memory list of rows sharing one header.
// Operations return new tables and never modify their receiver's rows.
type Table struct {
	columns []string
	index   map[string]int
	rows    []Row
}

// New creates an empty table with the given header
func New(columns ...string) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range t.columns {
		t.index[c] = i
	}
	return t
}

// Columns returns a copy of the header
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows
func (t *Table) Len() int { return len(t.rows) }

// Row returns row i. The returned slice must not be modified.
func (t *Table) Row(i int) Row { return t.rows[i] }

// Rows returns the backing rows. Callers must treat them as read-only.
func (t *Table) Rows() []Row { return t.rows }

// Has reports whether the table has a column called name
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Index returns the position of a column
func (t *Table) Index(name string) (int, error) {
	i, ok := t.index[name]
	if !ok {
		return -1, &MissingColumnError{Column: name}
	}
	return i, nil
}

// Indexes resolves several columns at once
func (t *Table) Indexes(names ...string) ([]int, error) {
	out := make([]int, len(names))
	for n, name := range names {
		i, err := t.Index(name)
		if err != nil {
			return nil, err
		}
		out[n] = i
	}
	return out, nil
}

// Require fails with a MissingColumnError naming the first absent column
func (t *Table) Require(names ...string) error {
	_, err := t.Indexes(names...)
	return err
}

// Append adds a row. The row length must match the header.
func (t *Table) Append(row Row) error {
	if len(row) != len(t.columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(row), len(t.columns))
	}
	t.rows = append(t.rows, row)
	return nil
}

// Get returns the value at row i, column name
func (t *Table) Get(i int, name string) (Value, error) {
	c, err := t.Index(name)
	if err != nil {
		return Value{}, err
	}
	return t.rows[i][c], nil
}

// Filter returns a new table holding the rows for which keep is true, in order
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := New(t.columns...)
	for _, r := range t.rows {
		if keep(r) {
			out.rows = append(out.rows, r)
		}
	}
	return out
}

// Map returns a new table with the given header, built row by row from t.
// Rows for which fn returns nil are dropped.
func (t *Table) Map(columns []string, fn func(Row) Row) (*Table, error) {
	out := New(columns...)
	for _, r := range t.rows {
		nr := fn(r)
		if nr == nil {
			continue
		}
		if err := out.Append(nr); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SortedBy returns a copy of t stably sorted ascending by the named columns
func (t *Table) SortedBy(names ...string) (*Table, error) {
	idx, err := t.Indexes(names...)
	if err != nil {
		return nil, err
	}
	out := New(t.columns...)
	out.rows = append([]Row(nil), t.rows...)
	sort.SliceStable(out.rows, func(i, j int) bool {
		return CompareKeys(KeyOf(out.rows[i], idx), KeyOf(out.rows[j], idx)) < 0
	})
	return out, nil
}

// Records renders the table as text records without the header
func (t *Table) Records() [][]string {
	records := make([][]string, len(t.rows))
	for i, r := range t.rows {
		rec := make([]string, len(r))
		for j, v := range r {
			rec[j] = v.Text()
		}
		records[i] = rec
	}
	return records
}

// MissingColumnError reports a column a caller required but the table lacks
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q", e.Column)
}
