package phenotable

import (
	"context"
	"io"

	"gopkg.in/guregu/null.v3"
)

// Row maps column names to values. A column that is absent from the map, or
// whose value is not valid, is missing.
type Row map[string]null.String

// RowReader yields rows in a stable order. Next returns io.EOF after the last
// row.
type RowReader interface {
	Next() (Row, error)
	Close() error
}

// Table is an opened phenotype table. It is read-only.
type Table struct {
	Ref
	Schema
	Globals
	Rows RowReader
}

func (t *Table) Close() error {
	if t.Rows == nil {
		return nil
	}

	return t.Rows.Close()
}

// Store is the remote table store: a read-only collection of phenotype tables
// keyed by population and phecode.
type Store interface {
	// Exists must not read table contents.
	Exists(ctx context.Context, ref Ref) (bool, error)
	Open(ctx context.Context, ref Ref) (*Table, error)

	// Location describes where ref lives, for operator messages.
	Location(ref Ref) string
}

// SliceRows serves rows from memory.
type SliceRows struct {
	rows []Row
	next int
}

func NewSliceRows(rows []Row) *SliceRows {
	return &SliceRows{rows: rows}
}

func (s *SliceRows) Next() (Row, error) {
	if s.next >= len(s.rows) {
		return nil, io.EOF
	}
	s.next++

	return s.rows[s.next-1], nil
}

func (s *SliceRows) Close() error { return nil }
