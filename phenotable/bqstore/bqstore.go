// Package bqstore serves phenotype tables that were loaded into BigQuery, one
// table per population and phenotype. The table's clustering fields play the
// role of the Hail key, and table-wide attributes live in a single-row
// companion table named <table>_globals.
package bqstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"cloud.google.com/go/bigquery"
	"github.com/carbocation/pfx"
	pwas "github.com/ckrueger2/mesa-pwas"
	"github.com/ckrueger2/mesa-pwas/phenotable"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"gopkg.in/guregu/null.v3"
)

const GlobalsSuffix = "_globals"

type WrappedBigQuery struct {
	Client  *bigquery.Client
	Project string
	Dataset string
}

type Store struct {
	BQ *WrappedBigQuery
}

// TableID maps a ref onto a legal BigQuery table name. Phecodes such as
// 250.2 or CV_401.1 contain dots, which table names may not.
func TableID(ref phenotable.Ref) string {
	name := ref.Population + "_" + pwas.PhenotypeTableName(ref.Phecode)
	return strings.NewReplacer(".", "_", "-", "_").Replace(name)
}

func (s *Store) Location(ref phenotable.Ref) string {
	return fmt.Sprintf("%s.%s.%s", s.BQ.Project, s.BQ.Dataset, TableID(ref))
}

func (s *Store) table(id string) *bigquery.Table {
	return s.BQ.Client.DatasetInProject(s.BQ.Project, s.BQ.Dataset).Table(id)
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}

func (s *Store) Exists(ctx context.Context, ref phenotable.Ref) (bool, error) {
	_, err := s.table(TableID(ref)).Metadata(ctx)
	if isNotFound(err) {
		return false, nil
	} else if err != nil {
		return false, pfx.Err(err)
	}

	return true, nil
}

func (s *Store) Open(ctx context.Context, ref phenotable.Ref) (*phenotable.Table, error) {
	md, err := s.table(TableID(ref)).Metadata(ctx)
	if err != nil {
		return nil, pfx.Err(err)
	}

	schema := SchemaFromMetadata(md)

	globals, err := s.readGlobals(ctx, TableID(ref)+GlobalsSuffix)
	if err != nil {
		return nil, err
	}

	query := s.BQ.Client.Query(SelectQuery(s.Location(ref), md.Schema, schema.Key))
	itr, err := query.Read(ctx)
	if err != nil {
		return nil, pfx.Err(err)
	}
	log.Printf("Reading %d rows from %s", itr.TotalRows, s.Location(ref))

	return &phenotable.Table{
		Ref:     ref,
		Schema:  schema,
		Globals: globals,
		Rows:    &rowIterator{itr: itr},
	}, nil
}

// SchemaFromMetadata declares the available columns and the key.
func SchemaFromMetadata(md *bigquery.TableMetadata) phenotable.Schema {
	out := phenotable.Schema{Row: make([]string, 0, len(md.Schema))}
	for _, field := range md.Schema {
		out.Row = append(out.Row, field.Name)
	}

	if md.Clustering != nil {
		out.Key = append(out.Key, md.Clustering.Fields...)
	}

	return out
}

// SelectQuery reads every row, ordered by the key so that repeated exports
// are byte-identical. Without a key, all scalar desired columns are used.
// Arrays and structs cannot be compared directly and are ordered by their
// JSON rendering.
func SelectQuery(location string, schema bigquery.Schema, key []string) string {
	fields := make(map[string]*bigquery.FieldSchema, len(schema))
	for _, field := range schema {
		fields[field.Name] = field
	}

	order := key
	if len(order) == 0 {
		for _, col := range phenotable.DesiredColumns {
			if _, exists := fields[col]; exists {
				order = append(order, col)
			}
		}
	}

	exprs := make([]string, 0, len(order))
	for _, col := range order {
		field, exists := fields[col]
		if !exists {
			continue
		}
		if field.Repeated || field.Type == bigquery.RecordFieldType {
			exprs = append(exprs, fmt.Sprintf("TO_JSON_STRING(`%s`)", col))
		} else {
			exprs = append(exprs, fmt.Sprintf("`%s`", col))
		}
	}

	q := fmt.Sprintf("SELECT * FROM `%s`", location)
	if len(exprs) > 0 {
		q += " ORDER BY " + strings.Join(exprs, ", ")
	}

	return q
}

func (s *Store) readGlobals(ctx context.Context, id string) (phenotable.Globals, error) {
	g := phenotable.Globals{Fields: []string{}}

	if _, err := s.table(id).Metadata(ctx); isNotFound(err) {
		// Not an error; this table just has no global attributes
		return g, nil
	} else if err != nil {
		return g, pfx.Err(err)
	}

	query := s.BQ.Client.Query(fmt.Sprintf("SELECT * FROM `%s.%s.%s` LIMIT 1", s.BQ.Project, s.BQ.Dataset, id))
	itr, err := query.Read(ctx)
	if err != nil {
		return g, pfx.Err(err)
	}

	values := map[string]bigquery.Value{}
	if err := itr.Next(&values); err == iterator.Done {
		return g, nil
	} else if err != nil {
		return g, pfx.Err(err)
	}

	return GlobalsFromValues(values)
}

// GlobalsFromValues interprets one row of the globals table.
func GlobalsFromValues(values map[string]bigquery.Value) (phenotable.Globals, error) {
	g := phenotable.Globals{Fields: make([]string, 0, len(values))}
	for name := range values {
		g.Fields = append(g.Fields, name)
	}
	sort.Strings(g.Fields)

	var err error
	if g.NCases, err = nullInt(values[phenotable.GlobalNCases]); err != nil {
		return g, fmt.Errorf("%s: %w", phenotable.GlobalNCases, err)
	}
	if g.NControls, err = nullInt(values[phenotable.GlobalNControls]); err != nil {
		return g, fmt.Errorf("%s: %w", phenotable.GlobalNControls, err)
	}
	if g.Heritability, err = nullFloat(values[phenotable.GlobalHeritability]); err != nil {
		return g, fmt.Errorf("%s: %w", phenotable.GlobalHeritability, err)
	}

	return g, nil
}

func nullInt(v bigquery.Value) (null.Int, error) {
	switch x := v.(type) {
	case nil:
		return null.Int{}, nil
	case int64:
		return null.IntFrom(x), nil
	case float64:
		return null.IntFrom(int64(x)), nil
	}

	return null.Int{}, fmt.Errorf("expected an integer, got %T", v)
}

func nullFloat(v bigquery.Value) (null.Float, error) {
	switch x := v.(type) {
	case nil:
		return null.Float{}, nil
	case float64:
		return null.FloatFrom(x), nil
	case int64:
		return null.FloatFrom(float64(x)), nil
	}

	return null.Float{}, fmt.Errorf("expected a number, got %T", v)
}

type rowIterator struct {
	itr *bigquery.RowIterator
}

func (r *rowIterator) Next() (phenotable.Row, error) {
	var values map[string]bigquery.Value
	err := r.itr.Next(&values)
	if err == iterator.Done {
		return nil, io.EOF
	} else if err != nil {
		return nil, pfx.Err(err)
	}

	row := make(phenotable.Row, len(values))
	for col, v := range values {
		row[col] = FormatValue(v)
	}

	return row, nil
}

func (r *rowIterator) Close() error { return nil }
