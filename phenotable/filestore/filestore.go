// Package filestore serves phenotype tables that were exported as a directory
// of flat files: a metadata.json describing the key and global attributes,
// and a (possibly compressed) delimited rows file with a header line.
//
//	<base>/<pop>/phenotype_<phecode>_ACAF_results.ht/metadata.json
//	<base>/<pop>/phenotype_<phecode>_ACAF_results.ht/rows.tsv.bgz
package filestore

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/carbocation/pfx"
	pwas "github.com/ckrueger2/mesa-pwas"
	"github.com/ckrueger2/mesa-pwas/objstore"
	"github.com/ckrueger2/mesa-pwas/phenotable"
	log "github.com/sirupsen/logrus"
	"gopkg.in/guregu/null.v3"
)

const MetadataFile = "metadata.json"

// RowsFiles are tried in order; the first that exists is used. Compression is
// detected from content, not from the name.
var RowsFiles = []string{
	"rows.tsv",
	"rows.tsv.bgz",
	"rows.tsv.gz",
	"rows.tsv.xz",
	"rows.tsv.bz2",
	"rows.tsv.zip",
}

// sniffSize is how much of the rows file is inspected to find the delimiter.
const sniffSize = 64 * 1024

// Metadata is the content of metadata.json. Globals are kept raw so that
// every reported attribute name survives, even ones this tool ignores.
type Metadata struct {
	Key     []string                   `json:"key"`
	Globals map[string]json.RawMessage `json:"globals"`
}

type Store struct {
	Objects objstore.Store
	Base    string
}

func (s *Store) Location(ref phenotable.Ref) string {
	return pwas.PhenotypeTablePath(s.Base, ref.Population, ref.Phecode)
}

func (s *Store) Exists(ctx context.Context, ref phenotable.Ref) (bool, error) {
	return s.Objects.Exists(ctx, pwas.JoinPath(s.Location(ref), MetadataFile))
}

func (s *Store) Open(ctx context.Context, ref phenotable.Ref) (*phenotable.Table, error) {
	dir := s.Location(ref)

	md, err := s.readMetadata(ctx, dir)
	if err != nil {
		return nil, err
	}

	globals, err := DecodeGlobals(md.Globals)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pwas.JoinPath(dir, MetadataFile), err)
	}

	rowsPath, err := s.findRows(ctx, dir)
	if err != nil {
		return nil, err
	}

	rc, err := s.Objects.NewReader(ctx, rowsPath)
	if err != nil {
		return nil, err
	}

	rows, header, err := newDelimitedRows(rc)
	if err != nil {
		rc.Close()
		return nil, pfx.Err(fmt.Errorf("%s: %w", rowsPath, err))
	}
	log.Printf("Reading %s (%d columns)", rowsPath, len(header))

	return &phenotable.Table{
		Ref: ref,
		Schema: phenotable.Schema{
			Key: md.Key,
			Row: header,
		},
		Globals: globals,
		Rows:    rows,
	}, nil
}

func (s *Store) readMetadata(ctx context.Context, dir string) (*Metadata, error) {
	path := pwas.JoinPath(dir, MetadataFile)

	rc, err := s.Objects.NewReader(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	md := &Metadata{}
	if err := json.NewDecoder(rc).Decode(md); err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return md, nil
}

func (s *Store) findRows(ctx context.Context, dir string) (string, error) {
	for _, name := range RowsFiles {
		path := pwas.JoinPath(dir, name)
		exists, err := s.Objects.Exists(ctx, path)
		if err != nil {
			return "", err
		}
		if exists {
			return path, nil
		}
	}

	return "", fmt.Errorf("%s has no rows file (looked for %v): %w", dir, RowsFiles, objstore.ErrNotExist)
}

// DecodeGlobals interprets the raw global attributes. A null or absent
// attribute stays invalid; a value of the wrong type is an error.
func DecodeGlobals(raw map[string]json.RawMessage) (phenotable.Globals, error) {
	g := phenotable.Globals{Fields: make([]string, 0, len(raw))}
	for name := range raw {
		g.Fields = append(g.Fields, name)
	}
	sort.Strings(g.Fields)

	for name, target := range map[string]json.Unmarshaler{
		phenotable.GlobalNCases:       &g.NCases,
		phenotable.GlobalNControls:    &g.NControls,
		phenotable.GlobalHeritability: &g.Heritability,
	} {
		value, exists := raw[name]
		if !exists {
			continue
		}
		if err := target.UnmarshalJSON(value); err != nil {
			return g, fmt.Errorf("global %s: %w", name, err)
		}
	}

	return g, nil
}

// delimitedRows reads a header line and then one row per line. NA and empty
// cells are missing.
type delimitedRows struct {
	rc     io.ReadCloser
	r      *csv.Reader
	header []string
}

func newDelimitedRows(src io.ReadCloser) (*delimitedRows, []string, error) {
	rc, dt, err := pwas.MaybeDecompressReadCloser(src)
	if err != nil {
		return nil, nil, err
	}
	if dt != pwas.DataTypeNoCompression {
		log.Debugf("Rows file is %s compressed", dt)
	}

	br := bufio.NewReaderSize(rc, sniffSize)
	sample, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && !errors.Is(err, bufio.ErrBufferFull) {
		rc.Close()
		return nil, nil, err
	}

	r := csv.NewReader(br)
	r.Comma = pwas.DetermineDelimiter(sample)
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		rc.Close()
		return nil, nil, fmt.Errorf("rows file is empty")
	} else if err != nil {
		rc.Close()
		return nil, nil, fmt.Errorf("header parsing error: %w", err)
	}

	return &delimitedRows{rc: rc, r: r, header: header}, header, nil
}

func (d *delimitedRows) Next() (phenotable.Row, error) {
	record, err := d.r.Read()
	if err == io.EOF {
		return nil, io.EOF
	} else if err != nil {
		return nil, err
	}

	row := make(phenotable.Row, len(d.header))
	for i, col := range d.header {
		if v := record[i]; v != phenotable.MissingValue && v != "" {
			row[col] = null.StringFrom(v)
		}
	}

	return row, nil
}

func (d *delimitedRows) Close() error {
	return d.rc.Close()
}
