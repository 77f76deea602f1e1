package phenotable

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/ckrueger2/mesa-pwas/objstore"
	"gopkg.in/check.v1"
	"gopkg.in/guregu/null.v3"
)

// memoryTables is a Store over in-memory tables that counts how it is used.
type memoryTables struct {
	tables map[Ref]*Table
	rows   map[Ref][]Row

	existsCalls int
	openCalls   int
}

func (m *memoryTables) Location(ref Ref) string {
	return "memory://" + ref.Population + "/" + ref.Phecode
}

func (m *memoryTables) Exists(ctx context.Context, ref Ref) (bool, error) {
	m.existsCalls++
	_, exists := m.tables[ref]
	return exists, nil
}

func (m *memoryTables) Open(ctx context.Context, ref Ref) (*Table, error) {
	m.openCalls++
	t, exists := m.tables[ref]
	if !exists {
		return nil, errors.New("no such table")
	}
	out := *t
	out.Rows = NewSliceRows(m.rows[ref])
	return &out, nil
}

// droppingObjects accepts writes but never makes them visible, like an upload
// that reports success and then cannot be found.
type droppingObjects struct {
	*objstore.Memory
}

func (d droppingObjects) NewWriter(ctx context.Context, path string) (io.WriteCloser, error) {
	return nopWriteCloser{}, nil
}

// unlistedObjects stores writes and answers Exists for them, but leaves them
// out of folder listings.
type unlistedObjects struct {
	*objstore.Memory
}

func (u unlistedObjects) List(ctx context.Context, prefix string) ([]string, error) {
	return []string{}, nil
}

type nopWriteCloser struct{}

func (nopWriteCloser) Write(p []byte) (int, error) { return len(p), nil }
func (nopWriteCloser) Close() error                { return nil }

func str(s string) null.String { return null.StringFrom(s) }

type exporterSuite struct {
	ref     Ref
	tables  *memoryTables
	objects *objstore.Memory
}

var _ = check.Suite(&exporterSuite{})

func (s *exporterSuite) SetUpTest(c *check.C) {
	s.ref = Ref{Population: "eur", Phecode: "250.2"}
	s.tables = &memoryTables{
		tables: map[Ref]*Table{
			s.ref: {
				Ref: s.ref,
				Schema: Schema{
					Key: []string{"locus", "alleles"},
					Row: []string{"POS", "CHR", "Pvalue", "SE", "BETA", "alleles", "locus", "AF_Allele2"},
				},
				Globals: Globals{
					NCases:    null.IntFrom(1000),
					NControls: null.IntFrom(4000),
					Fields:    []string{"n_cases", "n_controls"},
				},
			},
		},
		rows: map[Ref][]Row{
			s.ref: {
				{"locus": str("chr1:12345"), "alleles": str(`["A","G"]`), "BETA": str("0.12"), "SE": str("0.03"), "Pvalue": str("6.3e-05"), "CHR": str("1"), "POS": str("12345"), "AF_Allele2": str("0.2")},
				{"locus": str("chr1:22222"), "alleles": str(`["C","T"]`), "BETA": str("-0.01"), "SE": str("0.02"), "Pvalue": str("0.61"), "CHR": str("1"), "POS": str("22222")},
				{"locus": str("chr2:5"), "alleles": str(`["G","GA"]`), "BETA": {}, "SE": {}, "Pvalue": {}, "CHR": str("2"), "POS": str("5")},
			},
		},
	}
	s.objects = objstore.NewMemory()
}

func (s *exporterSuite) exporter() *Exporter {
	return &Exporter{
		Tables:      s.tables,
		Objects:     s.objects,
		Bucket:      "gs://fc-secure-workspace",
		PreviewRows: DefaultPreviewRows,
	}
}

func (s *exporterSuite) TestExport(c *check.C) {
	report, err := s.exporter().Export(context.Background(), s.ref)
	c.Assert(err, check.IsNil)

	c.Check(report.Destination, check.Equals, "gs://fc-secure-workspace/data/eur_full_250.2.tsv")
	c.Check(string(s.objects.Objects[report.Destination]), check.Equals, "locus\talleles\tBETA\tSE\tHet_Q\tPvalue\tCHR\tPOS\n"+
		"chr1:12345\t[\"A\",\"G\"]\t0.12\t0.03\tNA\t6.3e-05\t1\t12345\n"+
		"chr1:22222\t[\"C\",\"T\"]\t-0.01\t0.02\tNA\t0.61\t1\t22222\n"+
		"chr2:5\t[\"G\",\"GA\"]\tNA\tNA\tNA\tNA\t2\t5\n")
	c.Check(report.Rows, check.Equals, 3)
	c.Check(report.Columns, check.DeepEquals, []string{"locus", "alleles", "BETA", "SE", "Het_Q", "Pvalue", "CHR", "POS"})
	c.Check(report.Synthesized, check.DeepEquals, []string{"Het_Q"})
	c.Check(report.Preview, check.HasLen, 3)
	c.Check(report.SampleSize(), check.Equals, null.IntFrom(5000))
	c.Check(report.LambdaGC.Valid, check.Equals, true)
}

// A table keyed by locus and alleles, with Het_Q absent upstream, exports the
// key first and a missing Het_Q in its fixed position.
func (s *exporterSuite) TestKeyedTableKeepsKeyColumns(c *check.C) {
	ref := Ref{Population: "afr", Phecode: "CV_401.1"}
	s.tables.tables[ref] = &Table{
		Ref: ref,
		Schema: Schema{
			Key: []string{"locus", "alleles"},
			Row: []string{"locus", "alleles", "BETA", "SE", "Pvalue", "CHR", "POS"},
		},
	}
	s.tables.rows[ref] = []Row{
		{"locus": str("chr7:117559590"), "alleles": str(`["A","T"]`), "BETA": str("0.4"), "SE": str("0.1"), "Pvalue": str("3e-05"), "CHR": str("7"), "POS": str("117559590")},
	}

	report, err := s.exporter().Export(context.Background(), ref)
	c.Assert(err, check.IsNil)

	c.Check(report.Columns, check.DeepEquals, []string{"locus", "alleles", "BETA", "SE", "Het_Q", "Pvalue", "CHR", "POS"})
	c.Check(string(s.objects.Objects[report.Destination]), check.Equals, "locus\talleles\tBETA\tSE\tHet_Q\tPvalue\tCHR\tPOS\n"+
		"chr7:117559590\t[\"A\",\"T\"]\t0.4\t0.1\tNA\t3e-05\t7\t117559590\n")
}

func (s *exporterSuite) TestDropKey(c *check.C) {
	e := s.exporter()
	e.DropKey = true
	report, err := e.Export(context.Background(), s.ref)
	c.Assert(err, check.IsNil)

	out := string(s.objects.Objects[report.Destination])
	c.Check(strings.SplitN(out, "\n", 2)[0], check.Equals, "BETA\tSE\tHet_Q\tPvalue\tCHR\tPOS")
	c.Check(strings.Split(out, "\n")[1], check.Equals, "0.12\t0.03\tNA\t6.3e-05\t1\t12345")
}

func (s *exporterSuite) TestMissingTableIsNeitherReadNorWritten(c *check.C) {
	_, err := s.exporter().Export(context.Background(), Ref{Population: "afr", Phecode: "999.9"})

	var notFound *TableNotFoundError
	c.Assert(errors.As(err, &notFound), check.Equals, true)
	c.Check(err, check.ErrorMatches, `Phenotype 999.9 is not in the All of Us database for population afr.*`)
	c.Check(s.tables.existsCalls, check.Equals, 1)
	c.Check(s.tables.openCalls, check.Equals, 0)
	c.Check(s.objects.Objects, check.HasLen, 0)
}

func (s *exporterSuite) TestExportIsIdempotent(c *check.C) {
	e := s.exporter()
	first, err := e.Export(context.Background(), s.ref)
	c.Assert(err, check.IsNil)
	firstBytes := append([]byte(nil), s.objects.Objects[first.Destination]...)

	second, err := e.Export(context.Background(), s.ref)
	c.Assert(err, check.IsNil)
	c.Check(second.Destination, check.Equals, first.Destination)
	c.Check(bytes.Equal(firstBytes, s.objects.Objects[second.Destination]), check.Equals, true)
}

func (s *exporterSuite) TestNoClobber(c *check.C) {
	e := s.exporter()
	e.NoClobber = true
	dest := e.Destination(s.ref)
	s.objects.Objects[dest] = []byte("previous\n")

	_, err := e.Export(context.Background(), s.ref)
	var exists *DestinationExistsError
	c.Assert(errors.As(err, &exists), check.Equals, true)
	c.Check(exists.Path, check.Equals, dest)
	c.Check(string(s.objects.Objects[dest]), check.Equals, "previous\n")
	c.Check(s.tables.openCalls, check.Equals, 0)
}

func (s *exporterSuite) TestUnverifiableExport(c *check.C) {
	e := s.exporter()
	e.Objects = droppingObjects{s.objects}

	_, err := e.Export(context.Background(), s.ref)
	var notVerified *ExportNotVerifiedError
	c.Assert(errors.As(err, &notVerified), check.Equals, true)
	c.Check(err.Error(), check.Matches, `.*gs://fc-secure-workspace/data/eur_full_250\.2\.tsv.*`)
	c.Check(notVerified.Folder, check.Equals, "gs://fc-secure-workspace/data/")
}

func (s *exporterSuite) TestExportMustAppearInFolderListing(c *check.C) {
	e := s.exporter()
	e.Objects = unlistedObjects{s.objects}

	_, err := e.Export(context.Background(), s.ref)
	var notVerified *ExportNotVerifiedError
	c.Assert(errors.As(err, &notVerified), check.Equals, true)
	c.Check(err, check.ErrorMatches, `File 'gs://fc-secure-workspace/data/eur_full_250\.2\.tsv' was not found in gs://fc-secure-workspace/data/`)
}

func (s *exporterSuite) TestEmptyBucketIsNotValidated(c *check.C) {
	e := s.exporter()
	e.Bucket = ""
	report, err := e.Export(context.Background(), s.ref)
	c.Assert(err, check.IsNil)
	c.Check(report.Destination, check.Equals, "/data/eur_full_250.2.tsv")
}
