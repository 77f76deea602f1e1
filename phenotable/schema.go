// Package phenotable exports GWAS summary statistics for one phenotype and
// population from a remote table store into a flat, tab-separated file with a
// stable column contract for S-PrediXcan.
package phenotable

import (
	"fmt"

	pwas "github.com/ckrueger2/mesa-pwas"
	"gopkg.in/guregu/null.v3"
)

// Output columns, as named in the AllxAll release.
const (
	ColLocus               = "locus"
	ColAlleles             = "alleles"
	ColBeta                = "BETA"
	ColSE                  = "SE"
	ColHetQ                = "Het_Q"
	ColPvalue              = "Pvalue"
	ColPvalueLog10         = "Pvalue_log10"
	ColChr                 = "CHR"
	ColPos                 = "POS"
	ColRank                = "rank"
	ColPvalueExpected      = "Pvalue_expected"
	ColPvalueExpectedLog10 = "Pvalue_expected_log10"
)

// DesiredColumns is the canonical output order. Downstream consumers address
// columns by position, so this order is never taken from the upstream table.
var DesiredColumns = []string{
	ColLocus,
	ColAlleles,
	ColBeta,
	ColSE,
	ColHetQ,
	ColPvalue,
	ColPvalueLog10,
	ColChr,
	ColPos,
	ColRank,
	ColPvalueExpected,
	ColPvalueExpectedLog10,
}

// Global attribute names.
const (
	GlobalNCases       = "n_cases"
	GlobalNControls    = "n_controls"
	GlobalHeritability = "heritability"
)

// Ref identifies one phenotype table.
type Ref struct {
	Population string
	Phecode    string
}

// NewRef validates and normalizes a population code and phecode.
func NewRef(pop, phecode string) (Ref, error) {
	p, err := pwas.NormalizePopulation(pop)
	if err != nil {
		return Ref{}, err
	}

	if err := pwas.ValidatePhecode(phecode); err != nil {
		return Ref{}, err
	}

	return Ref{Population: p, Phecode: phecode}, nil
}

func (r Ref) String() string {
	return fmt.Sprintf("phenotype %s (population %s)", r.Phecode, r.Population)
}

// Schema is what a store declares about a table before any rows are read. Row
// lists every available column, including key columns.
type Schema struct {
	Key []string
	Row []string
}

// Globals holds the table-wide scalar attributes. Each is independently
// optional; an invalid value means the store did not supply it.
type Globals struct {
	NCases       null.Int
	NControls    null.Int
	Heritability null.Float

	// Fields lists every global attribute name reported by the store,
	// including ones this tool does not interpret.
	Fields []string
}

// SampleSize is cases plus controls, and only valid when both are known.
func (g Globals) SampleSize() null.Int {
	if !g.NCases.Valid || !g.NControls.Valid {
		return null.Int{}
	}

	return null.IntFrom(g.NCases.Int64 + g.NControls.Int64)
}
