package predixcan

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
)

// NAFloat is a float column that may hold NA. Missing values are NaN.
type NAFloat float64

func (f *NAFloat) UnmarshalCSV(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "na", "nan":
		*f = NAFloat(math.NaN())
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = NAFloat(v)

	return nil
}

func (f NAFloat) Valid() bool {
	return !math.IsNaN(float64(f))
}

// Association is one gene row of SPrediXcan.py output.
type Association struct {
	Gene         string  `csv:"gene"`
	GeneName     string  `csv:"gene_name"`
	ZScore       NAFloat `csv:"zscore"`
	EffectSize   NAFloat `csv:"effect_size"`
	PValue       NAFloat `csv:"pvalue"`
	PredPerfR2   NAFloat `csv:"pred_perf_r2"`
	NSNPsUsed    NAFloat `csv:"n_snps_used"`
	NSNPsInModel NAFloat `csv:"n_snps_in_model"`
}

type Summary struct {
	// Genes counts rows in the output; Tested counts those with a P value.
	Genes     int
	Tested    int
	Threshold float64

	Significant int
	Top         []*Association
}

// ReadAssociations parses SPrediXcan.py's comma-separated output.
func ReadAssociations(r io.Reader) ([]*Association, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true

	records := []*Association{}
	if err := gocsv.UnmarshalCSV(cr, &records); err != nil {
		return nil, err
	}

	return records, nil
}

// Summarize counts genes passing a Bonferroni correction at alpha over the
// tested genes and keeps the top n by P value.
func Summarize(records []*Association, alpha float64, n int) *Summary {
	s := &Summary{Genes: len(records)}

	tested := make([]*Association, 0, len(records))
	for _, rec := range records {
		if rec.PValue.Valid() {
			tested = append(tested, rec)
		}
	}
	s.Tested = len(tested)
	if s.Tested == 0 {
		return s
	}

	s.Threshold = alpha / float64(s.Tested)
	sort.SliceStable(tested, func(i, j int) bool { return tested[i].PValue < tested[j].PValue })

	for _, rec := range tested {
		if float64(rec.PValue) < s.Threshold {
			s.Significant++
		}
	}

	if n > len(tested) {
		n = len(tested)
	}
	s.Top = tested[:n]

	return s
}

func (s *Summary) Fprint(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Genes in output: %d\nGenes tested: %d\n", s.Genes, s.Tested); err != nil {
		return err
	}
	if s.Tested == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w, "Bonferroni threshold: %.3g\nSignificant genes: %d\n", s.Threshold, s.Significant); err != nil {
		return err
	}

	for _, rec := range s.Top {
		name := rec.GeneName
		if name == "" {
			name = rec.Gene
		}
		if _, err := fmt.Fprintf(w, "  %s\t%s\tz=%.3f\tp=%.3g\n", name, rec.Gene, float64(rec.ZScore), float64(rec.PValue)); err != nil {
			return err
		}
	}

	return nil
}
