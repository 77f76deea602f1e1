package phenotable

import (
	"fmt"
	"math"
	"strconv"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// chiSquared1 is the 1-df chi-squared statistic with upper tail probability
// p. It goes through the two-sided normal quantile rather than
// ChiSquared.Quantile(1-p), since 1-p rounds to 1 for genome-wide hits.
func chiSquared1(p float64) float64 {
	z := distuv.UnitNormal.Quantile(p / 2)
	return z * z
}

// LambdaGC is the genomic inflation factor: the median 1-df chi-squared
// statistic implied by the P values, divided by the expected median under the
// null (about 0.4549). P values outside (0, 1] are ignored.
func LambdaGC(pvalues []float64) (float64, error) {
	chisq := make([]float64, 0, len(pvalues))
	for _, p := range pvalues {
		if math.IsNaN(p) || p <= 0 || p > 1 {
			continue
		}
		chisq = append(chisq, chiSquared1(p))
	}

	if len(chisq) == 0 {
		return 0, fmt.Errorf("no usable P values")
	}

	median, err := stats.Median(chisq)
	if err != nil {
		return 0, err
	}

	return median / chiSquared1(0.5), nil
}

// pvalueCollector gathers parsable P values from exported rows.
type pvalueCollector struct {
	col     int
	pvalues []float64
}

func newPvalueCollector(sel Selection) *pvalueCollector {
	for i, col := range sel.Columns {
		if col == ColPvalue && !sel.IsSynthesized(col) {
			return &pvalueCollector{col: i}
		}
	}

	return nil
}

func (c *pvalueCollector) observe(fields []string) {
	p, err := strconv.ParseFloat(fields[c.col], 64)
	if err != nil {
		return
	}
	c.pvalues = append(c.pvalues, p)
}
