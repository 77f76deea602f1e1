package phenotable

import (
	"gopkg.in/check.v1"
)

type negotiateSuite struct{}

var _ = check.Suite(&negotiateSuite{})

func (s *negotiateSuite) TestMissingHetQIsSynthesized(c *check.C) {
	sel := Negotiate(Schema{
		Row: []string{"locus", "alleles", "BETA", "SE", "Pvalue", "CHR", "POS"},
	}, false)
	c.Check(sel.Columns, check.DeepEquals, []string{"locus", "alleles", "BETA", "SE", "Het_Q", "Pvalue", "CHR", "POS"})
	c.Check(sel.Synthesized, check.DeepEquals, []string{"Het_Q"})
}

func (s *negotiateSuite) TestUpstreamOrderIsIgnored(c *check.C) {
	sel := Negotiate(Schema{
		Row: []string{"POS", "Pvalue_expected_log10", "CHR", "Het_Q", "SE", "BETA", "rank", "Pvalue", "AF_Allele2", "Pvalue_log10", "Pvalue_expected"},
	}, false)
	c.Check(sel.Columns, check.DeepEquals, []string{"BETA", "SE", "Het_Q", "Pvalue", "Pvalue_log10", "CHR", "POS", "rank", "Pvalue_expected", "Pvalue_expected_log10"})
	c.Check(sel.Synthesized, check.HasLen, 0)
}

func (s *negotiateSuite) TestKeyColumns(c *check.C) {
	schema := Schema{
		Key: []string{"locus", "alleles"},
		Row: []string{"locus", "alleles", "BETA", "SE", "Pvalue", "CHR", "POS"},
	}

	c.Check(Negotiate(schema, false).Columns, check.DeepEquals, []string{"locus", "alleles", "BETA", "SE", "Het_Q", "Pvalue", "CHR", "POS"})
	c.Check(Negotiate(schema, true).Columns, check.DeepEquals, []string{"BETA", "SE", "Het_Q", "Pvalue", "CHR", "POS"})
}

// Every subset of the desired columns, mixed with undesired extras and with a
// varying key, must export exactly desired ∩ available plus Het_Q, in desired
// order, less the key when it is dropped.
func (s *negotiateSuite) TestAllSubsets(c *check.C) {
	extras := []string{"AF_Allele2", "N", "imputationInfo"}
	for _, dropKey := range []bool{false, true} {
		s.checkAllSubsets(c, extras, dropKey)
	}
}

func (s *negotiateSuite) checkAllSubsets(c *check.C, extras []string, dropKey bool) {
	for mask := 0; mask < 1<<len(DesiredColumns); mask++ {
		var row []string
		// Reverse order so upstream order never matches the desired order
		for i := len(DesiredColumns) - 1; i >= 0; i-- {
			if mask&(1<<i) != 0 {
				row = append(row, DesiredColumns[i])
			}
		}
		row = append(row, extras...)

		key := []string{}
		if mask%3 == 0 {
			key = []string{"locus", "alleles"}
		}

		sel := Negotiate(Schema{Key: key, Row: row}, dropKey)

		var expected []string
		for i, col := range DesiredColumns {
			inAvailable := mask&(1<<i) != 0
			inKey := len(key) > 0 && (col == "locus" || col == "alleles")
			if col == ColHetQ || (inAvailable && !(inKey && dropKey)) {
				expected = append(expected, col)
			}
		}
		c.Assert(sel.Columns, check.DeepEquals, expected, check.Commentf("mask %b key %v drop %v", mask, key, dropKey))

		hetQAvailable := mask&(1<<4) != 0
		c.Assert(sel.IsSynthesized(ColHetQ), check.Equals, !hetQAvailable)
	}
}
