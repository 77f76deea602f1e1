package phenotable

import (
	"bytes"
	"strings"

	"gopkg.in/check.v1"
	"gopkg.in/guregu/null.v3"
)

type reportSuite struct{}

var _ = check.Suite(&reportSuite{})

func (s *reportSuite) render(c *check.C, r *Report) string {
	var buf bytes.Buffer
	c.Assert(r.Fprint(&buf), check.IsNil)
	return buf.String()
}

func (s *reportSuite) TestAllGlobalsPresent(c *check.C) {
	out := s.render(c, &Report{
		Rows:    10,
		Columns: []string{"BETA", "SE", "Het_Q"},
		Globals: Globals{
			NCases:       null.IntFrom(1000),
			NControls:    null.IntFrom(4000),
			Heritability: null.FloatFrom(0.125),
			Fields:       []string{"heritability", "n_cases", "n_controls"},
		},
		LambdaGC: null.FloatFrom(1.0312),
	})

	c.Check(out, check.Matches, `(?s).*Table dimensions: 10 rows x 3 columns\n.*`)
	c.Check(out, check.Matches, `(?s).*\[heritability n_cases n_controls\]\n.*`)
	c.Check(out, check.Matches, `(?s).*Number of cases: 1000\nNumber of controls: 4000\nSample Size \(n\): 5000\nHeritability: 0\.125\n.*`)
	c.Check(out, check.Matches, `(?s).*Genomic inflation \(lambda GC\): 1\.0312\n`)
}

func (s *reportSuite) TestMissingGlobals(c *check.C) {
	out := s.render(c, &Report{
		Globals: Globals{
			NCases: null.IntFrom(1000),
			Fields: []string{"n_cases"},
		},
	})

	c.Check(strings.Contains(out, "Heritability: Not available\n"), check.Equals, true)
	c.Check(strings.Contains(out, "Number of controls: Not available\n"), check.Equals, true)
	c.Check(strings.Contains(out, "Sample Size"), check.Equals, false)
	c.Check(strings.Contains(out, "Genomic inflation (lambda GC): Not available\n"), check.Equals, true)
}

func (s *reportSuite) TestPreview(c *check.C) {
	out := s.render(c, &Report{
		Rows:    25,
		Columns: []string{"BETA", "Pvalue"},
		Preview: [][]string{{"0.1", "0.01"}, {"NA", "NA"}},
	})

	c.Check(out, check.Matches, `(?s)BETA +Pvalue\n0\.1 +0\.01\nNA +NA\nshowing top 2 of 25 rows\n.*`)
}
