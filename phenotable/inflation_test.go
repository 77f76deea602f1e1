package phenotable

import (
	"math"

	"gopkg.in/check.v1"
)

type inflationSuite struct{}

var _ = check.Suite(&inflationSuite{})

func (s *inflationSuite) TestUniformPvaluesAreUninflated(c *check.C) {
	n := 999
	pvalues := make([]float64, 0, n)
	for i := 1; i <= n; i++ {
		pvalues = append(pvalues, float64(i)/float64(n+1))
	}

	lambda, err := LambdaGC(pvalues)
	c.Assert(err, check.IsNil)
	c.Check(math.Abs(lambda-1) < 1e-6, check.Equals, true, check.Commentf("lambda %f", lambda))
}

func (s *inflationSuite) TestSmallPvaluesInflate(c *check.C) {
	lambda, err := LambdaGC([]float64{1e-3, 1e-2, 0.05, 0.1, 0.2})
	c.Assert(err, check.IsNil)
	c.Check(lambda > 1, check.Equals, true)
}

func (s *inflationSuite) TestInvalidPvaluesAreIgnored(c *check.C) {
	_, err := LambdaGC([]float64{0, -1, 2, math.NaN()})
	c.Check(err, check.ErrorMatches, "no usable P values")

	lambda, err := LambdaGC([]float64{0, 0.5, math.NaN()})
	c.Assert(err, check.IsNil)
	c.Check(math.Abs(lambda-1) < 1e-6, check.Equals, true)
}

func (s *inflationSuite) TestGenomeWideHitsStayFinite(c *check.C) {
	lambda, err := LambdaGC([]float64{1e-20, 1e-30, 1e-40, 0.5, 0.9})
	c.Assert(err, check.IsNil)
	c.Check(math.IsInf(lambda, 0) || math.IsNaN(lambda), check.Equals, false, check.Commentf("lambda %f", lambda))

	// The median is the 1e-20 statistic, about 85.7 on the chi-squared scale
	c.Check(lambda > 150 && lambda < 220, check.Equals, true, check.Commentf("lambda %f", lambda))
}
