package phenotable

import (
	"bytes"
	"errors"

	"gopkg.in/check.v1"
)

type tsvSuite struct{}

var _ = check.Suite(&tsvSuite{})

type failingRows struct{ served bool }

func (f *failingRows) Next() (Row, error) {
	if f.served {
		return nil, errors.New("stream interrupted")
	}
	f.served = true
	return Row{"BETA": str("1")}, nil
}

func (f *failingRows) Close() error { return nil }

func (s *tsvSuite) TestEmptyTableStillHasHeader(c *check.C) {
	var buf bytes.Buffer
	n, err := WriteTSV(&buf, NewSliceRows(nil), Selection{Columns: []string{"BETA", "Het_Q"}, Synthesized: []string{"Het_Q"}}, nil)
	c.Assert(err, check.IsNil)
	c.Check(n, check.Equals, 0)
	c.Check(buf.String(), check.Equals, "BETA\tHet_Q\n")
}

func (s *tsvSuite) TestSynthesizedColumnsIgnoreUpstreamValues(c *check.C) {
	var buf bytes.Buffer
	rows := NewSliceRows([]Row{{"BETA": str("1"), "Het_Q": str("3.2")}})
	_, err := WriteTSV(&buf, rows, Selection{Columns: []string{"BETA", "Het_Q"}, Synthesized: []string{"Het_Q"}}, nil)
	c.Assert(err, check.IsNil)
	c.Check(buf.String(), check.Equals, "BETA\tHet_Q\n1\tNA\n")
}

func (s *tsvSuite) TestReadErrorsSurface(c *check.C) {
	var buf bytes.Buffer
	n, err := WriteTSV(&buf, &failingRows{}, Selection{Columns: []string{"BETA"}}, nil)
	c.Check(err, check.ErrorMatches, "stream interrupted")
	c.Check(n, check.Equals, 1)
}
