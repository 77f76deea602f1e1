package phenotable

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/guregu/null.v3"
)

const notAvailable = "Not available"

// Report summarizes one export for the operator.
type Report struct {
	Ref
	Source      string
	Destination string

	Rows        int
	Columns     []string
	Synthesized []string
	Globals     Globals

	// LambdaGC is only valid when the export carried usable P values.
	LambdaGC null.Float

	// Preview holds the first exported rows, already formatted.
	Preview [][]string
}

func (r *Report) SampleSize() null.Int {
	return r.Globals.SampleSize()
}

func formatInt(v null.Int) string {
	if !v.Valid {
		return notAvailable
	}

	return strconv.FormatInt(v.Int64, 10)
}

func formatFloat(v null.Float, format byte, prec int) string {
	if !v.Valid {
		return notAvailable
	}

	return strconv.FormatFloat(v.Float64, format, prec, 64)
}

// Fprint writes the preview, the table dimensions and the global fields.
func (r *Report) Fprint(w io.Writer) error {
	if len(r.Preview) > 0 {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(r.Columns, "\t"))
		for _, fields := range r.Preview {
			fmt.Fprintln(tw, strings.Join(fields, "\t"))
		}
		if r.Rows > len(r.Preview) {
			fmt.Fprintf(tw, "showing top %d of %d rows\n", len(r.Preview), r.Rows)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Table dimensions: %d rows x %d columns\n", r.Rows, len(r.Columns))
	if len(r.Synthesized) > 0 {
		fmt.Fprintf(w, "Columns filled with missing values: %s\n", strings.Join(r.Synthesized, ", "))
	}
	fmt.Fprintf(w, "Exported to: %s\n\n", r.Destination)

	fmt.Fprintln(w, "Available Global Fields:")
	fmt.Fprintf(w, "%v\n\n", r.Globals.Fields)

	fmt.Fprintln(w, "TABLE GLOBAL FIELDS:")
	fmt.Fprintf(w, "Number of cases: %s\n", formatInt(r.Globals.NCases))
	fmt.Fprintf(w, "Number of controls: %s\n", formatInt(r.Globals.NControls))
	if n := r.SampleSize(); n.Valid {
		fmt.Fprintf(w, "Sample Size (n): %d\n", n.Int64)
	}
	fmt.Fprintf(w, "Heritability: %s\n", formatFloat(r.Globals.Heritability, 'g', -1))
	_, err := fmt.Fprintf(w, "Genomic inflation (lambda GC): %s\n", formatFloat(r.LambdaGC, 'f', 4))

	return err
}
