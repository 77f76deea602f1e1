package phenotable

import (
	"bufio"
	"io"
	"strings"
)

// MissingValue is written for null cells, matching Hail's export.
const MissingValue = "NA"

// WriteTSV writes a header line followed by one line per row, projecting each
// row onto sel.Columns. Rows are passed to observe (if non-nil) after they are
// written. It returns the number of data rows written.
func WriteTSV(w io.Writer, rows RowReader, sel Selection, observe func(fields []string)) (int, error) {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(sel.Columns, "\t") + "\n"); err != nil {
		return 0, err
	}

	fields := make([]string, len(sel.Columns))
	n := 0
	for {
		row, err := rows.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return n, err
		}

		for i, col := range sel.Columns {
			fields[i] = MissingValue
			if v := row[col]; v.Valid && !sel.IsSynthesized(col) {
				fields[i] = v.String
			}
		}

		if _, err := bw.WriteString(strings.Join(fields, "\t") + "\n"); err != nil {
			return n, err
		}
		n++

		if observe != nil {
			observe(fields)
		}
	}

	return n, bw.Flush()
}
