package phenotable

// Selection is the outcome of schema negotiation: the exported columns in
// output order, and which of them have no upstream data and are filled with
// missing values.
type Selection struct {
	Columns     []string
	Synthesized []string
}

func (s Selection) IsSynthesized(col string) bool {
	for _, v := range s.Synthesized {
		if v == col {
			return true
		}
	}

	return false
}

// Negotiate computes the exported columns: DesiredColumns that are available,
// in DesiredColumns order. Key columns (locus, alleles) are kept in their
// desired position, as they are once the table is un-keyed, unless dropKey is
// set. Het_Q is always exported; when the table does not carry it, it is
// synthesized as an all-null numeric column.
func Negotiate(schema Schema, dropKey bool) Selection {
	available := make(map[string]struct{}, len(schema.Row))
	for _, col := range schema.Row {
		available[col] = struct{}{}
	}

	key := make(map[string]struct{}, len(schema.Key))
	for _, col := range schema.Key {
		key[col] = struct{}{}
	}

	sel := Selection{Columns: make([]string, 0, len(DesiredColumns))}
	for _, col := range DesiredColumns {
		_, isAvailable := available[col]
		_, isKey := key[col]

		switch {
		case col == ColHetQ:
			sel.Columns = append(sel.Columns, col)
			if !isAvailable {
				sel.Synthesized = append(sel.Synthesized, col)
			}
		case !isAvailable:
			continue
		case isKey && dropKey:
			continue
		default:
			sel.Columns = append(sel.Columns, col)
		}
	}

	return sel
}
