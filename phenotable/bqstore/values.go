package bqstore

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"cloud.google.com/go/bigquery"
	"gopkg.in/guregu/null.v3"
)

// FormatValue renders a BigQuery cell the way Hail's TSV export renders the
// same value: NULL is missing, arrays and structs are JSON, floats use the
// shortest representation.
func FormatValue(v bigquery.Value) null.String {
	if v == nil {
		return null.String{}
	}

	return null.StringFrom(formatScalar(v))
}

func formatScalar(v bigquery.Value) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return formatFloat(x)
	case bool:
		return strconv.FormatBool(x)
	case *big.Rat:
		return strings.TrimRight(strings.TrimRight(x.FloatString(9), "0"), ".")
	case []bigquery.Value:
		return formatJSON(plain(x))
	case map[string]bigquery.Value:
		return formatJSON(plain(x))
	}

	return fmt.Sprint(v)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	return strconv.FormatFloat(f, 'g', -1, 64)
}

// plain converts nested BigQuery values into types encoding/json can render
// without losing NaN or big.Rat values.
func plain(v bigquery.Value) interface{} {
	switch x := v.(type) {
	case nil, string, int64, bool:
		return x
	case []bigquery.Value:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	case map[string]bigquery.Value:
		out := make(map[string]interface{}, len(x))
		for k, e := range x {
			out[k] = plain(e)
		}
		return out
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return formatFloat(x)
		}
		return json.Number(formatFloat(x))
	}

	return formatScalar(v)
}

func formatJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}

	return string(b)
}
