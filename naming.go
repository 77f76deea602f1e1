package pwas

import (
	"fmt"
	"strings"
)

// DefaultTableBase is the controlled-tier root of the All of Us AllxAll ACAF
// summary statistics.
const DefaultTableBase = "gs://fc-aou-datasets-controlled/AllxAll/v1/ht/ACAF"

// Populations are the ancestry groups for which AllxAll results are released.
var Populations = []string{"afr", "amr", "eas", "eur", "mid", "sas", "meta"}

// NormalizePopulation lower-cases pop and checks it against Populations.
func NormalizePopulation(pop string) (string, error) {
	p := strings.ToLower(strings.TrimSpace(pop))
	for _, known := range Populations {
		if p == known {
			return p, nil
		}
	}

	return "", fmt.Errorf("Population %q is not recognized. Valid populations include: %s", pop, strings.Join(Populations, ", "))
}

// ValidatePhecode rejects identifiers that cannot be embedded in an object
// path.
func ValidatePhecode(phecode string) error {
	if phecode == "" {
		return fmt.Errorf("phecode must not be empty")
	}
	if strings.ContainsAny(phecode, "/ \t\n") {
		return fmt.Errorf("phecode %q must not contain slashes or whitespace", phecode)
	}

	return nil
}

// PhenotypeTableName is the per-phenotype table name used by the AllxAll
// release, e.g. phenotype_250.2_ACAF_results.
func PhenotypeTableName(phecode string) string {
	return fmt.Sprintf("phenotype_%s_ACAF_results", phecode)
}

// PhenotypeTablePath is <base>/<pop>/phenotype_<phecode>_ACAF_results.ht
func PhenotypeTablePath(base, pop, phecode string) string {
	return JoinPath(base, pop, PhenotypeTableName(phecode)+".ht")
}

// FullExportPath is where the exporter writes the unfiltered summary
// statistics: <bucket>/data/<pop>_full_<phecode>.tsv
func FullExportPath(bucket, pop, phecode string) string {
	return JoinPath(bucket, "data", fmt.Sprintf("%s_full_%s.tsv", pop, phecode))
}
