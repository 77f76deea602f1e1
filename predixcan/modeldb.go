package predixcan

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	_ "github.com/mattn/go-sqlite3"
)

// ModelSummary describes a PredictDB model database: the extra table has one
// row per gene and the weights table one row per gene/variant pair.
type ModelSummary struct {
	Genes    int `db:"genes"`
	Weights  int `db:"weights"`
	Variants int `db:"variants"`
}

func (m ModelSummary) String() string {
	return fmt.Sprintf("%d genes, %d weights over %d variants", m.Genes, m.Weights, m.Variants)
}

// InspectModelDB opens path read-only and counts genes and weights. A file
// without the PredictDB tables is an error, since SPrediXcan.py would only
// fail later with a less helpful message.
func InspectModelDB(path string) (ModelSummary, error) {
	var out ModelSummary

	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}

	db, err := sqlx.Connect("sqlite3", path+"?mode=ro")
	if err != nil {
		return out, err
	}
	defer db.Close()

	for _, table := range []string{"extra", "weights"} {
		var n int
		if err := db.Get(&n, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table); err != nil {
			return out, err
		}
		if n == 0 {
			return out, fmt.Errorf("%s is not a model database: no %s table", path, table)
		}
	}

	err = db.Get(&out, `SELECT
	(SELECT COUNT(*) FROM extra) AS genes,
	(SELECT COUNT(*) FROM weights) AS weights,
	(SELECT COUNT(DISTINCT rsid) FROM weights) AS variants`)

	return out, err
}
