package main

import (
	"flag"
	"fmt"
	"io"

	pwas "github.com/ckrueger2/mesa-pwas"
	"github.com/ckrueger2/mesa-pwas/phenotable"
)

const (
	BackendFile     = "file"
	BackendBigQuery = "bigquery"
)

type options struct {
	Phecode    string
	Population string

	Bucket  string
	Project string
	Base    string

	Backend   string
	BQProject string
	BQDataset string

	DropKey     bool
	NoClobber   bool
	PreviewRows int
}

// parseFlags reads the command line. Environment variables only supply
// defaults, through getenv.
func parseFlags(args []string, getenv func(string) string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("pullpheno", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, `pullpheno exports All of Us AllxAll summary statistics for one phenotype and
population into <bucket>/data/<pop>_full_<phecode>.tsv`)
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.Phecode, "phecode", "", "Phenotype ID, e.g. CV_401.1. Required.")
	fs.StringVar(&opts.Population, "pop", "", "Population: afr, amr, eas, eur, mid, sas, or meta. Required.")
	fs.StringVar(&opts.Bucket, "bucket", getenv("WORKSPACE_BUCKET"), "Destination root. Defaults to $WORKSPACE_BUCKET.")
	fs.StringVar(&opts.Project, "project", getenv("GOOGLE_PROJECT"), "Project billed for requester-pays reads. Defaults to $GOOGLE_PROJECT.")
	fs.StringVar(&opts.Base, "base", pwas.DefaultTableBase, "Root of the per-population phenotype tables (file backend).")
	fs.StringVar(&opts.Backend, "backend", BackendFile, "Table store: file or bigquery.")
	fs.StringVar(&opts.BQProject, "bq-project", "", "BigQuery project holding the phenotype tables (bigquery backend).")
	fs.StringVar(&opts.BQDataset, "bq-dataset", "", "BigQuery dataset holding the phenotype tables (bigquery backend).")
	fs.BoolVar(&opts.DropKey, "drop-key", false, "Leave the locus and alleles key columns out of the export.")
	fs.BoolVar(&opts.NoClobber, "noclobber", false, "Fail instead of overwriting an existing export.")
	fs.IntVar(&opts.PreviewRows, "preview", phenotable.DefaultPreviewRows, "Number of exported rows to show.")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if opts.Phecode == "" || opts.Population == "" {
		fs.Usage()
		return nil, fmt.Errorf("--phecode and --pop are required")
	}

	switch opts.Backend {
	case BackendFile:
	case BackendBigQuery:
		if opts.BQProject == "" {
			opts.BQProject = opts.Project
		}
		if opts.BQProject == "" || opts.BQDataset == "" {
			fs.Usage()
			return nil, fmt.Errorf("the bigquery backend needs --bq-project and --bq-dataset")
		}
	default:
		fs.Usage()
		return nil, fmt.Errorf("unknown --backend %q", opts.Backend)
	}

	return opts, nil
}
