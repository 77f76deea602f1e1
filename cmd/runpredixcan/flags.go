package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	pwas "github.com/ckrueger2/mesa-pwas"
	"github.com/ckrueger2/mesa-pwas/predixcan"
)

const defaultHome = "/home/jupyter"

type options struct {
	Config  predixcan.Config
	Project string
	Stage   bool
	TopHits int
}

func parseFlags(args []string, getenv func(string) string, stderr io.Writer) (*options, error) {
	opts := &options{}
	c := &opts.Config

	home := getenv("HOME")
	if home == "" {
		home = defaultHome
	}

	fs := flag.NewFlagSet("runpredixcan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, `runpredixcan runs S-PrediXcan on <bucket>/data/<pop>_<input>_<phecode>.tsv and
uploads <pop>_predixcan_output_<phecode>_<model>_<data>.csv back to <bucket>/data/`)
		fs.PrintDefaults()
	}

	fs.StringVar(&c.Phecode, "phecode", "", "Phenotype ID. Required.")
	fs.StringVar(&c.Population, "pop", "", "Population. Required.")
	fs.StringVar(&c.Model, "model", "", "Model family: "+strings.Join(predixcan.Models, ", ")+". Required.")
	fs.StringVar(&c.Data, "data", "", "Variant set: "+strings.Join(predixcan.DataSets, ", ")+". Required.")
	fs.StringVar(&c.InputKind, "input", predixcan.InputFormattedMESA, "Input file kind: "+strings.Join(predixcan.InputKinds, " or ")+".")
	fs.StringVar(&c.Bucket, "bucket", getenv("WORKSPACE_BUCKET"), "Workspace bucket. Defaults to $WORKSPACE_BUCKET.")
	fs.StringVar(&c.Python, "python", "python3", "Python interpreter with MetaXcan's dependencies.")
	fs.StringVar(&c.MetaXcanDir, "metaxcan", filepath.Join(home, "MetaXcan"), "MetaXcan checkout.")
	fs.StringVar(&c.ModelsDir, "models", filepath.Join(home, predixcan.ModelsDirName), "Local model directory.")
	fs.StringVar(&c.WorkDir, "workdir", home, "Directory for the S-PrediXcan output.")
	fs.StringVar(&c.TmpDir, "tmp", os.TempDir(), "Directory for the downloaded GWAS file.")
	fs.StringVar(&opts.Project, "project", getenv("GOOGLE_PROJECT"), "Project billed for requester-pays reads. Defaults to $GOOGLE_PROJECT.")
	fs.BoolVar(&opts.Stage, "stage", true, "Copy missing model files from <bucket>/data/"+predixcan.ModelsDirName+"/.")
	fs.IntVar(&opts.TopHits, "top", predixcan.DefaultTopHits, "Number of top genes to print.")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if c.Phecode == "" || c.Population == "" || c.Model == "" || c.Data == "" {
		fs.Usage()
		return nil, fmt.Errorf("--phecode, --pop, --model, and --data are required")
	}

	for _, dir := range []*string{&c.MetaXcanDir, &c.ModelsDir, &c.WorkDir, &c.TmpDir} {
		expanded, err := pwas.ExpandHome(*dir)
		if err != nil {
			return nil, err
		}
		*dir = expanded
	}

	if err := c.Validate(); err != nil {
		fs.Usage()
		return nil, err
	}

	return opts, nil
}
