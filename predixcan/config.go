// Package predixcan stages inputs for, runs, and collects the output of
// MetaXcan's SPrediXcan.py for one phenotype, population, and model.
package predixcan

import (
	"fmt"
	"path/filepath"
	"strings"

	pwas "github.com/ckrueger2/mesa-pwas"
)

// Prediction model families and the variant sets they were trained on.
var (
	Models   = []string{"EN", "MASHR", "UDR"}
	DataSets = []string{"cis", "cis_fm", "trans", "trans_fm", "cistrans_fm"}
)

// Input kinds. formatted_mesa is the filtered, MESA-harmonized GWAS file;
// full is the unfiltered export from pullpheno.
const (
	InputFormattedMESA = "formatted_mesa"
	InputFull          = "full"
)

var InputKinds = []string{InputFormattedMESA, InputFull}

// ModelsDirName is the folder holding the model databases, both locally and
// under <bucket>/data/.
const ModelsDirName = "models_for_pwas"

type InvalidOptionError struct {
	Option  string
	Value   string
	Allowed []string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid --%s %q: expected one of %s", e.Option, e.Value, strings.Join(e.Allowed, ", "))
}

type Config struct {
	Phecode    string
	Population string
	Model      string
	Data       string
	InputKind  string

	// Bucket is the workspace bucket, e.g. gs://fc-secure-...
	Bucket string

	Python      string
	MetaXcanDir string
	ModelsDir   string
	WorkDir     string
	TmpDir      string
}

func oneOf(option, value string, allowed []string) error {
	for _, v := range allowed {
		if v == value {
			return nil
		}
	}

	return &InvalidOptionError{Option: option, Value: value, Allowed: allowed}
}

// Validate checks the options. The population is matched case-insensitively
// but is used verbatim in file names, since the model files are named by the
// operator's spelling.
func (c Config) Validate() error {
	if err := pwas.ValidatePhecode(c.Phecode); err != nil {
		return err
	}
	if _, err := pwas.NormalizePopulation(c.Population); err != nil {
		return err
	}
	if err := oneOf("model", c.Model, Models); err != nil {
		return err
	}
	if err := oneOf("data", c.Data, DataSets); err != nil {
		return err
	}
	if err := oneOf("input", c.InputKind, InputKinds); err != nil {
		return err
	}
	if c.Python == "" {
		return fmt.Errorf("no python interpreter configured")
	}

	return nil
}

// InputName is <pop>_<kind>_<phecode>.tsv
func (c Config) InputName() string {
	return fmt.Sprintf("%s_%s_%s.tsv", c.Population, c.InputKind, c.Phecode)
}

func (c Config) RemoteInput() string {
	return pwas.JoinPath(c.Bucket, "data", c.InputName())
}

func (c Config) LocalInput() string {
	return filepath.Join(c.TmpDir, c.InputName())
}

func (c Config) modelFile(suffix string) string {
	return fmt.Sprintf("%s_%s%s", c.Population, c.Model, suffix)
}

func (c Config) ModelDB() string {
	return filepath.Join(c.ModelsDir, c.Model, c.Data, c.modelFile(".db"))
}

func (c Config) Covariance() string {
	return filepath.Join(c.ModelsDir, c.Model, c.Data, c.modelFile("_covariances.txt.gz"))
}

func (c Config) RemoteModelDB() string {
	return pwas.JoinPath(c.Bucket, "data", ModelsDirName, c.Model, c.Data, c.modelFile(".db"))
}

func (c Config) RemoteCovariance() string {
	return pwas.JoinPath(c.Bucket, "data", ModelsDirName, c.Model, c.Data, c.modelFile("_covariances.txt.gz"))
}

// OutputName is <pop>_predixcan_output_<phecode>_<model>_<data>.csv
func (c Config) OutputName() string {
	return fmt.Sprintf("%s_predixcan_output_%s_%s_%s.csv", c.Population, c.Phecode, c.Model, c.Data)
}

func (c Config) Output() string {
	return filepath.Join(c.WorkDir, c.OutputName())
}

func (c Config) RemoteOutput() string {
	return pwas.JoinPath(c.Bucket, "data", c.OutputName())
}

func (c Config) Script() string {
	return filepath.Join(c.MetaXcanDir, "software", "SPrediXcan.py")
}
