package predixcan

import (
	"context"
	"errors"
	"fmt"

	"github.com/carbocation/pfx"
	"github.com/ckrueger2/mesa-pwas/objstore"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultAlpha   = 0.05
	DefaultTopHits = 10
)

// Runner carries one phenotype through SPrediXcan.py: fetch the GWAS file,
// make sure the model artifacts are on local disk, run the tool once, and
// upload its output next to the input.
type Runner struct {
	// Remote holds the workspace bucket. Local paths always go through the
	// local filesystem, because the external tool reads them directly.
	Remote objstore.Store
	Exec   Executor

	// StageModels copies missing model artifacts from
	// <bucket>/data/models_for_pwas/ before running.
	StageModels bool

	Alpha   float64
	TopHits int
}

type Result struct {
	Config  Config
	Model   ModelSummary
	Output  string
	Upload  string
	Summary *Summary
}

func (r *Runner) Run(ctx context.Context, c Config) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	local := objstore.Local{}

	log.Printf("Fetching %s\n", c.RemoteInput())
	if _, err := objstore.Copy(ctx, r.Remote, c.RemoteInput(), local, c.LocalInput()); err != nil {
		if errors.Is(err, objstore.ErrNotExist) {
			return nil, fmt.Errorf("GWAS input %s was not found; run the export and formatting steps for phenotype %s first", c.RemoteInput(), c.Phecode)
		}
		return nil, pfx.Err(err)
	}
	defer func() {
		if err := local.Remove(ctx, c.LocalInput()); err != nil {
			log.Warnln("Could not remove", c.LocalInput(), err)
		}
	}()

	if err := r.stage(ctx, c); err != nil {
		return nil, err
	}

	model, err := InspectModelDB(c.ModelDB())
	if err != nil {
		return nil, pfx.Err(err)
	}
	log.Printf("Model %s: %s\n", c.ModelDB(), model)

	log.Println("Running S-PrediXcan...")
	if err := r.Exec.Run(ctx, c.WorkDir, Command(c)); err != nil {
		return nil, err
	}

	if exists, err := local.Exists(ctx, c.Output()); err != nil {
		return nil, pfx.Err(err)
	} else if !exists {
		return nil, fmt.Errorf("SPrediXcan.py exited cleanly but wrote no output at %s", c.Output())
	}

	log.Printf("Uploading results to %s\n", c.RemoteOutput())
	if _, err := objstore.Copy(ctx, local, c.Output(), r.Remote, c.RemoteOutput()); err != nil {
		return nil, pfx.Err(err)
	}

	summary, err := r.summarize(ctx, c)
	if err != nil {
		return nil, err
	}

	return &Result{
		Config:  c,
		Model:   model,
		Output:  c.Output(),
		Upload:  c.RemoteOutput(),
		Summary: summary,
	}, nil
}

func (r *Runner) stage(ctx context.Context, c Config) error {
	local := objstore.Local{}

	artifacts := []struct{ local, remote string }{
		{c.ModelDB(), c.RemoteModelDB()},
		{c.Covariance(), c.RemoteCovariance()},
	}

	for _, a := range artifacts {
		exists, err := local.Exists(ctx, a.local)
		if err != nil {
			return pfx.Err(err)
		}
		if exists {
			continue
		}

		if !r.StageModels {
			return fmt.Errorf("model artifact %s is missing; copy %s/data/%s/ to the workspace or enable staging", a.local, c.Bucket, ModelsDirName)
		}

		log.Printf("Staging %s\n", a.remote)
		if _, err := objstore.Copy(ctx, r.Remote, a.remote, local, a.local); err != nil {
			return pfx.Err(err)
		}
	}

	return nil
}

func (r *Runner) summarize(ctx context.Context, c Config) (*Summary, error) {
	f, err := objstore.Local{}.NewReader(ctx, c.Output())
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	records, err := ReadAssociations(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", c.Output(), err)
	}

	alpha, top := r.Alpha, r.TopHits
	if alpha <= 0 {
		alpha = DefaultAlpha
	}
	if top <= 0 {
		top = DefaultTopHits
	}

	return Summarize(records, alpha, top), nil
}
