package main

import (
	"context"
	"os"

	"cloud.google.com/go/bigquery"
	pwas "github.com/ckrueger2/mesa-pwas"
	_ "github.com/ckrueger2/mesa-pwas/compileinfoprint"
	"github.com/ckrueger2/mesa-pwas/objstore"
	"github.com/ckrueger2/mesa-pwas/phenotable"
	"github.com/ckrueger2/mesa-pwas/phenotable/bqstore"
	"github.com/ckrueger2/mesa-pwas/phenotable/filestore"
	log "github.com/sirupsen/logrus"
)

func main() {
	pwas.ConfigureLogging()

	opts, err := parseFlags(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		log.Fatalln(err)
	}

	if opts.Bucket == "" {
		log.Warnln("No destination bucket; set WORKSPACE_BUCKET or pass --bucket. Writing under /data/")
	}

	ref, err := phenotable.NewRef(opts.Population, opts.Phecode)
	if err != nil {
		log.Fatalln(err)
	}

	ctx := context.Background()

	objects := &objstore.Router{UserProject: opts.Project}
	defer objects.Close()

	tables, err := openTables(ctx, opts, objects)
	if err != nil {
		log.Fatalln(err)
	}

	exporter := &phenotable.Exporter{
		Tables:      tables,
		Objects:     objects,
		Bucket:      opts.Bucket,
		DropKey:     opts.DropKey,
		NoClobber:   opts.NoClobber,
		PreviewRows: opts.PreviewRows,
	}

	report, err := exporter.Export(ctx, ref)
	if err != nil {
		log.Fatalln(err)
	}

	if err := report.Fprint(os.Stdout); err != nil {
		log.Fatalln(err)
	}
}

func openTables(ctx context.Context, opts *options, objects objstore.Store) (phenotable.Store, error) {
	if opts.Backend != BackendBigQuery {
		return &filestore.Store{Objects: objects, Base: opts.Base}, nil
	}

	client, err := bigquery.NewClient(ctx, opts.BQProject)
	if err != nil {
		return nil, err
	}

	return &bqstore.Store{BQ: &bqstore.WrappedBigQuery{
		Client:  client,
		Project: opts.BQProject,
		Dataset: opts.BQDataset,
	}}, nil
}
