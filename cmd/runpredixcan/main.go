package main

import (
	"context"
	"os"

	pwas "github.com/ckrueger2/mesa-pwas"
	_ "github.com/ckrueger2/mesa-pwas/compileinfoprint"
	"github.com/ckrueger2/mesa-pwas/objstore"
	"github.com/ckrueger2/mesa-pwas/predixcan"
	log "github.com/sirupsen/logrus"
)

func main() {
	pwas.ConfigureLogging()

	opts, err := parseFlags(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		log.Fatalln(err)
	}

	remote := &objstore.Router{UserProject: opts.Project}
	defer remote.Close()

	runner := &predixcan.Runner{
		Remote:      remote,
		Exec:        predixcan.ProcessExecutor{Stdout: os.Stdout, Stderr: os.Stderr},
		StageModels: opts.Stage,
		TopHits:     opts.TopHits,
	}

	result, err := runner.Run(context.Background(), opts.Config)
	if err != nil {
		log.Fatalln("ERROR:", err)
	}

	if err := result.Summary.Fprint(os.Stdout); err != nil {
		log.Fatalln(err)
	}

	log.Println("S-PrediXcan analysis completed successfully")
}
