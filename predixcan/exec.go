package predixcan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Executor runs one external command to completion.
type Executor interface {
	Run(ctx context.Context, dir string, argv []string) error
}

type ExitError struct {
	Code    int
	Command []string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("SPrediXcan.py failed with exit code %d (%s)", e.Code, strings.Join(e.Command, " "))
}

// ProcessExecutor runs commands as child processes, streaming their output.
type ProcessExecutor struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (p ProcessExecutor) Run(ctx context.Context, dir string, argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode(), Command: argv}
	} else if err != nil {
		return fmt.Errorf("starting %s: %w", argv[0], err)
	}

	return nil
}
