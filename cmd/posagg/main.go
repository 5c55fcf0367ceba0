// Command posagg aggregates sensor positions from a folder of HDF5 files
// into average_positions.csv and max_distances.csv.
//
// Usage:
//
//	posagg [-config posagg.yaml] [-version] <input_folder> <output_folder>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/anitej-c-501/hdf-position-tracker/internal/app"
	"github.com/anitej-c-501/hdf-position-tracker/internal/config"
	"github.com/anitej-c-501/hdf-position-tracker/internal/container"
	"github.com/anitej-c-501/hdf-position-tracker/internal/container/hdf5"
	apperrors "github.com/anitej-c-501/hdf-position-tracker/internal/errors"
	"github.com/anitej-c-501/hdf-position-tracker/internal/infrastructure"
	"github.com/anitej-c-501/hdf-position-tracker/pkg/contracts"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, hdf5.Open)
	stop()
	os.Exit(code)
}

// run is main without the process globals
func run(ctx context.Context, args []string, stdout, stderr io.Writer, opener container.Opener) int {
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "path to a YAML config file (default posagg.yaml or configs/posagg.yaml)")
	showVersion := fs.Bool("version", false, "print version information and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Process and aggregate HDF5 tracking data.\n\n")
		fmt.Fprintf(stderr, "Usage: %s [-config file] [-version] <input_folder> <output_folder>\n\n", config.AppName)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if *showVersion {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return exitOK
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return exitUsage
	}

	paths, err := config.ResolvePaths(fs.Arg(0), fs.Arg(1))
	if err != nil {
		return fail(stderr, err)
	}

	fmt.Fprintf(stdout, "Input Folder: %s\n", paths.InputDir)
	fmt.Fprintf(stdout, "Output Folder: %s\n", paths.OutputDir)

	cfg, err := config.Load(*configFile)
	if err != nil {
		return fail(stderr, err)
	}

	logger, closeLog, err := infrastructure.CreateLogger(cfg.Logging, stderr)
	if err != nil {
		return fail(stderr, err)
	}
	defer closeLog()

	ctx = infrastructure.WithRunID(ctx, infrastructure.GenerateRunID())
	logger.InfoContext(ctx, "Starting run", "version", contracts.Version, "commit", contracts.GitCommit)
	paths.LogPathResolution(logger)

	tel, err := infrastructure.InitializeTelemetry(ctx, cfg.Telemetry, logger)
	if err != nil {
		return fail(stderr, err)
	}

	_, runErr := app.New(cfg, logger, tel, opener).Run(ctx, paths)

	// flush telemetry even for a failed run
	if err := tel.Shutdown(context.WithoutCancel(ctx)); err != nil {
		infrastructure.WithError(logger, err).WarnContext(ctx, "Telemetry shutdown failed")
	}

	if runErr != nil {
		infrastructure.WithError(logger, runErr).ErrorContext(ctx, "Run failed")
		return fail(stderr, runErr)
	}

	fmt.Fprintln(stdout, "Processing completed successfully.")
	return exitOK
}

// fail prints the error for the user and returns the error exit code
func fail(stderr io.Writer, err error) int {
	msg := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
		if appErr.Cause != nil {
			msg = fmt.Sprintf("%s: %v", msg, appErr.Cause)
		}
	}
	fmt.Fprintf(stderr, "Error: %s\n", msg)
	return exitError
}
