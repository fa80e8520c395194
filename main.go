// Package main implements the main entry point for a headless CHIP-8 runner
package main

import (
	"context"
	"errors"
	"os"

	"github.com/retroenv/retrochip8/internal/cli"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/fileprocessor"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	os.Exit(run(app.Context()))
}

// run executes the program for the command line in os.Args and returns
// the process exit code.
func run(ctx context.Context) int {
	opts, err := cli.ParseFlags()
	logger := config.CreateLogger(opts.Debug, opts.Quiet, opts.Trace)
	if err != nil {
		var usageErr *cli.UsageError
		if !errors.As(err, &usageErr) {
			logger.Error("Invalid options", log.Err(err))
			return 1
		}

		fileprocessor.PrintBanner(logger, opts, version, commit, date)
		if msg := usageErr.Error(); msg != "" {
			logger.Error(msg)
		}
		usageErr.ShowUsage()
		return 1
	}

	fileprocessor.PrintBanner(logger, opts, version, commit, date)

	err = fileprocessor.ProcessFile(ctx, logger, opts)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		logger.Info("Run cancelled")
		return 0
	default:
		logger.Error("Running ROM failed", log.Err(err))
		return 1
	}
}
