// Package fileprocessor handles the complete workflow of running a ROM file.
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/chip8"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrochip8/internal/verification"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile loads the ROM file, runs it and writes or verifies the final framebuffer.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program) error {
	keyEvents, err := runner.ParseKeyEvents(opts.Keys)
	if err != nil {
		return fmt.Errorf("parsing key events: %w", err)
	}

	vm := chip8.New()
	rom, err := loader.New(logger).Load(vm, opts.Input)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}

	cfg := runner.Config{
		Frames:               opts.Frames,
		InstructionsPerFrame: opts.InstructionsPerFrame,
		Realtime:             opts.Realtime,
		Trace:                opts.Trace,
		KeyEvents:            keyEvents,
	}
	r := runner.New(logger, vm, rom, cfg)

	summary, err := r.Run(ctx)
	logger.Info("Run finished",
		log.Int("frames", summary.Frames),
		log.Int("instructions", summary.Instructions),
		log.Int("beeps", summary.Beeps))
	if err != nil {
		return fmt.Errorf("running ROM: %w", err)
	}

	display := vm.Display()
	if err := writeDisplay(opts, display); err != nil {
		return fmt.Errorf("writing framebuffer: %w", err)
	}
	logger.Debug("Framebuffer", log.String("digest", verification.Digest(display)))

	if opts.Expect != "" {
		if err := verification.VerifyDisplay(logger, display, opts.Expect); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		logger.Info("Verification successful")
	}

	return nil
}

// writeDisplay writes the text dump of the framebuffer to the output file
// or to the console if no output file is set.
func writeDisplay(opts options.Program, display chip8.Framebuffer) error {
	writer, err := createWriter(opts)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(writer, display.String()); err != nil {
		_ = writer.Close()
		return fmt.Errorf("writing output: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	return nil
}

// createWriter returns the output file, the console is wrapped so that
// closing the writer leaves it open.
func createWriter(opts options.Program) (io.WriteCloser, error) {
	if opts.Output == "" {
		return &nopCloser{os.Stdout}, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("retrochip8",
		log.String("version", buildinfo.Version(version, commit, date)),
		log.Stringer("system", arch.CHIP8System))
}

// nopCloser wraps an io.Writer to add a no-op Close method
type nopCloser struct {
	io.Writer
}

func (nc *nopCloser) Close() error {
	return nil
}
