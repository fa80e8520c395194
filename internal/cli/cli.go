// Package cli handles command line interface logic
package cli

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
)

// ParseFlags parses command line flags and returns the program options.
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		usageErr := &UsageError{flags: flags}
		if err != nil && !errors.Is(err, flag.ErrHelp) {
			usageErr.msg = err.Error()
		}
		return opts, usageErr
	}

	if err := validateArgs(args); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	if opts.Input == "" {
		opts.Input = args[0]
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] <ROM file to run>\n\n")
	e.flags.SetOutput(os.Stdout)
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return fmt.Errorf("potential argument %s found after ROM file, please pass the ROM file as last argument", arg)
		}
	}
	if len(args) > 1 {
		return fmt.Errorf("only one ROM file can be run, got %d", len(args))
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	if opts.InstructionsPerFrame < 1 {
		return fmt.Errorf("invalid instructions per frame %d, must be at least 1", opts.InstructionsPerFrame)
	}
	if opts.Frames < 0 {
		return fmt.Errorf("invalid frame count %d, must not be negative", opts.Frames)
	}

	opts.Keys = strings.ReplaceAll(opts.Keys, " ", "")

	opts.Expect = strings.ToLower(strings.TrimSpace(opts.Expect))
	if opts.Expect != "" {
		digest, err := hex.DecodeString(opts.Expect)
		if err != nil || len(digest) != 32 {
			return fmt.Errorf("invalid expected digest '%s', must be a hex encoded SHA-256 hash", opts.Expect)
		}
	}

	if opts.Realtime && opts.Frames == 0 && opts.Expect != "" {
		return errors.New("verifying a digest requires a frame count when running in realtime")
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.StringVar(&opts.Output, "o", "", "name of the output file for the final framebuffer, printed on console if no name given")
	flags.IntVar(&opts.Frames, "frames", 0, "number of 60 Hz frames to run, 0 runs until the program halts or is interrupted")
	flags.IntVar(&opts.InstructionsPerFrame, "ipf", options.DefaultInstructionsPerFrame, "instructions executed per frame")
	flags.BoolVar(&opts.Realtime, "realtime", false, "pace the frames at 60 Hz instead of running as fast as possible")
	flags.StringVar(&opts.Keys, "keys", "", "scripted key events as frame:key+, frame:key- or frame:R to restart, comma separated, for example 30:5+,45:5-")
	flags.StringVar(&opts.Expect, "expect", "", "expected SHA-256 digest of the final framebuffer, exits with an error on mismatch")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
