// Package options contains the program options.
package options

// DefaultInstructionsPerFrame is the number of instructions executed
// between two 60 Hz timer ticks, roughly 600 instructions per second.
const DefaultInstructionsPerFrame = 10

// Positional contains positional arguments.
type Positional struct {
	File string `arg:"positional" usage:"ROM file to run"`
}

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input ROM file"`
	Output string `flag:"o" usage:"output file for the final framebuffer (default: stdout)"`
}

// Flags contains behavior options.
type Flags struct {
	Frames               int    `flag:"frames" usage:"number of frames to run, 0 runs until the program halts"`
	InstructionsPerFrame int    `flag:"ipf" usage:"instructions executed per 60 Hz frame" default:"10"`
	Realtime             bool   `flag:"realtime" usage:"pace the frames at 60 Hz"`
	Keys                 string `flag:"keys" usage:"scripted key events, e.g. 30:5+,45:5-,90:R"`
	Expect               string `flag:"expect" usage:"expected SHA-256 digest of the final framebuffer"`
	Trace                bool   `flag:"trace" usage:"log every executed instruction"`
	Debug                bool   `flag:"debug" usage:"enable debug logging"`
	Quiet                bool   `flag:"q" usage:"quiet mode"`
}

// Program options of the runner.
type Program struct {
	Parameters
	Flags
}
