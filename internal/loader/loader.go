// Package loader handles ROM file loading operations.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrochip8/chip8"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

// Loader handles loading ROM files from disk into a virtual machine.
type Loader struct {
	logger *log.Logger
}

// New creates a new ROM loader.
func New(logger *log.Logger) *Loader {
	return &Loader{
		logger: logger,
	}
}

// Load reads the ROM file and copies it into the virtual machine memory
// at the program start address. It returns the ROM data so that the
// caller can reload it after a reset.
func (l *Loader) Load(vm *chip8.VM, fileName string) ([]byte, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", fileName, err)
	}
	defer func() { _ = file.Close() }()

	rom, err := l.read(file)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", fileName, err)
	}

	if !isChip8File(fileName) {
		l.logger.Warn("File extension does not indicate a CHIP-8 ROM",
			log.String("file", fileName),
			log.Stringer("system", arch.CHIP8System))
	}

	if err := vm.Load(rom); err != nil {
		return nil, fmt.Errorf("loading ROM: %w", err)
	}

	l.logger.Debug("Loaded ROM",
		log.String("file", fileName),
		log.Int("size", len(rom)),
		log.Hex("address", chip8.ProgramStart))
	return rom, nil
}

// read reads the ROM data, it stops reading one byte after the maximum
// program size so that oversized files are detected without reading them
// completely.
func (l *Loader) read(reader io.Reader) ([]byte, error) {
	rom, err := io.ReadAll(io.LimitReader(reader, chip8.MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}
	if len(rom) == 0 {
		return nil, errors.New("empty ROM file")
	}
	return rom, nil
}

// isChip8File determines from the file extension whether the file is a CHIP-8 ROM.
func isChip8File(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".ch8", ".c8", ".rom":
		return true
	default:
		return false
	}
}
