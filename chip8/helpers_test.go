package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// fixedRandom is a RandomSource that always returns the same value.
type fixedRandom uint32

func (f fixedRandom) Uint32() uint32 {
	return uint32(f)
}

// newTestVM returns a machine with the given opcodes loaded at the program start.
func newTestVM(t *testing.T, opcodes ...uint16) *VM {
	t.Helper()

	rom := make([]byte, 0, len(opcodes)*2)
	for _, op := range opcodes {
		rom = append(rom, byte(op>>8), byte(op))
	}

	vm := New(WithRandom(fixedRandom(0xA5)))
	assert.NoError(t, vm.Load(rom))
	return vm
}

// steps executes the given number of instructions, failing the test on error.
func steps(t *testing.T, vm *VM, count int) {
	t.Helper()

	for i := 0; i < count; i++ {
		assert.NoError(t, vm.Step())
	}
}
