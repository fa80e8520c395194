package chip8

import (
	"errors"
	"fmt"
)

// Errors returned by the virtual machine. Step errors are wrapped in an
// ExecutionError, use errors.Is to test for a specific cause.
var (
	ErrROMTooLarge       = errors.New("rom exceeds program memory")
	ErrUnsupportedOpcode = errors.New("unsupported opcode")
	ErrStackOverflow     = errors.New("stack overflow")
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrAddressOutOfRange = errors.New("address out of range")
	ErrProtectedWrite    = errors.New("write to font memory")
	ErrInvalidKey        = errors.New("invalid key")
)

// ExecutionError is a fatal error raised while executing an instruction.
// The machine stays halted until it is reset.
type ExecutionError struct {
	Address uint16 // address the opcode was fetched from
	Opcode  uint16
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("executing opcode %04X at $%03X: %v", e.Opcode, e.Address, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
