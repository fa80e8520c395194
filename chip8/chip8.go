package chip8

import (
	"fmt"
	"math/rand"
	"time"
)

// CHIP-8 memory layout and machine constants.
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 0x1000

	// ProgramStart is the address programs are loaded to and start executing at.
	ProgramStart = 0x200

	// MaxProgramSize is the largest ROM that fits into memory.
	MaxProgramSize = MemorySize - ProgramStart

	// RegisterCount is the number of general purpose V registers.
	RegisterCount = 16

	// KeyCount is the number of keys on the hexadecimal keypad.
	KeyCount = 16

	// FlagRegister is the index of VF, the carry, borrow and collision flag.
	FlagRegister = 0xF

	opcodeSize = 2
)

// RandomSource provides the random numbers for the Cxnn instruction.
// *rand.Rand satisfies it.
type RandomSource interface {
	Uint32() uint32
}

// Option configures a VM.
type Option func(*VM)

// WithRandom sets the random number source, tests use it to make
// the Cxnn instruction deterministic.
func WithRandom(source RandomSource) Option {
	return func(vm *VM) {
		vm.random = source
	}
}

// VM is a CHIP-8 virtual machine. It is not safe for concurrent use,
// the host has to serialize all calls.
type VM struct {
	memory    [MemorySize]byte
	registers [RegisterCount]uint8
	index     uint16
	pc        uint16
	stack     Stack
	delay     uint8
	sound     uint8
	keys      [KeyCount]bool
	display   Framebuffer

	random RandomSource
	halted error
}

// New returns a new virtual machine in its initial state.
func New(options ...Option) *VM {
	vm := &VM{}
	for _, option := range options {
		option(vm)
	}
	if vm.random == nil {
		vm.random = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // not used for security
	}
	vm.Reset()
	return vm
}

// Reset restores the initial state: memory is cleared except for the font,
// the program counter points to the program start and all registers,
// timers, keys, the stack and the display are zeroed.
func (vm *VM) Reset() {
	vm.memory = [MemorySize]byte{}
	copy(vm.memory[FontStart:], font[:])
	vm.registers = [RegisterCount]uint8{}
	vm.index = 0
	vm.pc = ProgramStart
	vm.stack = Stack{}
	vm.delay = 0
	vm.sound = 0
	vm.keys = [KeyCount]bool{}
	vm.display.clear()
	vm.halted = nil
}

// Load copies the ROM into memory starting at ProgramStart.
// The machine state is unchanged if the ROM does not fit.
func (vm *VM) Load(rom []byte) error {
	if len(rom) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrROMTooLarge, len(rom), MaxProgramSize)
	}
	copy(vm.memory[ProgramStart:], rom)
	return nil
}

// Step executes a single instruction. A returned error is fatal: the
// failed instruction has no effect, the machine is halted and returns
// the same error until it is reset.
func (vm *VM) Step() error {
	if vm.halted != nil {
		return vm.halted
	}

	address := vm.pc
	opcode, err := vm.fetch()
	if err == nil {
		err = vm.execute(opcode)
	}
	if err != nil {
		vm.pc = address
		vm.halted = &ExecutionError{
			Address: address,
			Opcode:  opcode,
			Err:     err,
		}
		return vm.halted
	}
	return nil
}

// TickTimers decrements the delay and sound timers, it has to be called
// at 60 Hz independent of the instruction rate. It returns true when the
// sound timer expired on this tick and a beep should be played.
func (vm *VM) TickTimers() bool {
	if vm.delay > 0 {
		vm.delay--
	}
	if vm.sound > 0 {
		vm.sound--
		return vm.sound == 0
	}
	return false
}

// SetKey updates the pressed state of a keypad key.
func (vm *VM) SetKey(key uint8, pressed bool) error {
	if key >= KeyCount {
		return fmt.Errorf("%w: %X", ErrInvalidKey, key)
	}
	vm.keys[key] = pressed
	return nil
}

// Key returns whether the keypad key is pressed.
func (vm *VM) Key(key uint8) bool {
	if key >= KeyCount {
		return false
	}
	return vm.keys[key]
}

// Display returns a snapshot of the framebuffer.
func (vm *VM) Display() Framebuffer {
	return vm.display
}

// PC returns the program counter.
func (vm *VM) PC() uint16 {
	return vm.pc
}

// Index returns the index register I.
func (vm *VM) Index() uint16 {
	return vm.index
}

// Register returns the value of register Vx, x is masked to 0-F.
func (vm *VM) Register(x uint8) uint8 {
	return vm.registers[x&0xF]
}

// Registers returns a copy of all V registers.
func (vm *VM) Registers() [RegisterCount]uint8 {
	return vm.registers
}

// DelayTimer returns the delay timer value.
func (vm *VM) DelayTimer() uint8 {
	return vm.delay
}

// SoundTimer returns the sound timer value.
func (vm *VM) SoundTimer() uint8 {
	return vm.sound
}

// StackDepth returns the number of return addresses on the call stack.
func (vm *VM) StackDepth() int {
	return vm.stack.Len()
}

// Halted returns the fatal error that stopped the machine, or nil.
func (vm *VM) Halted() error {
	return vm.halted
}

// ReadMemory returns the byte at the given address.
func (vm *VM) ReadMemory(address uint16) (byte, error) {
	if int(address) >= MemorySize {
		return 0, fmt.Errorf("%w: $%04X", ErrAddressOutOfRange, address)
	}
	return vm.memory[address], nil
}

// Opcode returns the opcode at the program counter without executing it.
func (vm *VM) Opcode() (uint16, error) {
	return vm.readOpcode(vm.pc)
}

func (vm *VM) readOpcode(address uint16) (uint16, error) {
	if int(address)+1 >= MemorySize {
		return 0, fmt.Errorf("%w: pc $%04X", ErrAddressOutOfRange, address)
	}
	return uint16(vm.memory[address])<<8 | uint16(vm.memory[address+1]), nil
}

// fetch reads the opcode at the program counter and advances it.
func (vm *VM) fetch() (uint16, error) {
	opcode, err := vm.readOpcode(vm.pc)
	if err != nil {
		return 0, err
	}
	vm.pc += opcodeSize
	return opcode, nil
}

// memoryRange returns the memory slice [address, address+length) used as
// source of a read.
func (vm *VM) memoryRange(address uint16, length int) ([]byte, error) {
	end := int(address) + length
	if end > MemorySize {
		return nil, fmt.Errorf("%w: $%04X-$%04X", ErrAddressOutOfRange, address, end-1)
	}
	return vm.memory[address:end], nil
}

// writableRange is like memoryRange but also protects the font glyphs.
func (vm *VM) writableRange(address uint16, length int) ([]byte, error) {
	if int(address) < fontEnd && length > 0 && int(address)+length > FontStart {
		return nil, fmt.Errorf("%w: $%04X", ErrProtectedWrite, address)
	}
	return vm.memoryRange(address, length)
}
