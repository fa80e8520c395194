// Package chip8 implements a CHIP-8 virtual machine.
//
// # Architecture Overview
//
// CHIP-8 is an interpreted programming language developed in the 1970s for
// simple games on early microcomputers. The virtual machine consists of:
//   - 4KB of memory (0x000-0xFFF), programs are loaded at ProgramStart (0x200)
//   - 16 general purpose 8-bit registers V0-VF, VF doubles as flag register
//   - a 16-bit index register I and the program counter
//   - a call stack holding up to StackSize return addresses
//   - delay and sound timers decremented at 60 Hz
//   - a 64x32 monochrome display and a 16 key hexadecimal keypad
//
// # Memory Layout
//
//	0x000-0x04F: Font glyphs for the digits 0-F, 5 bytes each
//	0x050-0x1FF: Reserved interpreter area
//	0x200-0xFFF: Program and data
//
// # Host Interface
//
// The machine does no I/O on its own. A host drives it by calling Step at
// the instruction rate and TickTimers at 60 Hz, forwards key changes with
// SetKey and renders the framebuffer returned by Display:
//
//	vm := chip8.New()
//	if err := vm.Load(rom); err != nil {
//		return err
//	}
//	for {
//		for i := 0; i < instructionsPerFrame; i++ {
//			if err := vm.Step(); err != nil {
//				return err
//			}
//		}
//		beep := vm.TickTimers()
//		render(vm.Display(), beep)
//	}
//
// The wait for key instruction Fx0A does not block. It leaves the program
// counter on itself until a key is pressed, so the host loop keeps running.
//
// Errors returned by Step are fatal. They are of type *ExecutionError and
// wrap one of the package sentinel errors.
package chip8
