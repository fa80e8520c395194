// Package mnemonic formats CHIP-8 opcodes as assembly mnemonics.
// It is used to trace the instructions executed by the virtual machine.
package mnemonic

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Lookup returns the instruction that the opcode encodes,
// or nil if the opcode is not a valid CHIP-8 instruction.
func Lookup(opcode uint16) *chip8.Instruction {
	firstNibble := (opcode & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&opcode == op.Info.Value {
			return op.Instruction
		}
	}
	return nil
}

// Format returns the assembly representation of the opcode, for example
// "drw V2, V3, $5". Opcodes that do not encode an instruction are
// formatted as a data word.
func Format(opcode uint16) string {
	ins := Lookup(opcode)
	if ins == nil {
		return fmt.Sprintf("dw $%04X", opcode)
	}

	if params := formatParams(ins.Name, opcode); params != "" {
		return fmt.Sprintf("%s %s", ins.Name, params)
	}
	return ins.Name
}

// formatParams formats the parameters of the named instruction.
func formatParams(name string, opcode uint16) string {
	x := registerX(opcode)

	switch name {
	case chip8.Cls.Name, chip8.Ret.Name:
		return ""
	case chip8.Jp.Name:
		if opcode&0xF000 == 0xB000 {
			return fmt.Sprintf("V0, $%03X", opcode&0x0FFF)
		}
		return fmt.Sprintf("$%03X", opcode&0x0FFF)
	case chip8.Call.Name:
		return fmt.Sprintf("$%03X", opcode&0x0FFF)
	case chip8.Se.Name, chip8.Sne.Name:
		return formatCompare(opcode)
	case chip8.Ld.Name:
		return formatLoad(opcode)
	case chip8.Add.Name:
		return formatAdd(opcode)
	case chip8.Or.Name, chip8.And.Name, chip8.Xor.Name, chip8.Sub.Name, chip8.Subn.Name:
		return fmt.Sprintf("V%X, V%X", x, registerY(opcode))
	case chip8.Shr.Name, chip8.Shl.Name, chip8.Skp.Name, chip8.Sknp.Name:
		return fmt.Sprintf("V%X", x)
	case chip8.Rnd.Name:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case chip8.Drw.Name:
		return fmt.Sprintf("V%X, V%X, $%X", x, registerY(opcode), opcode&0x000F)
	}
	return ""
}

// formatCompare formats SE/SNE with a byte or register operand.
func formatCompare(opcode uint16) string {
	x := registerX(opcode)
	switch opcode & 0xF000 {
	case 0x3000, 0x4000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x5000, 0x9000:
		return fmt.Sprintf("V%X, V%X", x, registerY(opcode))
	}
	return ""
}

// formatLoad formats the many forms of LD.
func formatLoad(opcode uint16) string {
	x := registerX(opcode)
	switch opcode & 0xF000 {
	case 0x6000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", x, registerY(opcode))
	case 0xA000:
		return fmt.Sprintf("I, $%03X", opcode&0x0FFF)
	case 0xF000:
		switch opcode & 0x00FF {
		case 0x07:
			return fmt.Sprintf("V%X, DT", x)
		case 0x0A:
			return fmt.Sprintf("V%X, K", x)
		case 0x15:
			return fmt.Sprintf("DT, V%X", x)
		case 0x18:
			return fmt.Sprintf("ST, V%X", x)
		case 0x29:
			return fmt.Sprintf("F, V%X", x)
		case 0x33:
			return fmt.Sprintf("B, V%X", x)
		case 0x55:
			return fmt.Sprintf("[I], V%X", x)
		case 0x65:
			return fmt.Sprintf("V%X, [I]", x)
		}
	}
	return ""
}

// formatAdd formats ADD with a byte, register or index operand.
func formatAdd(opcode uint16) string {
	x := registerX(opcode)
	switch opcode & 0xF000 {
	case 0x7000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", x, registerY(opcode))
	case 0xF000:
		return fmt.Sprintf("I, V%X", x)
	}
	return ""
}

func registerX(opcode uint16) uint16 {
	return (opcode & 0x0F00) >> 8
}

func registerY(opcode uint16) uint16 {
	return (opcode & 0x00F0) >> 4
}
