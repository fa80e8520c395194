package chip8

// instruction holds the fields decoded from an opcode.
type instruction struct {
	opcode uint16
	kind   uint8  // highest nibble, selects the instruction family
	x      uint8  // second nibble, register index
	y      uint8  // third nibble, register index
	n      uint8  // lowest nibble
	nn     uint8  // low byte
	nnn    uint16 // low 12 bits
}

func decode(opcode uint16) instruction {
	return instruction{
		opcode: opcode,
		kind:   uint8(opcode >> 12),
		x:      uint8(opcode>>8) & 0xF,
		y:      uint8(opcode>>4) & 0xF,
		n:      uint8(opcode) & 0xF,
		nn:     uint8(opcode),
		nnn:    opcode & 0x0FFF,
	}
}

// execute runs a fetched opcode, the program counter already points to
// the following instruction.
func (vm *VM) execute(opcode uint16) error {
	ins := decode(opcode)

	switch ins.kind {
	case 0x0:
		return vm.executeSystem(ins)

	case 0x1: // JP addr
		vm.pc = ins.nnn

	case 0x2: // CALL addr
		if err := vm.stack.Push(vm.pc); err != nil {
			return err
		}
		vm.pc = ins.nnn

	case 0x3: // SE Vx, byte
		vm.skipIf(vm.registers[ins.x] == ins.nn)

	case 0x4: // SNE Vx, byte
		vm.skipIf(vm.registers[ins.x] != ins.nn)

	case 0x5: // SE Vx, Vy
		if ins.n != 0 {
			return ErrUnsupportedOpcode
		}
		vm.skipIf(vm.registers[ins.x] == vm.registers[ins.y])

	case 0x6: // LD Vx, byte
		vm.registers[ins.x] = ins.nn

	case 0x7: // ADD Vx, byte
		vm.registers[ins.x] += ins.nn

	case 0x8:
		return vm.executeArithmetic(ins)

	case 0x9: // SNE Vx, Vy
		if ins.n != 0 {
			return ErrUnsupportedOpcode
		}
		vm.skipIf(vm.registers[ins.x] != vm.registers[ins.y])

	case 0xA: // LD I, addr
		vm.index = ins.nnn

	case 0xB: // JP V0, addr
		vm.pc = uint16(vm.registers[0]) + ins.nnn

	case 0xC: // RND Vx, byte
		vm.registers[ins.x] = uint8(vm.random.Uint32()) & ins.nn

	case 0xD: // DRW Vx, Vy, nibble
		return vm.draw(ins)

	case 0xE:
		return vm.executeKey(ins)

	case 0xF:
		return vm.executeMisc(ins)
	}
	return nil
}

func (vm *VM) skipIf(condition bool) {
	if condition {
		vm.pc += opcodeSize
	}
}

func (vm *VM) executeSystem(ins instruction) error {
	switch ins.opcode {
	case 0x00E0: // CLS
		vm.display.clear()

	case 0x00EE: // RET
		address, err := vm.stack.Pop()
		if err != nil {
			return err
		}
		vm.pc = address

	default:
		return ErrUnsupportedOpcode
	}
	return nil
}

// executeArithmetic handles the 8xyN register to register operations.
// Operations that define VF write it after the result.
func (vm *VM) executeArithmetic(ins instruction) error {
	vx := vm.registers[ins.x]
	vy := vm.registers[ins.y]

	switch ins.n {
	case 0x0: // LD Vx, Vy
		vm.registers[ins.x] = vy

	case 0x1: // OR Vx, Vy
		vm.registers[ins.x] = vx | vy

	case 0x2: // AND Vx, Vy
		vm.registers[ins.x] = vx & vy

	case 0x3: // XOR Vx, Vy
		vm.registers[ins.x] = vx ^ vy

	case 0x4: // ADD Vx, Vy
		sum := uint16(vx) + uint16(vy)
		vm.registers[ins.x] = uint8(sum)
		vm.registers[FlagRegister] = boolToFlag(sum > 0xFF)

	case 0x5: // SUB Vx, Vy
		vm.registers[ins.x] = vx - vy
		vm.registers[FlagRegister] = boolToFlag(vx >= vy)

	case 0x6: // SHR Vx
		vm.registers[ins.x] = vx >> 1
		vm.registers[FlagRegister] = vx & 0x01

	case 0x7: // SUBN Vx, Vy
		vm.registers[ins.x] = vy - vx
		vm.registers[FlagRegister] = boolToFlag(vy >= vx)

	case 0xE: // SHL Vx
		vm.registers[ins.x] = vx << 1
		vm.registers[FlagRegister] = vx >> 7

	default:
		return ErrUnsupportedOpcode
	}
	return nil
}

func (vm *VM) draw(ins instruction) error {
	rows, err := vm.memoryRange(vm.index, int(ins.n))
	if err != nil {
		return err
	}
	collision := vm.display.drawSprite(int(vm.registers[ins.x]), int(vm.registers[ins.y]), rows)
	vm.registers[FlagRegister] = boolToFlag(collision)
	return nil
}

func (vm *VM) executeKey(ins instruction) error {
	if ins.nn != 0x9E && ins.nn != 0xA1 {
		return ErrUnsupportedOpcode
	}
	key := vm.registers[ins.x]
	if key >= KeyCount {
		return ErrInvalidKey
	}

	if ins.nn == 0x9E { // SKP Vx
		vm.skipIf(vm.keys[key])
	} else { // SKNP Vx
		vm.skipIf(!vm.keys[key])
	}
	return nil
}

func (vm *VM) executeMisc(ins instruction) error {
	vx := vm.registers[ins.x]

	switch ins.nn {
	case 0x07: // LD Vx, DT
		vm.registers[ins.x] = vm.delay

	case 0x0A: // LD Vx, K
		vm.waitForKey(ins.x)

	case 0x15: // LD DT, Vx
		vm.delay = vx

	case 0x18: // LD ST, Vx
		vm.sound = vx

	case 0x1E: // ADD I, Vx
		vm.index += uint16(vx)

	case 0x29: // LD F, Vx
		vm.index = FontStart + uint16(vx)*GlyphSize

	case 0x33: // LD B, Vx
		mem, err := vm.writableRange(vm.index, 3)
		if err != nil {
			return err
		}
		mem[0] = vx / 100
		mem[1] = vx / 10 % 10
		mem[2] = vx % 10

	case 0x55: // LD [I], Vx
		mem, err := vm.writableRange(vm.index, int(ins.x)+1)
		if err != nil {
			return err
		}
		copy(mem, vm.registers[:ins.x+1])

	case 0x65: // LD Vx, [I]
		mem, err := vm.memoryRange(vm.index, int(ins.x)+1)
		if err != nil {
			return err
		}
		copy(vm.registers[:ins.x+1], mem)

	default:
		return ErrUnsupportedOpcode
	}
	return nil
}

// waitForKey stores the lowest pressed key in Vx. Without a pressed key
// the program counter is moved back so that the next step executes the
// instruction again.
func (vm *VM) waitForKey(x uint8) {
	for key, pressed := range vm.keys {
		if pressed {
			vm.registers[x] = uint8(key)
			return
		}
	}
	vm.pc -= opcodeSize
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
