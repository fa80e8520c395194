// Package runner implements the headless host loop that drives the
// virtual machine at a fixed instruction rate with 60 Hz timer ticks.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/chip8"
	"github.com/retroenv/retrochip8/internal/mnemonic"
	"github.com/retroenv/retrogolib/log"
)

// FrameRate is the timer tick rate in Hz.
const FrameRate = 60

// FrameDuration is the duration of a single frame in realtime mode.
const FrameDuration = time.Second / FrameRate

// Config controls a run.
type Config struct {
	Frames               int // frames to run, 0 runs until the program stops
	InstructionsPerFrame int
	Realtime             bool // pace frames at FrameRate
	Trace                bool // log every executed instruction
	KeyEvents            []KeyEvent
}

// StopReason describes why a run ended without an error.
type StopReason int

// Reasons a run ends.
const (
	FrameLimit    StopReason = iota // configured number of frames executed
	IdleLoop                        // program jumped to its own address
	WaitingForKey                   // program waits for a key that will never be pressed
)

func (r StopReason) String() string {
	switch r {
	case FrameLimit:
		return "frame limit"
	case IdleLoop:
		return "idle loop"
	case WaitingForKey:
		return "waiting for key"
	default:
		return fmt.Sprintf("StopReason(%d)", int(r))
	}
}

// Summary contains the statistics of a run.
type Summary struct {
	Frames       int
	Instructions int
	Beeps        int
	Reason       StopReason
}

// Runner drives a virtual machine.
type Runner struct {
	logger *log.Logger
	vm     *chip8.VM
	rom    []byte
	cfg    Config

	nextEvent int // index of the next key event to apply
}

// New creates a new runner for the virtual machine that has the ROM loaded.
func New(logger *log.Logger, vm *chip8.VM, rom []byte, cfg Config) *Runner {
	if cfg.InstructionsPerFrame < 1 {
		cfg.InstructionsPerFrame = 1
	}
	return &Runner{
		logger: logger,
		vm:     vm,
		rom:    rom,
		cfg:    cfg,
	}
}

// Restart resets the virtual machine and reloads the ROM. The key event
// script continues with the events after the current frame.
func (r *Runner) Restart() error {
	r.vm.Reset()
	if err := r.vm.Load(r.rom); err != nil {
		return fmt.Errorf("reloading ROM: %w", err)
	}
	r.logger.Debug("Restarted virtual machine")
	return nil
}

// Run executes frames until the frame limit is reached, the program stops
// or the context is cancelled. Every frame executes the configured number
// of instructions followed by a timer tick.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	var ticker *time.Ticker
	if r.cfg.Realtime {
		ticker = time.NewTicker(FrameDuration)
		defer ticker.Stop()
	}

	for frame := 0; r.cfg.Frames == 0 || frame < r.cfg.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if err := r.applyKeyEvents(frame); err != nil {
			return summary, err
		}

		stopped, err := r.runFrame(&summary)
		if err != nil {
			return summary, fmt.Errorf("running frame %d: %w", frame, err)
		}

		if r.vm.TickTimers() {
			summary.Beeps++
			r.logger.Debug("Beep", log.Int("frame", frame))
		}
		summary.Frames++

		if stopped {
			r.logger.Info("Program stopped",
				log.Stringer("reason", summary.Reason),
				log.Hex("pc", r.vm.PC()),
				log.Int("frame", frame))
			return summary, nil
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-ticker.C:
			}
		}
	}

	summary.Reason = FrameLimit
	return summary, nil
}

// runFrame executes the instructions of a single frame. It returns true
// if the program can not make any further progress.
func (r *Runner) runFrame(summary *Summary) (bool, error) {
	for i := 0; i < r.cfg.InstructionsPerFrame; i++ {
		pc := r.vm.PC()
		opcode, err := r.vm.Opcode()
		if err != nil {
			return false, fmt.Errorf("fetching opcode: %w", err)
		}

		if reason, ok := r.stopCondition(pc, opcode); ok {
			summary.Reason = reason
			return true, nil
		}

		if r.cfg.Trace {
			r.logger.Debug("Execute",
				log.Hex("pc", pc),
				log.Hex("opcode", opcode),
				log.String("instruction", mnemonic.Format(opcode)))
		}

		if err := r.vm.Step(); err != nil {
			return false, err
		}
		summary.Instructions++
	}
	return false, nil
}

// stopCondition detects programs that are stuck: a jump to the own
// address, or waiting for a key while none is pressed and no scripted
// key event is left.
func (r *Runner) stopCondition(pc, opcode uint16) (StopReason, bool) {
	if pc <= 0x0FFF && opcode == 0x1000|pc {
		return IdleLoop, true
	}

	if opcode&0xF0FF == 0xF00A && r.nextEvent >= len(r.cfg.KeyEvents) {
		for key := uint8(0); key < chip8.KeyCount; key++ {
			if r.vm.Key(key) {
				return 0, false
			}
		}
		return WaitingForKey, true
	}
	return 0, false
}

// applyKeyEvents forwards all scripted key events up to the frame.
func (r *Runner) applyKeyEvents(frame int) error {
	for r.nextEvent < len(r.cfg.KeyEvents) {
		event := r.cfg.KeyEvents[r.nextEvent]
		if event.Frame > frame {
			return nil
		}
		r.nextEvent++

		if event.Restart {
			if err := r.Restart(); err != nil {
				return fmt.Errorf("applying key event %s: %w", event, err)
			}
			continue
		}

		if err := r.vm.SetKey(event.Key, event.Pressed); err != nil {
			return fmt.Errorf("applying key event %s: %w", event, err)
		}
		r.logger.Debug("Key event",
			log.Uint8("key", event.Key),
			log.String("event", event.String()))
	}
	return nil
}
