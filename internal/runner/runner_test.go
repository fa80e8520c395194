package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrochip8/chip8"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newTestRunner(t *testing.T, cfg Config, opcodes ...uint16) *Runner {
	t.Helper()

	rom := make([]byte, 0, len(opcodes)*2)
	for _, op := range opcodes {
		rom = append(rom, byte(op>>8), byte(op))
	}

	vm := chip8.New()
	assert.NoError(t, vm.Load(rom))
	return New(log.NewTestLogger(t), vm, rom, cfg)
}

func TestRun_FrameLimit(t *testing.T) {
	r := newTestRunner(t, Config{Frames: 3, InstructionsPerFrame: 2},
		0x7001, // ADD V0, 1
		0x1200, // JP $200
	)

	summary, err := r.Run(context.Background())
	assert.NoError(t, err)
	want := Summary{Frames: 3, Instructions: 6, Reason: FrameLimit}
	if diff := cmp.Diff(want, summary); diff != "" {
		t.Errorf("summary (-want, +got)\n%s", diff)
	}
	assert.Equal(t, uint8(3), r.vm.Register(0))
}

func TestRun_IdleLoop(t *testing.T) {
	r := newTestRunner(t, Config{InstructionsPerFrame: 10},
		0x6005, // LD V0, 5
		0xF015, // LD DT, V0
		0x1204, // JP $204
	)

	summary, err := r.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, IdleLoop, summary.Reason)
	assert.Equal(t, 1, summary.Frames)
	assert.Equal(t, 2, summary.Instructions)
	assert.Equal(t, uint8(4), r.vm.DelayTimer())
}

func TestRun_WaitingForKey(t *testing.T) {
	r := newTestRunner(t, Config{InstructionsPerFrame: 4},
		0xF30A, // LD V3, K
		0x1202, // JP $202
	)

	summary, err := r.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, WaitingForKey, summary.Reason)
	assert.Equal(t, 0, summary.Instructions)
}

func TestRun_ScriptedKey(t *testing.T) {
	events, err := ParseKeyEvents("2:9+")
	assert.NoError(t, err)

	r := newTestRunner(t, Config{InstructionsPerFrame: 4, KeyEvents: events},
		0xF30A, // LD V3, K
		0x1202, // JP $202
	)

	summary, err := r.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, IdleLoop, summary.Reason)
	assert.Equal(t, 3, summary.Frames)
	assert.Equal(t, uint8(9), r.vm.Register(3))
	assert.True(t, r.vm.Key(9))
}

func TestRun_Beep(t *testing.T) {
	r := newTestRunner(t, Config{Frames: 5, InstructionsPerFrame: 1},
		0x6002, // LD V0, 2
		0xF018, // LD ST, V0
		0x1204, // JP $204
	)

	summary, err := r.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Beeps)
	assert.Equal(t, uint8(0), r.vm.SoundTimer())
}

func TestRun_Trace(t *testing.T) {
	r := newTestRunner(t, Config{Frames: 1, InstructionsPerFrame: 2, Trace: true},
		0x00E0, // CLS
		0x1200, // JP $200
	)

	summary, err := r.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, summary.Instructions)
}

func TestRun_ExecutionError(t *testing.T) {
	r := newTestRunner(t, Config{InstructionsPerFrame: 10},
		0x6001, // LD V0, 1
		0xFFFF, // invalid
	)

	summary, err := r.Run(context.Background())
	assert.True(t, errors.Is(err, chip8.ErrUnsupportedOpcode))
	assert.Equal(t, 1, summary.Instructions)
	assert.ErrorContains(t, err, "running frame 0")
}

func TestRun_Cancelled(t *testing.T) {
	r := newTestRunner(t, Config{Realtime: true, InstructionsPerFrame: 1},
		0x1202, // JP $202
		0x1200, // JP $200
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRun_Realtime(t *testing.T) {
	r := newTestRunner(t, Config{Frames: 2, Realtime: true, InstructionsPerFrame: 1},
		0x1202, // JP $202
		0x1200, // JP $200
	)

	summary, err := r.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, summary.Frames)
}

func TestRestart(t *testing.T) {
	events, err := ParseKeyEvents("0:1+")
	assert.NoError(t, err)

	r := newTestRunner(t, Config{Frames: 1, InstructionsPerFrame: 1, KeyEvents: events},
		0x6042, // LD V0, $42
		0x1202, // JP $202
	)

	_, err = r.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x42), r.vm.Register(0))
	assert.Equal(t, 1, r.nextEvent)

	assert.NoError(t, r.Restart())
	assert.Equal(t, uint8(0), r.vm.Register(0))
	assert.Equal(t, uint16(chip8.ProgramStart), r.vm.PC())
	assert.False(t, r.vm.Key(1))
	assert.Equal(t, 1, r.nextEvent)

	opcode, err := r.vm.Opcode()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x6042), opcode)
}

func TestRun_ScriptedRestart(t *testing.T) {
	events, err := ParseKeyEvents("1:4+,3:R,4:6+")
	assert.NoError(t, err)

	r := newTestRunner(t, Config{Frames: 5, InstructionsPerFrame: 2, KeyEvents: events},
		0x7001, // ADD V0, 1
		0x1200, // JP $200
	)

	summary, err := r.Run(context.Background())
	assert.NoError(t, err)
	want := Summary{Frames: 5, Instructions: 10, Reason: FrameLimit}
	if diff := cmp.Diff(want, summary); diff != "" {
		t.Errorf("summary (-want, +got)\n%s", diff)
	}

	// frames 3 and 4 run after the restart
	assert.Equal(t, uint8(2), r.vm.Register(0))
	assert.False(t, r.vm.Key(4))
	assert.True(t, r.vm.Key(6))
	assert.Equal(t, 3, r.nextEvent)
}

func TestStopReason_String(t *testing.T) {
	assert.Equal(t, "frame limit", FrameLimit.String())
	assert.Equal(t, "idle loop", IdleLoop.String())
	assert.Equal(t, "waiting for key", WaitingForKey.String())
	assert.Equal(t, "StopReason(9)", StopReason(9).String())
}
