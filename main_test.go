package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func writeROM(t *testing.T, rom []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ch8")
	assert.NoError(t, os.WriteFile(path, rom, 0o600))
	return path
}

func TestRun(t *testing.T) {
	digit := writeROM(t, []byte{
		0x60, 0x00, // LD V0, 0
		0xF0, 0x29, // LD F, V0
		0xD0, 0x05, // DRW V0, V0, 5
		0x12, 0x06, // JP $206
	})
	invalid := writeROM(t, []byte{0xFF, 0xFF})
	output := filepath.Join(t.TempDir(), "display.txt")

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no arguments", []string{"retrochip8"}, 1},
		{"unknown flag", []string{"retrochip8", "-unknown", digit}, 1},
		{"invalid option", []string{"retrochip8", "-ipf", "0", digit}, 1},
		{"missing file", []string{"retrochip8", "-q", filepath.Join(t.TempDir(), "missing.ch8")}, 1},
		{"execution error", []string{"retrochip8", "-q", "-o", output, invalid}, 1},
		{"success", []string{"retrochip8", "-q", "-o", output, digit}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })
			os.Args = tt.args

			assert.Equal(t, tt.code, run(context.Background()))
		})
	}

	data, err := os.ReadFile(output)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "####"))
}

func TestRun_Cancelled(t *testing.T) {
	path := writeROM(t, []byte{
		0x12, 0x02, // JP $202
		0x12, 0x00, // JP $200
	})

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"retrochip8", "-q", "-realtime", "-o", filepath.Join(t.TempDir(), "out.txt"), path}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, 0, run(ctx))
}
