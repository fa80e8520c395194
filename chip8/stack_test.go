package chip8

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestStack_RoundTrip(t *testing.T) {
	var s Stack
	assert.NoError(t, s.Push(0x123))
	assert.NoError(t, s.Push(0x456))
	assert.Equal(t, 2, s.Len())

	address, err := s.Pop()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x456), address)

	address, err = s.Pop()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x123), address)
	assert.Equal(t, 0, s.Len())
}

func TestStack_Overflow(t *testing.T) {
	var s Stack
	for i := 0; i < StackSize; i++ {
		assert.NoError(t, s.Push(uint16(i)))
	}

	err := s.Push(0x200)
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, StackSize, s.Len())
}

func TestStack_Underflow(t *testing.T) {
	var s Stack
	_, err := s.Pop()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, 0, s.Len())
}
