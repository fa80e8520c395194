package chip8

// StackSize is the number of return addresses the call stack can hold.
const StackSize = 16

// Stack is the fixed capacity subroutine return address stack.
type Stack struct {
	data [StackSize]uint16
	sp   int
}

// Push stores the address on top of the stack.
func (s *Stack) Push(address uint16) error {
	if s.sp == StackSize {
		return ErrStackOverflow
	}
	s.data[s.sp] = address
	s.sp++
	return nil
}

// Pop removes and returns the address on top of the stack.
func (s *Stack) Pop() (uint16, error) {
	if s.sp == 0 {
		return 0, ErrStackUnderflow
	}
	s.sp--
	return s.data[s.sp], nil
}

// Len returns the number of addresses on the stack.
func (s *Stack) Len() int {
	return s.sp
}
