package chip8

import (
	"fmt"
	"strings"
)

// Stack implements the CHIP-8 call stack: a fixed ring of sixteen
// return addresses. Push and Pop are its only mutators. The pointer
// wraps past either end of the ring instead of faulting, matching the
// original interpreters, so a seventeenth push silently overwrites the
// oldest entry and popping an empty stack yields whatever the last
// slot holds.
type Stack struct {
	Addrs [16]uint16
	Ptr   byte
}

// Push stores addr at the stack pointer.
func (s *Stack) Push(addr uint16) {
	s.Addrs[s.Ptr] = addr
	s.Ptr = (s.Ptr + 1) % 16
}

// Pop removes and returns the most recently pushed address.
func (s *Stack) Pop() uint16 {
	s.Ptr = (s.Ptr + 15) % 16
	return s.Addrs[s.Ptr]
}

func (s Stack) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, v := range s.Addrs[:s.Ptr] {
		b.WriteByte(' ')
		fmt.Fprintf(&b, "%x", v)
	}
	b.WriteByte(' ')
	b.WriteByte(')')
	return b.String()
}
