package chip8

import "testing"

func TestStackLIFO(t *testing.T) {
	var s Stack
	for i := uint16(0); i < 16; i++ {
		s.Push(0x200 + i)
	}
	for i := uint16(16); i > 0; i-- {
		if g, w := s.Pop(), 0x200+i-1; g != w {
			t.Fatalf("Pop() = %.4x, want %.4x", g, w)
		}
	}
	if s.Ptr != 0 {
		t.Errorf("Ptr = %d, want 0 after draining", s.Ptr)
	}
}

// A seventeenth push wraps the pointer and overwrites the oldest entry.
func TestStackWrap(t *testing.T) {
	var s Stack
	for i := uint16(1); i <= 17; i++ {
		s.Push(i)
	}
	if s.Ptr != 1 {
		t.Errorf("Ptr = %d, want 1 after 17 pushes", s.Ptr)
	}
	if s.Addrs[0] != 17 {
		t.Errorf("Addrs[0] = %d, want 17 (oldest entry overwritten)", s.Addrs[0])
	}
	if s.Addrs[1] != 2 {
		t.Errorf("Addrs[1] = %d, want 2 (untouched)", s.Addrs[1])
	}
}

// Popping an empty stack wraps below the first slot rather than
// faulting.
func TestStackUnderflowWrap(t *testing.T) {
	var s Stack
	s.Addrs[15] = 0xabc
	if g := s.Pop(); g != 0xabc {
		t.Errorf("Pop() = %.4x, want %.4x", g, 0xabc)
	}
	if s.Ptr != 15 {
		t.Errorf("Ptr = %d, want 15", s.Ptr)
	}
}
