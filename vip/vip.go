// Package vip implements the peripherals of a COSMAC VIP style CHIP-8
// machine: a 64x32 monochrome display, a 16-key hex keypad, and the
// 60Hz delay and sound timer cadence.
package vip

import (
	"math/rand"
	"time"

	"github.com/okv/c8/chip8"
)

// System connects a chip8.Machine to the VIP peripherals. A System and
// everything it owns is driven by a single Runner goroutine; it is not
// safe for concurrent use.
type System struct {
	m   *chip8.Machine
	scr Screen
	pad Keypad
	rng *rand.Rand
}

// New returns a System running the given rom from reset.
func New(rom []byte) *System {
	s := &System{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
	s.m = chip8.NewMachine(rom)
	s.m.Dev = s
	return s
}

func (s *System) Machine() *chip8.Machine { return s.m }
func (s *System) Screen() *Screen         { return &s.scr }
func (s *System) Keypad() *Keypad         { return &s.pad }

// System is the chip8.Device its machine executes against.

func (s *System) Clear()                             { s.scr.Clear() }
func (s *System) Draw(x, y byte, sprite []byte) bool { return s.scr.Draw(x, y, sprite) }
func (s *System) KeyDown(k byte) bool                { return s.pad.Down(k) }
func (s *System) Key() (byte, bool)                  { return s.pad.Pending() }
func (s *System) Rand() byte                         { return byte(s.rng.Intn(0x100)) }
