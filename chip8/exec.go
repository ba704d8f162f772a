// Package chip8 provides an implementation of a CHIP-8 CPU, called
// Machine, that can be used to execute CHIP-8 bytecode.
package chip8

import "fmt"

// Machine is an implementation of a CHIP-8 CPU.
//
// The Delay and Sound timers are plain counters; the machine never
// decrements them itself. The host is expected to count both down
// toward zero at a fixed 60Hz cadence.
type Machine struct {
	Mem   [4096]byte
	PC    uint16 // only the low 12 bits are architecturally meaningful
	I     uint16
	V     [16]byte
	Stack Stack
	Delay byte
	Sound byte
	Dev   Device

	// Waiting is set while a key-wait instruction has suspended the
	// instruction stream; WaitReg names the register the key value
	// lands in when it arrives.
	Waiting bool
	WaitReg byte
}

// Device provides access to external systems connected to the CHIP-8
// CPU.
type Device interface {
	// Clear blanks the display.
	Clear()
	// Draw XOR-composites an 8-pixel-wide sprite, one byte per row
	// with the most significant bit leftmost, onto the display at
	// (x, y), wrapping at the edges. It reports whether any lit
	// pixel was erased.
	Draw(x, y byte, sprite []byte) bool
	// KeyDown reports whether hex key k (0-15) is held.
	KeyDown(k byte) bool
	// Key returns a pending keypress, if any, without blocking.
	Key() (byte, bool)
	// Rand returns a uniformly distributed byte.
	Rand() byte
}

const (
	// ProgramStart is the address programs are loaded at and where
	// execution begins.
	ProgramStart = 0x200

	// FontBase is the address of the builtin hex digit sprites,
	// five bytes per glyph.
	FontBase = 0x050
)

// font holds the builtin sprites for the hex digits 0-F.
var font = [80]byte{
	0xf0, 0x90, 0x90, 0x90, 0xf0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xf0, 0x10, 0xf0, 0x80, 0xf0, // 2
	0xf0, 0x10, 0xf0, 0x10, 0xf0, // 3
	0x90, 0x90, 0xf0, 0x10, 0x10, // 4
	0xf0, 0x80, 0xf0, 0x10, 0xf0, // 5
	0xf0, 0x80, 0xf0, 0x90, 0xf0, // 6
	0xf0, 0x10, 0x20, 0x40, 0x40, // 7
	0xf0, 0x90, 0xf0, 0x90, 0xf0, // 8
	0xf0, 0x90, 0xf0, 0x10, 0xf0, // 9
	0xf0, 0x90, 0xf0, 0x90, 0x90, // A
	0xe0, 0x90, 0xe0, 0x90, 0xe0, // B
	0xf0, 0x80, 0x80, 0x80, 0xf0, // C
	0xe0, 0x90, 0x90, 0x90, 0xe0, // D
	0xf0, 0x80, 0xf0, 0x80, 0xf0, // E
	0xf0, 0x80, 0xf0, 0x80, 0x80, // F
}

// NewMachine returns a CHIP-8 CPU with the builtin font installed at
// FontBase and the given rom loaded at ProgramStart. A rom larger than
// the remaining address space is truncated.
func NewMachine(rom []byte) *Machine {
	m := &Machine{PC: ProgramStart}
	copy(m.Mem[FontBase:], font[:])
	copy(m.Mem[ProgramStart:], rom)
	return m
}

// Exec executes the instruction at m.PC. While the machine is waiting
// on a keypress Exec instead polls the device for one, making no
// progress until it arrives. It returns a non-nil error, always a
// Fault, if it encounters a halt condition; a fault is fatal and the
// machine must not be stepped further.
func (m *Machine) Exec() (err error) {
	if m.Waiting {
		k, ok := m.Dev.Key()
		if !ok {
			return nil
		}
		m.V[m.WaitReg] = k
		m.Waiting = false
		return nil
	}

	var (
		opPC = m.PC
		word uint16
	)
	defer func() {
		if e := recover(); e != nil {
			if code, ok := e.(FaultCode); ok {
				err = Fault{Code: code, Word: word, Addr: opPC}
			} else {
				panic(e)
			}
		}
	}()

	word = short(m.read(opPC), m.read(opPC+1))
	in, ok := Decode(word)
	if !ok {
		return Fault{Code: BadOpcode, Word: word, Addr: opPC}
	}
	m.PC += 2

	switch in.Kind {
	case Cls:
		m.Dev.Clear()
	case Ret:
		m.PC = m.Stack.Pop()
	case JpImm:
		m.PC = in.Addr
	case Call:
		m.Stack.Push(m.PC)
		m.PC = in.Addr
	case SeImm:
		m.skip(m.V[in.X] == in.B)
	case SneImm:
		m.skip(m.V[in.X] != in.B)
	case SeReg:
		m.skip(m.V[in.X] == m.V[in.Y])
	case SneReg:
		m.skip(m.V[in.X] != m.V[in.Y])
	case LdImm:
		m.V[in.X] = in.B
	case AddImm:
		m.V[in.X] += in.B
	case LdReg:
		m.V[in.X] = m.V[in.Y]
	case Or:
		m.V[in.X] |= m.V[in.Y]
	case And:
		m.V[in.X] &= m.V[in.Y]
	case Xor:
		m.V[in.X] ^= m.V[in.Y]
	case AddReg:
		// Flag writes come last throughout: X may be 0xF, and the
		// flag wins over the result.
		sum := uint16(m.V[in.X]) + uint16(m.V[in.Y])
		m.V[in.X] = byte(sum)
		m.setVF(sum > 0xff)
	case SubReg:
		noBorrow := m.V[in.X] >= m.V[in.Y]
		m.V[in.X] -= m.V[in.Y]
		m.setVF(noBorrow)
	case Shr:
		// The Y operand is a legacy artifact of the original
		// two-register shift; this revision shifts Vx in place.
		lsb := m.V[in.X] & 1
		m.V[in.X] >>= 1
		m.setVF(lsb != 0)
	case Subn:
		noBorrow := m.V[in.Y] >= m.V[in.X]
		m.V[in.X] = m.V[in.Y] - m.V[in.X]
		m.setVF(noBorrow)
	case Shl:
		msb := m.V[in.X] >> 7
		m.V[in.X] <<= 1
		m.setVF(msb != 0)
	case LdI:
		m.I = in.Addr
	case JpReg:
		m.PC = in.Addr + uint16(m.V[0])
	case Rnd:
		m.V[in.X] = m.Dev.Rand() & in.B
	case Drw:
		sprite := m.slice(m.I, uint16(in.N))
		m.setVF(m.Dev.Draw(m.V[in.X], m.V[in.Y], sprite))
	case Skp:
		m.skip(m.Dev.KeyDown(m.V[in.X] & 0xf))
	case Sknp:
		m.skip(!m.Dev.KeyDown(m.V[in.X] & 0xf))
	case LdRegDelay:
		m.V[in.X] = m.Delay
	case LdRegKey:
		m.Waiting = true
		m.WaitReg = in.X
	case LdDelayReg:
		m.Delay = m.V[in.X]
	case LdSoundReg:
		m.Sound = m.V[in.X]
	case AddI:
		// No flag on overflow; the canonical instruction set leaves
		// the VF interaction undefined.
		m.I += uint16(m.V[in.X])
	case LdFont:
		m.I = FontBase + uint16(m.V[in.X])*5
	case LdBCD:
		mem := m.slice(m.I, 3)
		v := m.V[in.X]
		mem[0] = v / 100
		mem[1] = v / 10 % 10
		mem[2] = v % 10
	case LdMemReg:
		copy(m.slice(m.I, uint16(in.X)+1), m.V[:in.X+1])
	case LdRegMem:
		copy(m.V[:in.X+1], m.slice(m.I, uint16(in.X)+1))
	}

	return nil
}

// read returns the memory byte at addr, halting on an address outside
// the 4KB space.
func (m *Machine) read(addr uint16) byte {
	if int(addr) >= len(m.Mem) {
		panic(OutOfBounds)
	}
	return m.Mem[addr]
}

// slice returns the n bytes of memory at addr, halting if any of them
// fall outside the 4KB space.
func (m *Machine) slice(addr, n uint16) []byte {
	if int(addr)+int(n) > len(m.Mem) {
		panic(OutOfBounds)
	}
	return m.Mem[addr : addr+n]
}

func (m *Machine) skip(cond bool) {
	if cond {
		m.PC += 2
	}
}

func (m *Machine) setVF(cond bool) {
	if cond {
		m.V[0xf] = 1
	} else {
		m.V[0xf] = 0
	}
}

// Fault is returned by Exec if execution is halted by the program for
// some reason.
type Fault struct {
	Code FaultCode
	Word uint16 // the offending instruction word
	Addr uint16 // the address it was fetched from
}

func (f Fault) Error() string {
	return fmt.Sprintf("%s executing %.4x at %.4x", f.Code, f.Word, f.Addr)
}

// FaultCode signifies the type of condition that halted execution.
type FaultCode byte

const (
	// BadOpcode means the fetched word matches no defined encoding.
	BadOpcode FaultCode = iota
	// OutOfBounds means a computed address left the 4KB space. For a
	// fault on the fetch itself the Word field of the Fault is zero.
	OutOfBounds
)

func (c FaultCode) String() string {
	switch c {
	case BadOpcode:
		return "bad opcode"
	case OutOfBounds:
		return "memory out of bounds"
	}
	return fmt.Sprintf("unknown (%.2x)", byte(c))
}

func short(hi, lo byte) uint16 {
	return uint16(hi)<<8 + uint16(lo)
}
