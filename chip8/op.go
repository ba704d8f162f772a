package chip8

import "fmt"

// Kind identifies a CHIP-8 instruction family.
type Kind byte

const (
	Cls Kind = iota
	Ret
	JpImm
	Call
	SeImm
	SneImm
	SeReg
	LdImm
	AddImm
	LdReg
	Or
	And
	Xor
	AddReg
	SubReg
	Shr
	Subn
	Shl
	SneReg
	LdI
	JpReg
	Rnd
	Drw
	Skp
	Sknp
	LdRegDelay
	LdRegKey
	LdDelayReg
	LdSoundReg
	AddI
	LdFont
	LdBCD
	LdMemReg
	LdRegMem
)

// Instruction is a single decoded CHIP-8 instruction. It carries only
// the operand fields relevant to its Kind, is constructed fresh by
// Decode, and is discarded after one execution step.
type Instruction struct {
	Kind Kind
	X, Y byte   // register indices
	N    byte   // sprite height (Drw)
	B    byte   // immediate byte
	Addr uint16 // 12-bit address
}

// Decode maps a 16-bit instruction word to its Instruction. It reports
// false for any word that matches no defined encoding; there is no
// default instruction.
func Decode(word uint16) (Instruction, bool) {
	var (
		n0 = byte(word) & 0xf
		n3 = byte(word>>12) & 0xf

		x    = byte(word>>8) & 0xf
		y    = byte(word>>4) & 0xf
		b    = byte(word)
		addr = word & 0xfff
	)
	switch n3 {
	case 0x0:
		// The 0nnn machine-routine family is not implemented.
		switch b {
		case 0xe0:
			return Instruction{Kind: Cls}, x == 0
		case 0xee:
			return Instruction{Kind: Ret}, x == 0
		}
	case 0x1:
		return Instruction{Kind: JpImm, Addr: addr}, true
	case 0x2:
		return Instruction{Kind: Call, Addr: addr}, true
	case 0x3:
		return Instruction{Kind: SeImm, X: x, B: b}, true
	case 0x4:
		return Instruction{Kind: SneImm, X: x, B: b}, true
	case 0x5:
		if n0 == 0x0 {
			return Instruction{Kind: SeReg, X: x, Y: y}, true
		}
	case 0x6:
		return Instruction{Kind: LdImm, X: x, B: b}, true
	case 0x7:
		return Instruction{Kind: AddImm, X: x, B: b}, true
	case 0x8:
		in := Instruction{X: x, Y: y}
		switch n0 {
		case 0x0:
			in.Kind = LdReg
		case 0x1:
			in.Kind = Or
		case 0x2:
			in.Kind = And
		case 0x3:
			in.Kind = Xor
		case 0x4:
			in.Kind = AddReg
		case 0x5:
			in.Kind = SubReg
		case 0x6:
			in.Kind = Shr
		case 0x7:
			in.Kind = Subn
		case 0xe:
			in.Kind = Shl
		default:
			return Instruction{}, false
		}
		return in, true
	case 0x9:
		if n0 == 0x0 {
			return Instruction{Kind: SneReg, X: x, Y: y}, true
		}
	case 0xa:
		return Instruction{Kind: LdI, Addr: addr}, true
	case 0xb:
		return Instruction{Kind: JpReg, Addr: addr}, true
	case 0xc:
		return Instruction{Kind: Rnd, X: x, B: b}, true
	case 0xd:
		return Instruction{Kind: Drw, X: x, Y: y, N: n0}, true
	case 0xe:
		switch b {
		case 0x9e:
			return Instruction{Kind: Skp, X: x}, true
		case 0xa1:
			return Instruction{Kind: Sknp, X: x}, true
		}
	case 0xf:
		in := Instruction{X: x}
		switch b {
		case 0x07:
			in.Kind = LdRegDelay
		case 0x0a:
			in.Kind = LdRegKey
		case 0x15:
			in.Kind = LdDelayReg
		case 0x18:
			in.Kind = LdSoundReg
		case 0x1e:
			in.Kind = AddI
		case 0x29:
			in.Kind = LdFont
		case 0x33:
			in.Kind = LdBCD
		case 0x55:
			in.Kind = LdMemReg
		case 0x65:
			in.Kind = LdRegMem
		default:
			return Instruction{}, false
		}
		return in, true
	}
	return Instruction{}, false
}

func (k Kind) String() string { return kindNames[k] }

var kindNames = [...]string{
	Cls:        "CLS",
	Ret:        "RET",
	JpImm:      "JP",
	Call:       "CALL",
	SeImm:      "SE",
	SneImm:     "SNE",
	SeReg:      "SE",
	LdImm:      "LD",
	AddImm:     "ADD",
	LdReg:      "LD",
	Or:         "OR",
	And:        "AND",
	Xor:        "XOR",
	AddReg:     "ADD",
	SubReg:     "SUB",
	Shr:        "SHR",
	Subn:       "SUBN",
	Shl:        "SHL",
	SneReg:     "SNE",
	LdI:        "LD",
	JpReg:      "JP",
	Rnd:        "RND",
	Drw:        "DRW",
	Skp:        "SKP",
	Sknp:       "SKNP",
	LdRegDelay: "LD",
	LdRegKey:   "LD",
	LdDelayReg: "LD",
	LdSoundReg: "LD",
	AddI:       "ADD",
	LdFont:     "LD",
	LdBCD:      "LD",
	LdMemReg:   "LD",
	LdRegMem:   "LD",
}

// String renders the instruction in conventional assembly syntax.
func (in Instruction) String() string {
	name := in.Kind.String()
	switch in.Kind {
	case Cls, Ret:
		return name
	case JpImm, Call:
		return fmt.Sprintf("%s $%03X", name, in.Addr)
	case JpReg:
		return fmt.Sprintf("%s V0, $%03X", name, in.Addr)
	case LdI:
		return fmt.Sprintf("%s I, $%03X", name, in.Addr)
	case SeImm, SneImm, LdImm, AddImm, Rnd:
		return fmt.Sprintf("%s V%X, $%02X", name, in.X, in.B)
	case SeReg, SneReg, LdReg, Or, And, Xor, AddReg, SubReg, Subn:
		return fmt.Sprintf("%s V%X, V%X", name, in.X, in.Y)
	case Shr, Shl, Skp, Sknp:
		return fmt.Sprintf("%s V%X", name, in.X)
	case Drw:
		return fmt.Sprintf("%s V%X, V%X, $%X", name, in.X, in.Y, in.N)
	case LdRegDelay:
		return fmt.Sprintf("%s V%X, DT", name, in.X)
	case LdRegKey:
		return fmt.Sprintf("%s V%X, K", name, in.X)
	case LdDelayReg:
		return fmt.Sprintf("%s DT, V%X", name, in.X)
	case LdSoundReg:
		return fmt.Sprintf("%s ST, V%X", name, in.X)
	case AddI:
		return fmt.Sprintf("%s I, V%X", name, in.X)
	case LdFont:
		return fmt.Sprintf("%s F, V%X", name, in.X)
	case LdBCD:
		return fmt.Sprintf("%s B, V%X", name, in.X)
	case LdMemReg:
		return fmt.Sprintf("%s [I], V%X", name, in.X)
	case LdRegMem:
		return fmt.Sprintf("%s V%X, [I]", name, in.X)
	}
	return fmt.Sprintf("unknown (%d)", in.Kind)
}
