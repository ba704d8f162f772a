package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/okv/c8/chip8"
)

type symbols []symbol

func (s symbols) forAddr(addr uint16) (ss []symbol) {
	i := sort.Search(len(s), func(i int) bool { return s[i].addr >= addr })
	for ; i < len(s); i++ {
		if s[i].addr != addr {
			break
		}
		ss = append(ss, s[i])
	}
	return ss
}

func (s symbols) withLabelPrefix(prefix string) (ss []symbol) {
	for _, s := range s {
		if strings.HasPrefix(s.label, prefix) {
			ss = append(ss, s)
		}
	}
	return ss
}

// resolve interprets arg as a known label or, failing that, a hex
// address.
func (s symbols) resolve(arg string) (symbol, bool) {
	for _, s := range s {
		if s.label == arg {
			return s, true
		}
	}
	addr, err := strconv.ParseUint(strings.TrimPrefix(arg, "0x"), 16, 16)
	if err != nil {
		return symbol{}, false
	}
	return symbol{addr: uint16(addr), label: fmt.Sprintf("%.4x", addr)}, true
}

type symbol struct {
	addr  uint16
	label string
}

func (s symbol) String() string { return fmt.Sprintf("%s (%.4x)", s.label, s.addr) }

// parseSymbols reads a symbol file: one "hhhh label" pair per line,
// the address in hex. A missing file is not an error; not every build
// produces one.
func parseSymbols(symFile string) (symbols, error) {
	f, err := os.Open(symFile)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var ss symbols
	sc := bufio.NewScanner(f)
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("%s:%d: want \"addr label\", got %q", symFile, line, sc.Text())
		}
		addr, err := strconv.ParseUint(fields[0], 16, 16)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: bad address %q", symFile, line, fields[0])
		}
		ss = append(ss, symbol{addr: uint16(addr), label: fields[1]})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(ss, func(i, j int) bool {
		return ss[i].addr < ss[j].addr
	})
	return ss, nil
}

// insAddr returns the address the instruction at PC refers to, if it
// refers to one.
func insAddr(ins chip8.Instruction, m *chip8.Machine) (uint16, bool) {
	switch ins.Kind {
	case chip8.JpImm, chip8.Call, chip8.LdI:
		return ins.Addr, true
	case chip8.JpReg:
		return ins.Addr + uint16(m.V[0]), true
	case chip8.LdFont:
		return chip8.FontBase + uint16(m.V[ins.X]&0xf)*5, true
	case chip8.LdBCD, chip8.LdMemReg, chip8.LdRegMem:
		return m.I, true
	}
	return 0, false
}
