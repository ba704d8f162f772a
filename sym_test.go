package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/okv/c8/chip8"
)

func TestParseSymbols(t *testing.T) {
	symFile := filepath.Join(t.TempDir(), "test.sym")
	content := "0200 main\n0300 draw-loop\n\n0300 draw\n0212 wait-key\n"
	if err := os.WriteFile(symFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	syms, err := parseSymbols(symFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(syms) != 4 {
		t.Fatalf("got %d symbols, want 4", len(syms))
	}
	if s := syms.forAddr(0x200); len(s) != 1 || s[0].label != "main" {
		t.Errorf("forAddr(0200) = %v", s)
	}
	if s := syms.forAddr(0x300); len(s) != 2 {
		t.Errorf("forAddr(0300) = %v, want two symbols", s)
	}
	if s := syms.forAddr(0x123); len(s) != 0 {
		t.Errorf("forAddr(0123) = %v, want none", s)
	}
	if s := syms.withLabelPrefix("draw"); len(s) != 2 {
		t.Errorf("withLabelPrefix(draw) = %v, want two symbols", s)
	}

	if s, ok := syms.resolve("wait-key"); !ok || s.addr != 0x212 {
		t.Errorf("resolve(wait-key) = %v, %v", s, ok)
	}
	if s, ok := syms.resolve("2a0"); !ok || s.addr != 0x2a0 {
		t.Errorf("resolve(2a0) = %v, %v", s, ok)
	}
	if _, ok := syms.resolve("nope!"); ok {
		t.Error("resolve accepted a bogus argument")
	}
}

func TestParseSymbolsMissingFile(t *testing.T) {
	syms, err := parseSymbols(filepath.Join(t.TempDir(), "absent.sym"))
	if err != nil || syms != nil {
		t.Errorf("parseSymbols on a missing file = %v, %v, want nil, nil", syms, err)
	}
}

func TestParseSymbolsMalformed(t *testing.T) {
	symFile := filepath.Join(t.TempDir(), "bad.sym")
	if err := os.WriteFile(symFile, []byte("zzzz main\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := parseSymbols(symFile); err == nil {
		t.Error("parseSymbols accepted a malformed address")
	}
}

func TestInsAddr(t *testing.T) {
	m := chip8.NewMachine(nil)
	m.V[0] = 4
	m.V[3] = 0xb
	m.I = 0x500
	for _, c := range []struct {
		word uint16
		addr uint16
		ok   bool
	}{
		{0x1234, 0x234, true},  // JP
		{0x2468, 0x468, true},  // CALL
		{0xa300, 0x300, true},  // LD I
		{0xb300, 0x304, true},  // JP V0 offset
		{0xf329, chip8.FontBase + 0xb*5, true}, // LD F
		{0xf333, 0x500, true},  // BCD writes at I
		{0x6012, 0, false},
		{0x00e0, 0, false},
	} {
		ins, ok := chip8.Decode(c.word)
		if !ok {
			t.Fatalf("Decode(%.4x) failed", c.word)
		}
		addr, ok := insAddr(ins, m)
		if ok != c.ok || addr != c.addr {
			t.Errorf("insAddr(%.4x) = %.4x, %v, want %.4x, %v",
				c.word, addr, ok, c.addr, c.ok)
		}
	}
}
