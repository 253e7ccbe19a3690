// Package disasm decodes 6502 machine code into a mnemonic listing.
package disasm

import (
	"fmt"
	"strings"
)

// Unknown is rendered for bytes that have no opcode table entry.
const Unknown = "???"

// Inst is a single decoded instruction.
type Inst struct {
	Addr uint16 // offset of the opcode byte within the buffer
	Raw  []byte // bytes consumed, in memory order
	Text string // rendered mnemonic, or Unknown
}

// Known reports whether the opcode byte had a table entry.
func (i Inst) Known() bool { return i.Text != Unknown }

// Hex returns the raw bytes as space separated lowercase pairs.
func (i Inst) Hex() string {
	var b strings.Builder
	for n, v := range i.Raw {
		if n > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02x", v)
	}
	return b.String()
}

// String formats the listing line, e.g. "0x0004 20 28 ba jsr $ba28".
func (i Inst) String() string {
	return fmt.Sprintf("0x%04X %s %s", i.Addr, i.Hex(), i.Text)
}

// Stream is a linear sequence of instructions.
type Stream []Inst

// Lines formats every instruction.
func (s Stream) Lines() []string {
	out := make([]string, len(s))
	for n, inst := range s {
		out[n] = inst.String()
	}
	return out
}

// Size is the number of bytes covered by the stream.
func (s Stream) Size() int {
	n := 0
	for _, inst := range s {
		n += len(inst.Raw)
	}
	return n
}
