package disasm

import (
	"errors"
	"fmt"

	"dis6502/internal/opcode"
)

// ErrOutOfBounds is returned when a decode range or an instruction's
// operands fall outside the supplied buffer.
var ErrOutOfBounds = errors.New("out of bounds")

// BoundsError reports an instruction whose operand bytes extend past the
// end of the decode range.
type BoundsError struct {
	Addr   uint16 // address of the opcode byte
	Opcode byte
	Len    int // instruction length in bytes
	End    int // exclusive end of the decode range
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("out of bounds: instruction %02x at 0x%04X needs %d bytes, range ends at 0x%04X",
		e.Opcode, e.Addr, e.Len, e.End)
}

func (e *BoundsError) Unwrap() error { return ErrOutOfBounds }

// AddressSpace is the number of addressable bytes. Instruction addresses
// are 16-bit, so no buffer may be longer.
const AddressSpace = 0x10000

// Range is a half-open [Start, End) window into a buffer.
type Range struct {
	Start int
	End   int
}

// Full covers the whole buffer.
func Full(data []byte) Range {
	return Range{Start: 0, End: len(data)}
}

// Resolve applies the defaults for absent bounds: start 0 and end at the
// buffer length.
func Resolve(start, end *uint16, n int) Range {
	r := Range{Start: 0, End: n}
	if start != nil {
		r.Start = int(*start)
	}
	if end != nil {
		r.End = int(*end)
	}
	return r
}

func (r Range) check(n int) error {
	if n > AddressSpace {
		return fmt.Errorf("%d bytes exceed the 64K address space: %w", n, ErrOutOfBounds)
	}
	if r.Start < 0 || r.End > n || r.Start > r.End {
		return fmt.Errorf("range [%d, %d) over %d bytes: %w", r.Start, r.End, n, ErrOutOfBounds)
	}
	return nil
}

// Disassemble decodes data[rng.Start:rng.End] one instruction at a time.
// Each byte belongs to exactly one instruction; unknown opcodes consume a
// single byte and decode as Unknown. An instruction whose operands would
// cross rng.End fails the whole call.
func Disassemble(t *opcode.Table, data []byte, rng Range) (Stream, error) {
	if err := rng.check(len(data)); err != nil {
		return nil, err
	}

	var out Stream
	pc := rng.Start
	for pc < rng.End {
		addr := uint16(pc)
		op := data[pc]

		d, ok := t.Lookup(op)
		if !ok {
			out = append(out, Inst{Addr: addr, Raw: []byte{op}, Text: Unknown})
			pc++
			continue
		}

		n := d.Len()
		if pc+n > rng.End {
			return nil, &BoundsError{Addr: addr, Opcode: op, Len: n, End: rng.End}
		}
		raw := data[pc : pc+n]

		var text string
		switch n {
		case 1:
			text = d.Template.String()
		case 2:
			if d.Relative {
				text = d.Template.Render(fmt.Sprintf("%04x", branchTarget(pc+1, raw[1])), "")
			} else {
				text = d.Template.Render(fmt.Sprintf("%02x", raw[1]), "")
			}
		case 3:
			text = d.Template.Render(fmt.Sprintf("%02x", raw[1]), fmt.Sprintf("%02x", raw[2]))
		}

		out = append(out, Inst{Addr: addr, Raw: append([]byte(nil), raw...), Text: text})
		pc += n
	}
	return out, nil
}

// branchTarget adds a signed displacement to the address following the
// operand byte at operandAddr. The sum wraps modulo 64K.
func branchTarget(operandAddr int, disp byte) uint16 {
	return uint16(int16(operandAddr+1) + int16(int8(disp)))
}
