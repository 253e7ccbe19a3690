// Package opcode holds the immutable 6502 opcode table used by the
// disassembler. A table is built once from a JSON source, validated at
// construction, and is safe for concurrent lookups afterwards.
package opcode

// Descriptor describes one opcode byte.
type Descriptor struct {
	Template Template
	// Relative marks branch instructions whose operand is a signed
	// displacement from the following instruction.
	Relative bool
}

// Len is the full instruction length in bytes, opcode included.
func (d Descriptor) Len() int { return 1 + d.Template.Operands() }

// Table maps every byte value to an optional descriptor.
type Table struct {
	entries [256]Descriptor
	present [256]bool
}

// Lookup returns the descriptor for b, or false when b is not a known
// opcode.
func (t *Table) Lookup(b byte) (Descriptor, bool) {
	return t.entries[b], t.present[b]
}

// Len returns the number of populated opcodes.
func (t *Table) Len() int {
	n := 0
	for _, ok := range t.present {
		if ok {
			n++
		}
	}
	return n
}
