package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"dis6502/internal/disasm"
	"dis6502/internal/opcode"
)

// Validation failures reported to clients verbatim.
var (
	ErrTooLarge         = errors.New("Data exceeds the 64K address space")
	ErrStartOutOfBounds = errors.New("Start address is out of bounds")
	ErrEndOutOfBounds   = errors.New("End address is out of bounds")
	ErrStartAfterEnd    = errors.New("Start address must be less than end address")
)

// Bytes is a byte buffer carried as a JSON array of integers.
type Bytes []byte

func (b *Bytes) UnmarshalJSON(data []byte) error {
	var vals []int
	if err := json.Unmarshal(data, &vals); err != nil {
		return err
	}
	out := make([]byte, len(vals))
	for i, v := range vals {
		if v < 0 || v > 0xff {
			return fmt.Errorf("data[%d]: %d is not a byte", i, v)
		}
		out[i] = byte(v)
	}
	*b = out
	return nil
}

func (b Bytes) MarshalJSON() ([]byte, error) {
	vals := make([]int, len(b))
	for i, v := range b {
		vals[i] = int(v)
	}
	return json.Marshal(vals)
}

// Payload is the decode request body.
type Payload struct {
	Data         Bytes   `json:"data"`
	StartAddress *uint16 `json:"start_address,omitempty"`
	EndAddress   *uint16 `json:"end_address,omitempty"`
}

// Output is the successful response body.
type Output struct {
	Disassembly []string `json:"disassembly"`
}

// Error is the failure response body.
type Error struct {
	Message string `json:"message"`
}

// Validate checks the requested bounds against the buffer.
func (p Payload) Validate() error {
	return ValidateBounds(len(p.Data), p.StartAddress, p.EndAddress)
}

// ValidateBounds checks optional start and end addresses against a buffer
// of n bytes. The end bound must lie strictly inside the buffer when given.
func ValidateBounds(n int, start, end *uint16) error {
	switch {
	case n > disasm.AddressSpace:
		return ErrTooLarge
	case start != nil && int(*start) >= n:
		return ErrStartOutOfBounds
	case end != nil && int(*end) >= n:
		return ErrEndOutOfBounds
	case start != nil && end != nil && *start >= *end:
		return ErrStartAfterEnd
	}
	return nil
}

// Decode validates p and returns the listing lines.
func Decode(t *opcode.Table, p Payload) ([]string, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	stream, err := disasm.Disassemble(t, p.Data, disasm.Resolve(p.StartAddress, p.EndAddress, len(p.Data)))
	if err != nil {
		return nil, err
	}
	return stream.Lines(), nil
}
