package opcode

import (
	"fmt"
	"strings"
)

// Placeholder markers embedded in source templates.
const (
	// HighMarker stands for the single operand byte, or the high byte of a
	// 16-bit operand.
	HighMarker = "hh"
	// LowMarker stands for the low byte of a 16-bit operand.
	LowMarker = "ll"
)

type slot uint8

const (
	slotNone slot = iota
	slotHigh
	slotLow
)

// segment is a literal run of template text, optionally followed by an
// operand slot.
type segment struct {
	text string
	slot slot
}

// Template is a mnemonic template parsed once into literal segments and
// operand slots. Rendering writes the segments in order, so operand text
// is never rescanned for markers.
type Template struct {
	source   string
	segments []segment
	operands int
}

// ParseTemplate splits src on the hh/ll markers. A template may carry at
// most two markers, and a two-operand template must use each marker once.
func ParseTemplate(src string) (Template, error) {
	t := Template{source: src}

	var (
		lit   strings.Builder
		seen  = map[slot]int{}
		count int
	)
	for i := 0; i < len(src); {
		var s slot
		switch {
		case strings.HasPrefix(src[i:], HighMarker):
			s = slotHigh
		case strings.HasPrefix(src[i:], LowMarker):
			s = slotLow
		}
		if s == slotNone {
			lit.WriteByte(src[i])
			i++
			continue
		}
		t.segments = append(t.segments, segment{text: lit.String(), slot: s})
		lit.Reset()
		seen[s]++
		count++
		i += 2
	}
	if lit.Len() > 0 || len(t.segments) == 0 {
		t.segments = append(t.segments, segment{text: lit.String()})
	}

	switch {
	case count > 2:
		return Template{}, fmt.Errorf("template %q has %d placeholders, at most 2 allowed", src, count)
	case count == 2 && (seen[slotHigh] != 1 || seen[slotLow] != 1):
		return Template{}, fmt.Errorf("template %q must use %s and %s once each", src, HighMarker, LowMarker)
	}
	t.operands = count
	return t, nil
}

// String returns the template as written in the source table.
func (t Template) String() string { return t.source }

// Operands is the number of operand bytes following the opcode (0, 1 or 2).
func (t Template) Operands() int { return t.operands }

// Render fills the operand slots. For a one-operand template the only slot
// receives low; for two operands the ll slot receives low and the hh slot
// receives high.
func (t Template) Render(low, high string) string {
	if t.operands == 0 {
		return t.source
	}

	var b strings.Builder
	b.Grow(len(t.source) + 2)
	for _, seg := range t.segments {
		b.WriteString(seg.text)
		switch {
		case seg.slot == slotNone:
		case t.operands == 1, seg.slot == slotLow:
			b.WriteString(low)
		default:
			b.WriteString(high)
		}
	}
	return b.String()
}
