package opcode

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"sync"
)

// ErrInvalidTable is wrapped by every table construction failure.
var ErrInvalidTable = errors.New("invalid opcode table")

// Opcode map adapted from https://www.awsm.de/blog/pydisass/ (documented
// NMOS opcodes only).
//
//go:embed opcodes.json
var defaultSource []byte

// Default returns the table built from the embedded opcode map. It is
// constructed on first use and shared afterwards.
var Default = sync.OnceValues(func() (*Table, error) {
	return Parse(defaultSource)
})

// Record is one entry of the JSON source, keyed by the two-hex-digit
// opcode.
type Record struct {
	Ins string `json:"ins" jsonschema:"title=Instruction,description=Mnemonic template with hh/ll operand placeholders,minLength=1"`
	Rel *Flag  `json:"rel,omitempty" jsonschema:"title=Relative,description=Operand is a signed branch displacement"`
}

// Flag accepts either a JSON boolean or the integers 0 and 1.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true", "1":
		*f = true
	case "false", "0", "null":
		*f = false
	default:
		return fmt.Errorf("rel must be a boolean, 0 or 1, got %s", data)
	}
	return nil
}

// Load reads and parses a table file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	return Parse(data)
}

// Parse validates a JSON source and builds a table from it. All problems
// found are reported together.
func Parse(data []byte) (*Table, error) {
	raw, errs := scanObject(data)
	if raw == nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTable, errors.Join(errs...))
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := &Table{}
	for _, key := range keys {
		b, err := parseKey(key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if t.present[b] {
			errs = append(errs, fmt.Errorf("key %q: opcode %02x defined twice", key, b))
			continue
		}
		d, err := parseRecord(raw[key])
		if err != nil {
			errs = append(errs, fmt.Errorf("key %q: %w", key, err))
			continue
		}
		t.entries[b] = d
		t.present[b] = true
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTable, errors.Join(errs...))
	}
	return t, nil
}

// scanObject splits a JSON object into its members, reporting keys that
// appear more than once. A nil map means the document is not an object.
func scanObject(data []byte) (map[string]json.RawMessage, []error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil {
		return nil, []error{err}
	} else if tok != json.Delim('{') {
		return nil, []error{fmt.Errorf("want a JSON object, got %v", tok)}
	}

	members := make(map[string]json.RawMessage)
	var errs []error
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, []error{err}
		}
		key := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, []error{fmt.Errorf("key %q: %w", key, err)}
		}
		if _, dup := members[key]; dup {
			errs = append(errs, fmt.Errorf("key %q: defined twice", key))
			continue
		}
		members[key] = value
	}
	if _, err := dec.Token(); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, []error{err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, []error{errors.New("unexpected data after the table object")}
	}
	return members, errs
}

func parseKey(key string) (byte, error) {
	if len(key) != 2 {
		return 0, fmt.Errorf("key %q: want two hex digits", key)
	}
	v, err := strconv.ParseUint(key, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("key %q: want two hex digits", key)
	}
	return byte(v), nil
}

func parseRecord(data json.RawMessage) (Descriptor, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return Descriptor{}, err
	}
	if rec.Ins == "" {
		return Descriptor{}, errors.New(`missing "ins"`)
	}

	tmpl, err := ParseTemplate(rec.Ins)
	if err != nil {
		return Descriptor{}, err
	}
	d := Descriptor{Template: tmpl}
	if rec.Rel != nil {
		d.Relative = bool(*rec.Rel)
	}
	if d.Relative && tmpl.Operands() != 1 {
		return Descriptor{}, fmt.Errorf("relative template %q must have exactly one operand", rec.Ins)
	}
	return d, nil
}
