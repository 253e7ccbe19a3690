package opcode

import (
	"github.com/invopop/jsonschema"
)

const keyPattern = "^[0-9a-fA-F]{2}$"

// JSONSchema describes Flag as a boolean or 0/1.
func (Flag) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "boolean"},
			{Type: "integer", Enum: []any{0, 1}},
		},
	}
}

// Schema returns the JSON schema of a table source file.
func Schema() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{DoNotReference: true}
	rec := reflector.Reflect(&Record{})
	rec.Version = ""
	rec.ID = ""

	return &jsonschema.Schema{
		Version:              jsonschema.Version,
		Title:                "6502 opcode table",
		Description:          "Map from two-hex-digit opcode to its mnemonic template",
		Type:                 "object",
		PatternProperties:    map[string]*jsonschema.Schema{keyPattern: rec},
		AdditionalProperties: jsonschema.FalseSchema,
	}
}
