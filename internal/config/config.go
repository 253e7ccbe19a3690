// Package config loads the dis6502 configuration file and applies
// environment overrides.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/invopop/jsonschema"
)

// DefaultAddr is the HTTP listen address used when none is configured.
const DefaultAddr = "127.0.0.1:9999"

// Config represents configuration for the dis6502 tool
type Config struct {
	Addr    string `json:"addr,omitempty" jsonschema:"title=Listen Address,description=host:port served by dis6502 serve,default=127.0.0.1:9999"`
	Table   string `json:"table,omitempty" jsonschema:"title=Opcode Table,description=Path to a JSON opcode table replacing the built-in one"`
	Debug   bool   `json:"debug,omitempty" jsonschema:"title=Debug,description=Enable debug logging"`
	NoColor bool   `json:"noColor,omitempty" jsonschema:"title=No Color,description=Disable listing highlighting"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{Addr: DefaultAddr}
}

// Load reads the file at path over the defaults and then applies
// DIS6502_ADDR, DIS6502_TABLE and DIS6502_NO_COLOR. An empty path or a
// missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("failed to read config: %w", err)
		default:
			dec := json.NewDecoder(bytes.NewReader(data))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("DIS6502_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("DIS6502_TABLE"); v != "" {
		cfg.Table = v
	}
	if os.Getenv("DIS6502_NO_COLOR") != "" {
		cfg.NoColor = EnvFlag("DIS6502_NO_COLOR")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	return cfg, nil
}

// EnvFlag reports whether the named variable is set. Values strconv
// recognises as false ("0", "false", ...) clear it; any other non-empty
// value sets it.
func EnvFlag(name string) bool {
	v := os.Getenv(name)
	if v == "" {
		return false
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return true
}

// Schema returns the JSON schema of the configuration file.
func Schema() *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	return reflector.Reflect(&Config{})
}
