// Package colorize highlights 6502 listing lines for terminal output.
package colorize

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss/v2"

	"dis6502/internal/config"
	"dis6502/internal/disasm"
)

var (
	addrStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	bytesStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	unknownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

// Disabled reports whether highlighting is turned off via DIS6502_NO_COLOR.
func Disabled() bool {
	return config.EnvFlag("DIS6502_NO_COLOR")
}

// getAssemblyLexer returns a 6502 assembly lexer with fallbacks
func getAssemblyLexer() chroma.Lexer {
	candidates := []string{"ca65", "nasm"}
	for _, name := range candidates {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

// getDisasmStyle returns the disassembly style with fallbacks
func getDisasmStyle() *chroma.Style {
	candidates := []string{"disasm-dark", "dracula", "monokai"}
	for _, name := range candidates {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

// getTerminalFormatter returns an appropriate terminal formatter
func getTerminalFormatter() chroma.Formatter {
	candidates := []string{"terminal16m", "terminal256"}
	for _, name := range candidates {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// ColorizeAssembly highlights a block of 6502 assembly text.
func ColorizeAssembly(code string) (string, error) {
	if Disabled() {
		return code, nil
	}

	lexer := getAssemblyLexer()
	if lexer == nil {
		return code, nil
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code, err
	}

	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getDisasmStyle(), iterator); err != nil {
		return code, err
	}
	return buf.String(), nil
}

// Instruction renders one listing line: address and raw bytes in gray,
// the mnemonic through chroma. Unknown opcodes are flagged in red.
func Instruction(inst disasm.Inst) string {
	if Disabled() {
		return inst.String()
	}

	addr, _, _ := strings.Cut(inst.String(), " ")

	var text string
	if inst.Known() {
		colored, err := ColorizeAssembly(inst.Text)
		if err != nil {
			colored = inst.Text
		}
		text = strings.ReplaceAll(colored, "\n", "")
	} else {
		text = unknownStyle.Render(inst.Text)
	}

	return addrStyle.Render(addr) + " " + bytesStyle.Render(inst.Hex()) + " " + text
}

// Listing renders every instruction of a stream, one per line.
func Listing(stream disasm.Stream) string {
	lines := make([]string, len(stream))
	for i, inst := range stream {
		lines[i] = Instruction(inst)
	}
	return strings.Join(lines, "\n")
}
