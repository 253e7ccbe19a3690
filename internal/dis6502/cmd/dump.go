package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"dis6502/internal/dis6502/styles"
	"dis6502/internal/disasm"
	"dis6502/internal/image"
	"dis6502/internal/opcode"
	"dis6502/internal/server"
	"dis6502/internal/ui/colorize"
)

type dumpOptions struct {
	start    *uint16
	end      *uint16
	json     bool
	markdown bool
	width    int
}

var dumpCmd = &cobra.Command{
	Use:   "dump [file]",
	Short: "Print the listing of a binary image",
	Long: `Disassemble a binary image and print one line per instruction.
Reads standard input when no file (or "-") is given.`,
	Example: `
# Whole image
dis6502 dump rom.bin

# A window, as JSON
dis6502 dump --start 0x0200 --end 0x0300 --json rom.bin

# Markdown report
cat rom.bin | dis6502 dump --markdown
  `,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		name := "-"
		if len(args) == 1 {
			name = args[0]
		}
		img, err := readInput(name)
		if err != nil {
			return err
		}

		opts := dumpOptions{width: 80}
		startStr, _ := cmd.Flags().GetString("start")
		if opts.start, err = parseAddr(startStr); err != nil {
			return err
		}
		endStr, _ := cmd.Flags().GetString("end")
		if opts.end, err = parseAddr(endStr); err != nil {
			return err
		}
		opts.json, _ = cmd.Flags().GetBool("json")
		opts.markdown, _ = cmd.Flags().GetBool("markdown")

		noColor, _ := cmd.Flags().GetBool("no-color")
		if noColor || cfg.NoColor || !term.IsTerminal(os.Stdout.Fd()) {
			os.Setenv("DIS6502_NO_COLOR", "1")
		}
		if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
			opts.width = w
		}

		table, err := loadTable(cfg)
		if err != nil {
			return err
		}
		return runDump(cmd.OutOrStdout(), table, img, opts)
	},
}

func init() {
	dumpCmd.Flags().StringP("start", "s", "", "First address to decode")
	dumpCmd.Flags().StringP("end", "e", "", "Address to stop before (must lie inside the image)")
	dumpCmd.Flags().BoolP("json", "j", false, "Output {\"disassembly\": [...]} as JSON")
	dumpCmd.Flags().BoolP("markdown", "m", false, "Render a markdown report")
	dumpCmd.Flags().BoolP("no-color", "n", false, "Disable highlighting")
}

// readInput opens the named image, or standard input for "-".
func readInput(name string) (*image.Image, error) {
	if name == "" || name == "-" {
		if term.IsTerminal(os.Stdin.Fd()) {
			return nil, errors.New("no input: pass a file or pipe data on stdin")
		}
		return image.Read("stdin", os.Stdin)
	}
	return image.Open(name)
}

// runDump validates the requested window the same way the HTTP endpoint
// does and writes the listing in the selected format.
func runDump(w io.Writer, table *opcode.Table, img *image.Image, opts dumpOptions) error {
	data := img.Data
	if err := server.ValidateBounds(len(data), opts.start, opts.end); err != nil {
		return err
	}
	rng := disasm.Resolve(opts.start, opts.end, len(data))

	stream, err := disasm.Disassemble(table, data, rng)
	if err != nil {
		return err
	}
	slog.Debug("Decoded image", "file", img.Name, "format", img.Format, "bytes", len(data), "instructions", len(stream))

	switch {
	case opts.json:
		out, err := json.MarshalIndent(server.Output{Disassembly: stream.Lines()}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(out))
	case opts.markdown:
		renderer, err := styles.GetMarkdownRenderer(opts.width - 2)
		if err != nil {
			return fmt.Errorf("failed to create markdown renderer: %w", err)
		}
		rendered, err := renderer.Render(report(img, rng, stream))
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		fmt.Fprint(w, rendered)
	default:
		if len(stream) > 0 {
			fmt.Fprintln(w, colorize.Listing(stream))
		}
	}
	return nil
}

// report builds the markdown summary of a decoded window.
func report(img *image.Image, rng disasm.Range, stream disasm.Stream) string {
	unknown := 0
	for _, inst := range stream {
		if !inst.Known() {
			unknown++
		}
	}

	var b strings.Builder
	b.WriteString("# dis6502\n\n")
	fmt.Fprintf(&b, "- **File**: `%s` (%s)\n", img.Name, img.Format)
	fmt.Fprintf(&b, "- **Size**: %d bytes\n", len(img.Data))
	if img.Truncated() {
		fmt.Fprintf(&b, "- **Truncated**: from %d bytes\n", img.Size)
	}
	fmt.Fprintf(&b, "- **SHA-256**: `%s`\n", img.Digest())
	fmt.Fprintf(&b, "- **Range**: `0x%04X`-`0x%04X`\n", rng.Start, rng.End)
	fmt.Fprintf(&b, "- **Instructions**: %d (%d unknown)\n\n", len(stream), unknown)
	b.WriteString("## Listing\n\n```\n")
	for _, line := range stream.Lines() {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("```\n")
	return b.String()
}
