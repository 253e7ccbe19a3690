package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"dis6502/internal/config"
	"dis6502/internal/dis6502/log"
	"dis6502/internal/opcode"
)

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a JSON config file")
	rootCmd.PersistentFlags().StringP("table", "t", "", "Path to a JSON opcode table (default: built-in)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(viewCmd)
}

var rootCmd = &cobra.Command{
	Use:   "dis6502",
	Short: "6502 machine code disassembler",
	Long: `dis6502 decodes raw 6502 machine code into a mnemonic listing.
Each line carries the address, the raw bytes consumed and the instruction.`,
	Example: `
# Print the listing of a binary image
dis6502 dump rom.bin

# Decode a window of the image
dis6502 dump --start 0x10 --end 0x40 rom.bin

# Serve the HTTP decode endpoint
dis6502 serve --addr 127.0.0.1:9999
  `,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log.Setup(cfg.Debug)
		slog.Debug("Configuration loaded", "addr", cfg.Addr, "table", cfg.Table, "noColor", cfg.NoColor)
		return nil
	},
}

// loadConfig merges the config file, environment and persistent flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if cmd.Flags().Changed("table") {
		cfg.Table, _ = cmd.Flags().GetString("table")
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug, _ = cmd.Flags().GetBool("debug")
	}
	return cfg, nil
}

// loadTable returns the configured opcode table. Table errors are fatal
// to the command.
func loadTable(cfg config.Config) (*opcode.Table, error) {
	if cfg.Table == "" {
		return opcode.Default()
	}
	t, err := opcode.Load(cfg.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to load opcode table %s: %w", cfg.Table, err)
	}
	slog.Debug("Loaded opcode table", "path", cfg.Table, "opcodes", t.Len())
	return t, nil
}

// parseAddr accepts decimal or 0x-prefixed 16-bit addresses.
func parseAddr(s string) (*uint16, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", s, err)
	}
	a := uint16(v)
	return &a, nil
}

func Execute() {
	err := execute()
	// os.Exit skips deferred calls; flush the log file first.
	log.Close()
	if err != nil {
		os.Exit(1)
	}
}

func execute() error {
	// fang renders help and errors as styled markdown; plain cobra keeps
	// piped output clean.
	if !term.IsTerminal(os.Stdout.Fd()) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return rootCmd.ExecuteContext(ctx)
	}

	return fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithNotifySignal(os.Interrupt),
	)
}
