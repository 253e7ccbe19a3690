package cmd

import (
	"github.com/spf13/cobra"

	"dis6502/internal/dis6502/log"
	"dis6502/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP decode endpoint",
	Long: `Serve POST / accepting {"data": [...], "start_address": n, "end_address": n}
and answering {"disassembly": [...]} or {"message": "..."}.`,
	Example: `
# Listen on the default address
dis6502 serve

# Decode a request
curl -d '{"data": [169, 189, 160, 189, 32, 40, 186]}' http://127.0.0.1:9999/
  `,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr, _ = cmd.Flags().GetString("addr")
		}

		table, err := loadTable(cfg)
		if err != nil {
			return err
		}

		srv := server.New(table, log.Logger())
		return srv.Run(cmd.Context(), cfg.Addr)
	},
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "", "Listen address (default from config, 127.0.0.1:9999)")
}
