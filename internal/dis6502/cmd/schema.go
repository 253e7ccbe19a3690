package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"dis6502/internal/config"
	"dis6502/internal/opcode"
)

var schemaCmd = &cobra.Command{
	Use:    "schema",
	Short:  "Generate JSON schema for configuration",
	Long:   "Generate JSON schema for the dis6502 configuration, or for opcode table files with --table-format",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		schema := config.Schema()
		if tableFormat, _ := cmd.Flags().GetBool("table-format"); tableFormat {
			schema = opcode.Schema()
		}

		bts, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal schema: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(bts))
		return nil
	},
}

func init() {
	schemaCmd.Flags().Bool("table-format", false, "Print the opcode table schema instead")
	rootCmd.AddCommand(schemaCmd)
}
