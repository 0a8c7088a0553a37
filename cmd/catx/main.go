package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/CATX/cmd/catx/commands"
	"github.com/teranos/CATX/config"
	"github.com/teranos/CATX/logger"
)

var rootCmd = &cobra.Command{
	Use:   "catx",
	Short: "CATX - Catalog ingestion engine",
	Long: `CATX - Catalog ingestion engine.

CATX turns external location references (files, repositories, URLs) into
validated catalog entities by expanding each location through a chain of
processors in bounded rounds.

Available commands:
  read    - Ingest a location and print the resulting entities
  watch   - Re-ingest a file location whenever it changes
  config  - Show or initialize CATX configuration
  version - Show version and build information

Examples:
  catx read --type file --target ./catalog.yaml
  catx read --type repo --target github.com/acme/infra --json
  catx watch ./catalog.yaml
  catx config init`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		jsonOut, _ := cmd.Flags().GetBool("json")
		if err := logger.Initialize(jsonOut || cfg.Log.JSON); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if !jsonOut && cfg.Log.Level != "" && cfg.Log.Level != "info" {
			logger.SetLevel(cfg.Log.Level)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("json", false, "Output results in JSON format")

	rootCmd.AddCommand(commands.ReadCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
