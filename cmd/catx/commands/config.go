package commands

import (
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/CATX/config"
)

// ConfigCmd groups configuration subcommands.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialize CATX configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		data, err := toml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter catx.toml with the built-in defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		pterm.Success.Printf("Wrote %s", path)
		pterm.Println()
		return nil
	},
}

func init() {
	configInitCmd.Flags().String("path", "catx.toml", "Where to write the config file")
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configInitCmd)
}
