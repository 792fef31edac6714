package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spiketrade/spiketrade/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Write the default configuration to a file so it can be edited.
The format follows the extension: .yaml/.yml for YAML, anything else JSON.

Example:
  spiketrade config init config.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Write the default config to <path>",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Default().SaveToFile(args[0]); err != nil {
			return err
		}
		fmt.Println("wrote", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
}
