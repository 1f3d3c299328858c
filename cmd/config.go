package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/clientbook/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or change the configuration file",
	// The file may be invalid; these commands must still be able to fix it.
	PersistentPreRunE: func(*cobra.Command, []string) error {
		configFilePath = resolveConfigPath()
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), configFilePath)
		return err
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a dotted config key",
	Long: `Set a single dotted key in the config file, keeping comments and the
rest of the file intact.

Examples:
  clientbook config set storage.backend sqlite
  clientbook config set ui.notification_timeout 3s`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetValue(configFilePath, args[0], args[1]); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", args[0], args[1], configFilePath)
		return err
	},
}

func init() {
	configCmd.AddCommand(configPathCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
