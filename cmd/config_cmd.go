package cmd

import (
	"fmt"

	"github.com/nconklindev/capview/internal/config"

	"github.com/spf13/cobra"
)

var flagInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,

	// --init writes the file, so it must not require one to exist.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagInit {
			return nil
		}
		return loadConfig(cmd, args)
	},
}

func init() {
	configCmd.Flags().BoolVar(&flagInit, "init", false, "Write the default configuration file")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	if flagInit {
		path := flagConfig
		if path == "" {
			path = config.ConfigPath()
		}
		if err := config.Save(config.DefaultConfig(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	}

	return config.Encode(cmd.OutOrStdout(), cfg)
}
