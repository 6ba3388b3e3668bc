// Package cli implements the codoc command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"codoc/internal/config"
	"codoc/internal/logging"
)

// cfg is loaded once in the root PersistentPreRunE and shared by the
// subcommands.
var cfg *config.Config

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	var debug bool

	cmd := &cobra.Command{
		Use:           "codoc",
		Short:         "codoc — generate documentation for code and repositories with an LLM",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := config.Init(cfgFile); err != nil {
				return err
			}
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			if debug {
				cfg.Logging.Level = "debug"
			}
			logging.Init(cfg.Logging)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/codoc/config.yaml)")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		analyzeCmd(),
		readmeCmd(),
		serveCmd(),
		cacheCmd(),
		versionCmd(),
	)
	return cmd
}
