package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhipatel2005/cergen/cmd/cergen/commands"
	"github.com/abhipatel2005/cergen/cmd/cergen/opts"
)

var (
	// Flags
	configFile string
	debug      bool
)

// newRootCmd creates the root command with all subcommands attached
func newRootCmd(o *opts.RootOpts) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cergen",
		Short: "Generate personalized certificates from a PPTX template",
		Long: `cergen fills {{placeholder}} tokens in a PowerPoint template with data
from a list of records, producing one document per record and optionally
converting each to PDF through LibreOffice. A JSON summary of the batch is
written to stdout; human progress goes to stderr.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
			o.ConfigFile = configFile
			o.ConfigSet = cmd.Flags().Changed("config")
		},
	}

	addRootFlags(rootCmd)

	rootCmd.AddCommand(
		commands.NewGenerateCmd(o),
		commands.NewStatusCmd(o),
		commands.NewCleanCmd(o),
		newVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", ".cergen.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags. The default level keeps
// stderr quiet so the console progress lines stand on their own.
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}
