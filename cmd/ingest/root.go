package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/user/ingest-service/pkg/logger"
	"github.com/user/ingest-service/pkg/metrics"
)

type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "ingest",
		Short:         "Deduplicated, provenance-stamped RSS article ingestion",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(os.Stdout, logger.Level(flags.verbose))
			metrics.Init()
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "config/scraping.yaml", "path to the YAML scraping configuration")
	cmd.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "enable debug logging")

	cmd.AddCommand(
		newRunCommand(flags),
		newRunsCommand(flags),
		newReportCommand(flags),
		newRemoveCommand(flags),
		newVersionCommand(),
	)

	return cmd
}
