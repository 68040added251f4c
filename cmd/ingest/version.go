package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Overridable at build time with -ldflags "-X main.version=...".
var version = "dev"

const appName = "ingest-service"

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application name and version",
		Run: func(cmd *cobra.Command, args []string) {
			name := appName
			if env := os.Getenv("APP_NAME"); env != "" {
				name = env
			}
			v := version
			if env := os.Getenv("APP_VERSION"); env != "" {
				v = env
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", name, v)
		},
	}
}
