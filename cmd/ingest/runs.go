package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/user/ingest-service/internal/adapter/sqlite"
)

func newRunsCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List past ingestion runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore(flags.configPath)
			if err != nil {
				return err
			}
			defer store.Close()

			ops, err := sqlite.NewOperationRepo(store).List(cmd.Context())
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"ID", "Run", "Started", "Finished", "Status", "Attempted", "OK", "Failed", "Commit"})
			for _, op := range ops {
				started := op.StartedAt
				t.AppendRow(table.Row{
					op.ID,
					shortID(op.RunID),
					formatTime(&started),
					formatTime(op.FinishedAt),
					string(op.Status),
					op.ArticlesAttempted,
					op.ArticlesSucceeded,
					op.ArticlesFailed,
					shortID(op.GitCommit),
				})
			}
			t.Render()

			return nil
		},
	}
}
