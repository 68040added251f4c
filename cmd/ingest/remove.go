package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/ingest-service/internal/adapter/sqlite"
)

func newRemoveCommand(flags *rootFlags) *cobra.Command {
	var runID int64

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Delete an ingestion run and every article it recorded",
		Long: `Delete an ingestion run and every article it recorded.

The removed URLs become eligible for ingestion again on the next run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore(flags.configPath)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			ops := sqlite.NewOperationRepo(store)

			op, err := ops.Get(ctx, runID)
			if err != nil {
				return err
			}

			deleted, err := sqlite.NewArticleRepo(store).DeleteByOperation(ctx, runID)
			if err != nil {
				return err
			}
			if err := ops.Delete(ctx, runID); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "removed run %s and %d articles\n", shortID(op.RunID), deleted)
			return nil
		},
	}

	cmd.Flags().Int64Var(&runID, "run-id", 0, "operation id to remove")
	_ = cmd.MarkFlagRequired("run-id")

	return cmd
}
