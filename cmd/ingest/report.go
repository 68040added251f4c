package main

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/user/ingest-service/internal/adapter/sqlite"
	"github.com/user/ingest-service/internal/entity"
)

func newReportCommand(flags *rootFlags) *cobra.Command {
	var runID int64

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show a per-domain breakdown for one ingestion run",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore(flags.configPath)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			op, err := sqlite.NewOperationRepo(store).Get(ctx, runID)
			if err != nil {
				return err
			}

			articles, err := sqlite.NewArticleRepo(store).ListByOperation(ctx, runID)
			if err != nil {
				return err
			}

			type domainStats struct {
				succeeded int
				failed    int
				kinds     map[entity.ErrorKind]int
			}
			stats := make(map[string]*domainStats)
			for _, a := range articles {
				s, ok := stats[a.URLDomain]
				if !ok {
					s = &domainStats{kinds: make(map[entity.ErrorKind]int)}
					stats[a.URLDomain] = s
				}
				if a.Status == entity.ArticleStatusSuccess {
					s.succeeded++
				} else {
					s.failed++
					s.kinds[a.ErrorKind]++
				}
			}

			domains := make([]string, 0, len(stats))
			for domain := range stats {
				domains = append(domains, domain)
			}
			sort.Strings(domains)

			fmt.Fprintf(cmd.OutOrStdout(), "run %s (%s), started %s: attempted=%d succeeded=%d failed=%d\n",
				shortID(op.RunID), op.Status, formatTime(&op.StartedAt),
				op.ArticlesAttempted, op.ArticlesSucceeded, op.ArticlesFailed,
			)

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Domain", "OK", "Failed", "Errors"})
			for _, domain := range domains {
				s := stats[domain]
				t.AppendRow(table.Row{domain, s.succeeded, s.failed, formatKinds(s.kinds)})
			}
			t.Render()

			return nil
		},
	}

	cmd.Flags().Int64Var(&runID, "run-id", 0, "operation id to report on")
	_ = cmd.MarkFlagRequired("run-id")

	return cmd
}

func formatKinds(kinds map[entity.ErrorKind]int) string {
	if len(kinds) == 0 {
		return "-"
	}
	names := make([]string, 0, len(kinds))
	for kind := range kinds {
		names = append(names, string(kind))
	}
	sort.Strings(names)

	out := ""
	for i, name := range names {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s=%d", name, kinds[entity.ErrorKind(name)])
	}
	return out
}
