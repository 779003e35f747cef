package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bookstack/internal/lint"
	"bookstack/internal/record"
	"bookstack/internal/schedule"
)

func newLintCommand(ctx *commandContext) *cobra.Command {
	var listChecks bool

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Run consistency checks against the collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if listChecks {
				for _, check := range lint.Checks() {
					fmt.Fprintln(out, check.Name)
				}
				return nil
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			result, err := ctx.buildCollection()
			if err != nil {
				return err
			}

			diagnostics := result.Diagnostics
			if len(cfg.Scheduled) > 0 {
				assignments, err := schedule.Compute(result.Collection, cfg.Scheduled, record.DateOf(time.Now()))
				if err != nil {
					return err
				}
				diagnostics = append(diagnostics, applyAssignments(result.Collection, assignments)...)
			}

			findings := lint.Run(result.Collection, diagnostics)
			if len(findings) == 0 {
				fmt.Fprintln(out, "No findings.")
				return nil
			}

			headers := []string{"Check", "Book", "Finding"}
			rows := make([][]string, 0, len(findings))
			for _, f := range findings {
				rows = append(rows, []string{f.Check, f.BookID, f.Message})
			}
			fmt.Fprintln(out, renderTable(headers, rows, nil))
			fmt.Fprintf(out, "%d finding(s)\n", len(findings))
			return nil
		},
	}

	cmd.Flags().BoolVar(&listChecks, "list", false, "List registered checks without running them")
	return cmd
}
