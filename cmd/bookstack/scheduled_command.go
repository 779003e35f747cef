package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bookstack/internal/collection"
	"bookstack/internal/diag"
	"bookstack/internal/record"
	"bookstack/internal/schedule"
)

func newScheduledCommand(ctx *commandContext) *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "scheduled",
		Short: "Show the reading schedule computed from configured plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			result, err := ctx.buildCollection()
			if err != nil {
				return err
			}
			c := result.Collection

			today := record.DateOf(time.Now())
			assignments, err := schedule.Compute(c, cfg.Scheduled, today)
			if err != nil {
				return err
			}
			for _, finding := range applyAssignments(c, assignments) {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", finding.String())
			}

			if err := filters.apply(c); err != nil {
				return err
			}
			c.Scheduled(false)

			books := c.Current()
			headers := []string{"Scheduled", "Author", "Title", "Pages"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight}
			rows := make([][]string, 0, len(books))
			for _, b := range books {
				rows = append(rows, []string{
					formatDate(b.Scheduled),
					b.Author,
					b.Title,
					formatPages(b.Pages),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}

	filters.register(cmd)
	return cmd
}

// applyAssignments writes the assignments into the collection and returns
// any plan-overlap diagnostics raised on the way.
func applyAssignments(c *collection.Collection, assignments []schedule.Assignment) []diag.Diagnostic {
	findings := &diag.Collector{}
	schedule.Apply(c, assignments, findings)
	return findings.Findings()
}
