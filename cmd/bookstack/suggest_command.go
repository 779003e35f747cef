package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"bookstack/internal/record"
)

func newSuggestCommand(ctx *commandContext) *cobra.Command {
	var filters filterFlags
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest what to read next",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := ctx.buildCollection()
			if err != nil {
				return err
			}
			c := result.Collection

			// Default to the backlog shelf, but step aside when the
			// user narrowed by shelf themselves.
			if !filters.shelfFiltered() {
				c.Shelves([]string{string(record.ShelfToRead)}, false)
			}
			if err := filters.apply(c); err != nil {
				return err
			}

			books := c.Current()
			// Oldest on the shelf first; the backlog's tail is the
			// suggestion's head.
			sort.SliceStable(books, func(i, j int) bool {
				ai, aj := books[i].Added, books[j].Added
				if (ai == nil) != (aj == nil) {
					return aj == nil
				}
				if ai != nil && !ai.Equal(*aj) {
					return ai.Before(*aj)
				}
				return books[i].ID < books[j].ID
			})
			if limit > 0 && len(books) > limit {
				books = books[:limit]
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderBooks(books))
			return nil
		},
	}

	filters.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of suggestions")
	return cmd
}

func renderBooks(books []*record.Book) string {
	headers := []string{"Author", "Title", "Series", "Pages", "Added"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		series := b.Series
		if series != "" && b.Entry != "" {
			series = fmt.Sprintf("%s #%s", series, b.Entry)
		}
		rows = append(rows, []string{
			b.Author,
			b.Title,
			series,
			formatPages(b.Pages),
			formatDate(b.Added),
		})
	}
	return renderTable(headers, rows, aligns)
}

func formatPages(pages *float64) string {
	if pages == nil {
		return ""
	}
	return strconv.FormatFloat(*pages, 'f', 0, 64)
}

func formatDate(d *record.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
