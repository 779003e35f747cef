package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"bookstack/internal/diag"
	"bookstack/internal/diff"
	"bookstack/internal/schema"
	"bookstack/internal/sources"
)

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Reload a source, reassemble the collection, and show the diff",
	}
	cmd.AddCommand(newUpdateSourceCommand(ctx, "goodreads", "Refresh the reading-service export",
		func() string { return ctx.config.GoodreadsPath() }))
	cmd.AddCommand(newUpdateSourceCommand(ctx, "ebooks", "Refresh the ebook table",
		func() string { return ctx.config.EbooksPath() }))
	cmd.AddCommand(newUpdateSourceCommand(ctx, "scrape", "Refresh the scraped-override table",
		func() string { return ctx.config.ScrapedPath() }))
	cmd.AddCommand(newUpdateMetadataCommand(ctx))
	return cmd
}

// newUpdateSourceCommand builds one update subcommand. With --from a new
// source file replaces the stored one before reassembly; without it the
// stored sources are simply re-read, for diffing after hand edits.
func newUpdateSourceCommand(ctx *commandContext, name, short string, target func() string) *cobra.Command {
	var fromPath string

	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger().With(slog.String("run_id", uuid.NewString()))

			lock := flock.New(cfg.LockPath())
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("lock data dir: %w", err)
			}
			if !locked {
				return fmt.Errorf("another update is running (lock at %s)", cfg.LockPath())
			}
			defer func() { _ = lock.Unlock() }()

			if strings.TrimSpace(fromPath) != "" {
				if err := copyFile(fromPath, target()); err != nil {
					return fmt.Errorf("install new %s source: %w", name, err)
				}
				logger.Info("installed source file",
					slog.String("source", name), slog.String("path", target()))
			}

			findings := &diag.Collector{}
			previous, err := sources.LoadBooks(cfg.CollectionPath(), schema.SourceCollection, findings)
			if err != nil {
				return err
			}

			result, err := ctx.buildCollection()
			if err != nil {
				return err
			}
			next := result.Collection.Base()

			entries := diff.Compare(previous, next)
			renderDiff(cmd.OutOrStdout(), entries)

			if err := sources.WriteTable(cfg.CollectionPath(), schema.SourceCollection, next); err != nil {
				return err
			}
			logger.Info("updated collection",
				slog.String("source", name),
				slog.Int("rows", next.Len()),
				slog.Int("changes", len(entries)))
			return nil
		},
	}

	cmd.Flags().StringVar(&fromPath, "from", "", "Path to a freshly exported source file to install")
	return cmd
}

// renderDiff prints entries grouped by kind, then by work so edition swaps
// of one work stay together.
func renderDiff(out io.Writer, entries []diff.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No changes.")
		return
	}
	byKind := map[diff.Kind][]diff.Entry{}
	for _, e := range entries {
		byKind[e.Kind] = append(byKind[e.Kind], e)
	}
	for _, kind := range []diff.Kind{diff.KindStarted, diff.KindFinished, diff.KindAdded, diff.KindRemoved, diff.KindChanged} {
		group := byKind[kind]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(out, "%s (%d):\n", strings.ToUpper(string(kind)[:1])+string(kind)[1:], len(group))
		works := diff.GroupByWork(group)
		keys := make([]string, 0, len(works))
		for key := range works {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			for _, e := range works[key] {
				fmt.Fprintf(out, "  %s - %s\n", e.Author, e.Title)
				for _, field := range e.Fields {
					fmt.Fprintf(out, "    %s: %s -> %s\n", field.Column, displayValue(field.Old), displayValue(field.New))
				}
			}
		}
	}
}

func displayValue(v string) string {
	if v == "" {
		return "(unset)"
	}
	return v
}

func copyFile(from, to string) error {
	src, err := os.Open(from)
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := os.Create(to)
	if err != nil {
		return err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	return dst.Close()
}
