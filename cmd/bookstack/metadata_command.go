package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"bookstack/internal/diag"
	"bookstack/internal/diff"
	"bookstack/internal/lookupcache"
	"bookstack/internal/record"
	"bookstack/internal/remote"
	"bookstack/internal/schema"
	"bookstack/internal/sources"
)

// fetchedFields is what a metadata pass may fill on a book. All six are
// work-level or safe to backfill; owned-copy columns stay untouched.
var fetchedFields = []remote.Field{
	remote.FieldWork,
	remote.FieldPublished,
	remote.FieldPages,
	remote.FieldSeries,
	remote.FieldEntry,
	remote.FieldLanguage,
}

// newUpdateMetadataCommand fills missing work metadata from the remote
// catalogs, resolving author and series ids through the lookup cache so a
// re-run only pays for names it has never seen.
func newUpdateMetadataCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Fetch missing work metadata from remote catalogs",
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

			cache, err := lookupcache.Open(cfg.LookupCachePath())
			if err != nil {
				return fmt.Errorf("open lookup cache: %w", err)
			}
			defer cache.Close()
			fetcher := remote.NewFetcher(remote.NewWebClient(logger), cache, logger)

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

			touched, err := enrichMetadata(cmd.Context(), fetcher, next, limit, logger)
			if err != nil {
				return err
			}

			entries := diff.Compare(previous, next)
			renderDiff(cmd.OutOrStdout(), entries)

			if err := sources.WriteTable(cfg.CollectionPath(), schema.SourceCollection, next); err != nil {
				return err
			}
			logger.Info("fetched metadata",
				slog.Int("books", touched),
				slog.Int("changes", len(entries)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 25, "Maximum books to query per run (0 for no limit)")
	return cmd
}

// enrichMetadata walks the table and fetches the missing fields for books
// that lack any, stopping after limit books so one run stays inside the
// catalogs' rate limits. Id lookups that find nothing are logged and
// skipped; the row keeps its other fetched fields.
func enrichMetadata(ctx context.Context, fetcher *remote.Fetcher, t *record.Table, limit int, logger *slog.Logger) (int, error) {
	touched := 0
	for _, b := range t.Books() {
		if b.Title == "" || !missingMetadata(b) {
			continue
		}
		if limit > 0 && touched >= limit {
			break
		}
		if err := fetcher.Fetch(ctx, b, fetchedFields); err != nil {
			return touched, err
		}
		if b.Author != "" && b.AuthorID == "" {
			if id, err := fetcher.ResolveAuthorID(ctx, b.Author); err == nil {
				b.AuthorID = id
			} else {
				logger.Warn("author id lookup failed",
					slog.String("author", b.Author), slog.Any("error", err))
			}
		}
		if b.Series != "" && b.SeriesID == "" {
			if id, err := fetcher.ResolveSeriesID(ctx, b.Series); err == nil {
				b.SeriesID = id
			} else {
				logger.Warn("series id lookup failed",
					slog.String("series", b.Series), slog.Any("error", err))
			}
		}
		touched++
	}
	return touched, nil
}

// missingMetadata reports whether a metadata pass has anything to add.
func missingMetadata(b *record.Book) bool {
	if b.Work == "" || b.Published == nil || b.Pages == nil || b.Language == "" {
		return true
	}
	if b.Author != "" && b.AuthorID == "" {
		return true
	}
	if b.Series != "" && b.SeriesID == "" {
		return true
	}
	return false
}
