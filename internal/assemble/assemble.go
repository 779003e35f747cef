// Package assemble runs the full collection-assembly pipeline: source
// loaders, override stages, title decomposition, and the optional volume
// merge, producing the Collection facade everything downstream consumes.
//
// The pipeline is a pure function over its input files. Re-running it on
// unchanged inputs reproduces an identical table, row order included.
package assemble

import (
	"fmt"
	"log/slog"

	"bookstack/internal/collection"
	"bookstack/internal/config"
	"bookstack/internal/diag"
	"bookstack/internal/overlay"
	"bookstack/internal/record"
	"bookstack/internal/schema"
	"bookstack/internal/sources"
	"bookstack/internal/titles"
	"bookstack/internal/volumes"
)

// Result carries the assembled collection and the diagnostics assembly
// raised on the way.
type Result struct {
	Collection  *collection.Collection
	Diagnostics []diag.Diagnostic
}

// Build assembles the collection from the configured source files.
func Build(cfg *config.Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	findings := &diag.Collector{}

	base, err := sources.LoadBooks(cfg.GoodreadsPath(), schema.SourceGoodreads, findings)
	if err != nil {
		return nil, err
	}
	ebooks, err := sources.LoadEbooks(cfg.EbooksPath(), cfg.Kindle.WordsPerPage, findings)
	if err != nil {
		return nil, err
	}
	if err := base.Extend(ebooks); err != nil {
		return nil, fmt.Errorf("combine sources: %w", err)
	}

	fixes, err := overlay.LoadFixes(cfg.FixesPath(), findings)
	if err != nil {
		return nil, err
	}
	scraped, err := sources.LoadScraped(cfg.ScrapedPath(), findings)
	if err != nil {
		return nil, err
	}
	authors, err := sources.LoadAuthors(cfg.AuthorsPath(), findings)
	if err != nil {
		return nil, err
	}

	table, err := overlays(base, fixes, scraped, authors, findings)
	if err != nil {
		return nil, err
	}

	titles.Normalize(table)

	if cfg.Merge.Volumes {
		before := table.Len()
		table, err = volumes.Merge(table)
		if err != nil {
			return nil, fmt.Errorf("merge volumes: %w", err)
		}
		if merged := before - table.Len(); merged > 0 {
			logger.Debug("merged volumes", slog.Int("rows", merged))
		}
		if cfg.Merge.Dedup {
			table = volumes.Dedup(table)
		}
	}

	logger.Debug("assembled collection",
		slog.Int("rows", table.Len()),
		slog.Int("diagnostics", len(findings.Findings())))

	return &Result{
		Collection:  collection.New(table),
		Diagnostics: findings.Findings(),
	}, nil
}

// overlays applies the fixed overlay order: fixes, scraped overrides, then
// author enrichment. The order is the precedence; earlier stages own any
// cell they write. Enrichment is computed after the first two stages so a
// fixed AuthorId still joins, while fixes to Gender/Nationality keep
// ownership of those cells.
func overlays(table *record.Table, fixes, scraped overlay.Stage, authors map[string]overlay.Author, findings *diag.Collector) (*record.Table, error) {
	claimed := overlay.NewClaimed()
	if err := overlay.Apply(table, []overlay.Stage{fixes, scraped}, claimed, findings); err != nil {
		return nil, err
	}
	enrichment := overlay.EnrichmentStage(table, authors)
	if err := overlay.Apply(table, []overlay.Stage{enrichment}, claimed, findings); err != nil {
		return nil, err
	}
	return table, nil
}
