// Package remote is the boundary to external book-metadata services.
//
// The network client is a collaborator with a narrow contract: given a query
// it returns raw candidate records, nothing more. What can be fetched onto a
// book is a closed set of fields, each with a named handler, so a typo in a
// field name is a compile error rather than a silent no-op at call time.
// Resolved lookups go through the injected cache store first.
package remote

import (
	"context"
	"fmt"
	"log/slog"

	"bookstack/internal/lookupcache"
	"bookstack/internal/record"
	"bookstack/internal/schema"
)

// Candidate is one raw record returned by a metadata service.
type Candidate struct {
	BookID    string
	Work      string
	Title     string
	Author    string
	AuthorID  string
	Series    string
	SeriesID  string
	Entry     string
	Language  string
	Published *float64
	Pages     *float64
}

// Client is the metadata-service contract. Implementations perform the
// network calls, ranking, and rate limiting; none of that leaks in here.
type Client interface {
	SearchBooks(ctx context.Context, title, author string) ([]Candidate, error)
	AuthorID(ctx context.Context, name string) (string, error)
	SeriesID(ctx context.Context, name string) (string, error)
}

// Field enumerates what can be fetched onto a book.
type Field int

const (
	FieldWork Field = iota
	FieldPublished
	FieldPages
	FieldSeries
	FieldEntry
	FieldLanguage
)

func (f Field) String() string {
	switch f {
	case FieldWork:
		return "Work"
	case FieldPublished:
		return "Published"
	case FieldPages:
		return "Pages"
	case FieldSeries:
		return "Series"
	case FieldEntry:
		return "Entry"
	case FieldLanguage:
		return "Language"
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// column maps a field onto its collection column.
func (f Field) column() string {
	return f.String()
}

// Fetcher fills missing book fields from a metadata service, consulting the
// lookup cache before any remote call.
type Fetcher struct {
	client Client
	cache  *lookupcache.Store
	logger *slog.Logger
}

// NewFetcher wires a fetcher; cache may be nil for uncached operation.
func NewFetcher(client Client, cache *lookupcache.Store, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{client: client, cache: cache, logger: logger}
}

// Fetch fills the requested fields on the book from the best candidate. A
// field already set on the book is only replaced when the registry prefers
// the work-level value for that column.
func (f *Fetcher) Fetch(ctx context.Context, b *record.Book, fields []Field) error {
	if len(fields) == 0 {
		return nil
	}
	candidates, err := f.client.SearchBooks(ctx, b.Title, b.Author)
	if err != nil {
		return fmt.Errorf("search %q: %w", b.Title, err)
	}
	if len(candidates) == 0 {
		f.logger.Debug("no metadata candidates", slog.String("title", b.Title))
		return nil
	}
	best := candidates[0]

	for _, field := range fields {
		value := fieldValue(best, field)
		if value == nil {
			continue
		}
		if _, set := record.Get(b, field.column()); set && !prefersWork(field.column()) {
			continue
		}
		if err := record.Set(b, field.column(), value); err != nil {
			return err
		}
	}
	return nil
}

// fieldValue is the checked dispatch table from field to candidate cell.
func fieldValue(c Candidate, field Field) record.Cell {
	switch field {
	case FieldWork:
		return nonEmpty(c.Work)
	case FieldPublished:
		return nonNil(c.Published)
	case FieldPages:
		return nonNil(c.Pages)
	case FieldSeries:
		return nonEmpty(c.Series)
	case FieldEntry:
		return nonEmpty(c.Entry)
	case FieldLanguage:
		return nonEmpty(c.Language)
	}
	return nil
}

func nonEmpty(s string) record.Cell {
	if s == "" {
		return nil
	}
	return s
}

func nonNil(f *float64) record.Cell {
	if f == nil {
		return nil
	}
	return *f
}

func prefersWork(column string) bool {
	for _, name := range schema.PreferredBy(schema.PreferWork) {
		if name == column {
			return true
		}
	}
	return false
}

// ResolveAuthorID maps an author name to its id, caching the result.
func (f *Fetcher) ResolveAuthorID(ctx context.Context, name string) (string, error) {
	if f.cache != nil {
		if id, ok, err := f.cache.Author(ctx, name); err != nil {
			return "", err
		} else if ok {
			return id, nil
		}
	}
	id, err := f.client.AuthorID(ctx, name)
	if err != nil {
		return "", fmt.Errorf("author id for %q: %w", name, err)
	}
	if f.cache != nil {
		if err := f.cache.PutAuthor(ctx, name, id); err != nil {
			return "", err
		}
	}
	return id, nil
}

// ResolveSeriesID maps a series name to its id, caching the result.
func (f *Fetcher) ResolveSeriesID(ctx context.Context, name string) (string, error) {
	if f.cache != nil {
		if id, ok, err := f.cache.Series(ctx, name); err != nil {
			return "", err
		} else if ok {
			return id, nil
		}
	}
	id, err := f.client.SeriesID(ctx, name)
	if err != nil {
		return "", fmt.Errorf("series id for %q: %w", name, err)
	}
	if f.cache != nil {
		if err := f.cache.PutSeries(ctx, name, id); err != nil {
			return "", err
		}
	}
	return id, nil
}
