// Package collection owns the assembled book table and the filtered view
// every downstream consumer reads.
//
// The base table is fixed at construction; filters derive a current view from
// it by narrowing only, so any sequence of filter calls on disjoint columns
// commutes. Reset restores the unfiltered view so one Collection can serve
// several queries in sequence without reloading.
package collection

import (
	"errors"
	"fmt"
	"strings"

	"bookstack/internal/record"
)

var (
	// ErrAmbiguousSelector marks a name selector matching more than one
	// distinct identity; silently picking one would corrupt schedules.
	ErrAmbiguousSelector = errors.New("selector is ambiguous")
	// ErrUnknownSelector marks a name selector matching nothing. Distinct
	// from an empty filter result: a selector denotes something expected
	// to exist.
	ErrUnknownSelector = errors.New("selector matches nothing")
)

// Collection holds the assembled base table and the current filtered view.
// It is mutated only by its own methods from a single caller; no locking.
type Collection struct {
	base    *record.Table
	current []*record.Book
}

// New wraps an assembled table.
func New(base *record.Table) *Collection {
	c := &Collection{base: base}
	c.Reset()
	return c
}

// Reset discards the current view, restoring the unfiltered base.
func (c *Collection) Reset() *Collection {
	c.current = c.base.Books()
	return c
}

// narrow keeps only current rows satisfying keep.
func (c *Collection) narrow(keep func(*record.Book) bool) *Collection {
	filtered := make([]*record.Book, 0, len(c.current))
	for _, b := range c.current {
		if keep(b) {
			filtered = append(filtered, b)
		}
	}
	c.current = filtered
	return c
}

// memberFilter narrows on set membership of one column value. An empty value
// list is a no-op.
func (c *Collection) memberFilter(values []string, exclude bool, get func(*record.Book) string) *Collection {
	if len(values) == 0 {
		return c
	}
	want := make(map[string]bool, len(values))
	for _, v := range values {
		want[strings.TrimSpace(v)] = true
	}
	return c.narrow(func(b *record.Book) bool {
		return want[get(b)] != exclude
	})
}

// Shelves narrows the view to rows on (or, with exclude, off) the named
// shelves.
func (c *Collection) Shelves(names []string, exclude bool) *Collection {
	return c.memberFilter(names, exclude, func(b *record.Book) string { return string(b.Shelf) })
}

// Languages narrows by the Language column.
func (c *Collection) Languages(names []string, exclude bool) *Collection {
	return c.memberFilter(names, exclude, func(b *record.Book) string { return b.Language })
}

// Categories narrows by the Category column.
func (c *Collection) Categories(names []string, exclude bool) *Collection {
	return c.memberFilter(names, exclude, func(b *record.Book) string { return b.Category })
}

// Borrowed narrows by borrowed status; nil is a no-op.
func (c *Collection) Borrowed(value *bool) *Collection {
	if value == nil {
		return c
	}
	return c.narrow(func(b *record.Book) bool { return b.Borrowed == *value })
}

// Scheduled narrows to rows with (or, with exclude, without) a scheduled
// date.
func (c *Collection) Scheduled(exclude bool) *Collection {
	return c.narrow(func(b *record.Book) bool {
		return (b.Scheduled != nil) != exclude
	})
}

// All returns the base table's rows, unaffected by any filter.
func (c *Collection) All() []*record.Book {
	return c.base.Books()
}

// Current returns the filtered view.
func (c *Collection) Current() []*record.Book {
	out := make([]*record.Book, len(c.current))
	copy(out, c.current)
	return out
}

// Read returns the read and currently-reading rows, computed from the base
// so read-history consumers always see the complete collection regardless of
// any active display filter.
func (c *Collection) Read() []*record.Book {
	var out []*record.Book
	for _, b := range c.base.Books() {
		if b.Shelf == record.ShelfRead || b.Shelf == record.ShelfCurrent {
			out = append(out, b)
		}
	}
	return out
}

// Base exposes the underlying assembled table.
func (c *Collection) Base() *record.Table {
	return c.base
}

// ResolveAuthor maps an author name to its AuthorId; the match is exact and
// case-insensitive. More than one distinct id is ErrAmbiguousSelector, none
// is ErrUnknownSelector.
func (c *Collection) ResolveAuthor(name string) (string, error) {
	return c.resolve(name, func(b *record.Book) (string, string) { return b.Author, b.AuthorID })
}

// ResolveSeries maps a series name to its SeriesId with the same semantics
// as ResolveAuthor.
func (c *Collection) ResolveSeries(name string) (string, error) {
	return c.resolve(name, func(b *record.Book) (string, string) { return b.Series, b.SeriesID })
}

func (c *Collection) resolve(name string, pair func(*record.Book) (string, string)) (string, error) {
	target := strings.ToLower(strings.TrimSpace(name))
	ids := make(map[string]bool)
	var found string
	for _, b := range c.base.Books() {
		label, id := pair(b)
		if id == "" || strings.ToLower(label) != target {
			continue
		}
		if !ids[id] {
			ids[id] = true
			found = id
		}
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("resolve %q: %w", name, ErrUnknownSelector)
	case 1:
		return found, nil
	default:
		return "", fmt.Errorf("resolve %q: %d identities: %w", name, len(ids), ErrAmbiguousSelector)
	}
}
