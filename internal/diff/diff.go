// Package diff compares two assembled tables and classifies what changed.
//
// The update commands use it to report what a source reload did: rows that
// appeared, disappeared, moved to currently-reading, finished, or changed in
// place. Changed rows are grouped by Work when both sides carry one, so
// edition swaps of the same work read as one item.
package diff

import (
	"fmt"

	"bookstack/internal/record"
	"bookstack/internal/schema"
)

// Kind classifies one diff entry.
type Kind string

const (
	KindAdded    Kind = "added"
	KindRemoved  Kind = "removed"
	KindChanged  Kind = "changed"
	KindStarted  Kind = "started"
	KindFinished Kind = "finished"
)

// FieldChange is one cell-level difference.
type FieldChange struct {
	Column string
	Old    string
	New    string
}

// Entry is one classified row difference.
type Entry struct {
	Kind   Kind
	BookID string
	Work   string
	Title  string
	Author string
	Fields []FieldChange
}

// Compare reports the differences between two assembled tables, in the
// after-table's row order with removals appended in before-table order.
func Compare(before, after *record.Table) []Entry {
	var out []Entry

	for _, b := range after.Books() {
		prev, existed := before.Get(b.ID)
		if !existed {
			out = append(out, entryFor(KindAdded, b))
			continue
		}
		fields := changedFields(prev, b)
		if len(fields) == 0 {
			continue
		}
		entry := entryFor(classify(prev, b), b)
		entry.Fields = fields
		out = append(out, entry)
	}

	for _, prev := range before.Books() {
		if _, exists := after.Get(prev.ID); !exists {
			out = append(out, entryFor(KindRemoved, prev))
		}
	}
	return out
}

func entryFor(kind Kind, b *record.Book) Entry {
	return Entry{Kind: kind, BookID: b.ID, Work: b.Work, Title: b.Title, Author: b.Author}
}

// classify upgrades a plain change when the shelf movement tells a story.
func classify(before, after *record.Book) Kind {
	if after.Shelf == record.ShelfRead && before.Shelf != record.ShelfRead {
		return KindFinished
	}
	if after.Shelf == record.ShelfCurrent && before.Shelf != record.ShelfCurrent {
		return KindStarted
	}
	return KindChanged
}

func changedFields(before, after *record.Book) []FieldChange {
	var out []FieldChange
	for _, column := range schema.ColumnsFor(schema.SourceCollection) {
		oldCell, oldSet := record.Get(before, column)
		newCell, newSet := record.Get(after, column)
		if oldSet == newSet && record.CellsEqual(oldCell, newCell) {
			continue
		}
		out = append(out, FieldChange{
			Column: column,
			Old:    cellString(oldCell, oldSet),
			New:    cellString(newCell, newSet),
		})
	}
	return out
}

func cellString(cell record.Cell, set bool) string {
	if !set {
		return ""
	}
	switch v := cell.(type) {
	case record.Date:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// GroupByWork buckets entries by their Work id; entries without one group
// under their own BookId.
func GroupByWork(entries []Entry) map[string][]Entry {
	out := make(map[string][]Entry)
	for _, e := range entries {
		key := e.Work
		if key == "" {
			key = e.BookID
		}
		out[key] = append(out[key], e)
	}
	return out
}
