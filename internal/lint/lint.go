// Package lint runs consistency checks over the assembled collection.
//
// Checks are a registered set so the CLI can list and run them uniformly.
// Findings are reports, never errors: assembly has already succeeded by the
// time linting runs.
package lint

import (
	"fmt"

	"bookstack/internal/collection"
	"bookstack/internal/diag"
	"bookstack/internal/record"
)

// Finding is one reported violation.
type Finding struct {
	Check   string
	BookID  string
	Message string
}

// Check is a named consistency rule.
type Check struct {
	Name string
	Run  func(*collection.Collection) []Finding
}

// Checks returns the registered rule set in run order.
func Checks() []Check {
	return []Check{
		{Name: "shelf-values", Run: checkShelfValues},
		{Name: "date-order", Run: checkDateOrder},
		{Name: "read-shelf", Run: checkReadShelf},
		{Name: "missing-pages", Run: checkMissingPages},
		{Name: "unmerged-volumes", Run: checkUnmergedVolumes},
		{Name: "duplicate-titles", Run: checkDuplicateTitles},
	}
}

// Run executes every registered check against the collection and folds in
// the diagnostics assembly collected on the way (unknown-id overrides,
// redundant fixes, plan overlaps).
func Run(c *collection.Collection, collected []diag.Diagnostic) []Finding {
	var out []Finding
	for _, d := range collected {
		out = append(out, Finding{
			Check:   d.Source + "/" + d.Code,
			BookID:  d.BookID,
			Message: d.String(),
		})
	}
	for _, check := range Checks() {
		out = append(out, check.Run(c)...)
	}
	return out
}

func checkShelfValues(c *collection.Collection) []Finding {
	var out []Finding
	for _, b := range c.All() {
		if !record.ValidShelf(string(b.Shelf)) {
			out = append(out, Finding{
				Check:   "shelf-values",
				BookID:  b.ID,
				Message: fmt.Sprintf("%s: shelf %q is not a known shelf", b.Title, b.Shelf),
			})
		}
	}
	return out
}

func checkDateOrder(c *collection.Collection) []Finding {
	var out []Finding
	for _, b := range c.All() {
		if b.Started != nil && b.Read != nil && b.Started.After(*b.Read) {
			out = append(out, Finding{
				Check:   "date-order",
				BookID:  b.ID,
				Message: fmt.Sprintf("%s: started %s after read %s", b.Title, b.Started, b.Read),
			})
		}
		if b.Added != nil && b.Started != nil && b.Added.After(*b.Started) {
			out = append(out, Finding{
				Check:   "date-order",
				BookID:  b.ID,
				Message: fmt.Sprintf("%s: added %s after started %s", b.Title, b.Added, b.Started),
			})
		}
	}
	return out
}

func checkReadShelf(c *collection.Collection) []Finding {
	var out []Finding
	for _, b := range c.All() {
		if b.Read != nil && b.Shelf != record.ShelfRead {
			out = append(out, Finding{
				Check:   "read-shelf",
				BookID:  b.ID,
				Message: fmt.Sprintf("%s: has a read date but sits on shelf %q", b.Title, b.Shelf),
			})
		}
		if b.Started != nil && b.Shelf != record.ShelfRead && b.Shelf != record.ShelfCurrent {
			out = append(out, Finding{
				Check:   "read-shelf",
				BookID:  b.ID,
				Message: fmt.Sprintf("%s: has a started date but sits on shelf %q", b.Title, b.Shelf),
			})
		}
	}
	return out
}

// checkMissingPages flags owned, unread books without a page count; those
// rows distort schedule and backlog length estimates. Finished and
// in-progress books are left alone, as are shelves for books not on hand.
func checkMissingPages(c *collection.Collection) []Finding {
	var out []Finding
	for _, b := range c.All() {
		switch b.Shelf {
		case record.ShelfElsewhere, record.ShelfLibrary, record.ShelfRead, record.ShelfCurrent:
			continue
		}
		if b.Pages == nil {
			out = append(out, Finding{
				Check:   "missing-pages",
				BookID:  b.ID,
				Message: fmt.Sprintf("%s: no page count", b.Title),
			})
		}
	}
	return out
}

// checkUnmergedVolumes flags rows that still carry a volume marker shared
// with a sibling row; either merging was skipped or the title decomposition
// missed a variant spelling.
func checkUnmergedVolumes(c *collection.Collection) []Finding {
	type key struct{ author, title string }
	count := make(map[key]int)
	for _, b := range c.All() {
		if b.Volume != "" && !b.Mask {
			count[key{b.Author, b.Title}]++
		}
	}
	var out []Finding
	for _, b := range c.All() {
		if b.Volume == "" || b.Mask {
			continue
		}
		if count[key{b.Author, b.Title}] > 1 {
			out = append(out, Finding{
				Check:   "unmerged-volumes",
				BookID:  b.ID,
				Message: fmt.Sprintf("%s %s: unmerged volume of a multi-volume edition", b.Title, b.Volume),
			})
		}
	}
	return out
}

// checkDuplicateTitles flags markerless rows sharing an author and title.
// Volume merging never collapses these, so they are either re-imports or
// volumes whose marker the decomposition could not read.
func checkDuplicateTitles(c *collection.Collection) []Finding {
	type key struct{ author, title string }
	count := make(map[key]int)
	for _, b := range c.All() {
		if b.Title != "" && b.Volume == "" && !b.Mask {
			count[key{b.Author, b.Title}]++
		}
	}
	var out []Finding
	for _, b := range c.All() {
		if b.Title == "" || b.Volume != "" || b.Mask {
			continue
		}
		if count[key{b.Author, b.Title}] > 1 {
			out = append(out, Finding{
				Check:   "duplicate-titles",
				BookID:  b.ID,
				Message: fmt.Sprintf("%s: duplicates another row with the same author and title", b.Title),
			})
		}
	}
	return out
}
