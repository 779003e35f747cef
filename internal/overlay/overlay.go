// Package overlay applies manual corrections on top of the loaded base table.
//
// Corrections arrive as ordered stages: explicit fixes, scraped overrides,
// then author enrichment. Precedence is the stage order itself: the first
// stage to write a cell owns it, and later stages only fill cells no earlier
// stage touched. Every stage beats the base value for the cells it names.
// Applying the same stages twice yields the same table as applying them once.
package overlay

import (
	"fmt"

	"bookstack/internal/diag"
	"bookstack/internal/record"
	"bookstack/internal/schema"
)

// Patch names one book and the cells to write on it.
type Patch struct {
	ID    string
	Cells map[string]record.Cell
}

// Stage is one ordered overlay layer.
type Stage struct {
	Name    string
	Patches []Patch
}

// Author is one row of the author metadata table.
type Author struct {
	QID         string
	Name        string
	Gender      string
	Nationality string
	Description string
}

type cellKey struct {
	id     string
	column string
}

// Claimed tracks which cells earlier stages own. Passing the same Claimed
// set across several Apply calls preserves precedence when a later stage can
// only be computed after earlier stages have run.
type Claimed map[cellKey]bool

// NewClaimed returns an empty ownership set.
func NewClaimed() Claimed {
	return make(Claimed)
}

// Apply writes the stages onto the table in order. An override naming an
// unknown BookId, an unknown column, or a value identical to the one already
// present is recorded as a diagnostic; none of these abort assembly.
func Apply(t *record.Table, stages []Stage, claimed Claimed, findings *diag.Collector) error {
	if claimed == nil {
		claimed = NewClaimed()
	}
	for _, stage := range stages {
		for _, patch := range stage.Patches {
			book, ok := t.Get(patch.ID)
			if !ok {
				findings.Addf(stage.Name, diag.CodeUnknownBook, patch.ID, "",
					"override references a book absent from the base table")
				continue
			}
			for _, column := range orderedColumns(patch.Cells) {
				value := patch.Cells[column]
				key := cellKey{id: patch.ID, column: column}
				if claimed[key] {
					continue
				}
				if !record.KnownColumn(column) {
					findings.Addf(stage.Name, diag.CodeBadColumn, patch.ID, column,
						"override names an unknown column")
					continue
				}
				current, set := record.Get(book, column)
				if set && record.CellsEqual(current, value) {
					findings.Addf(stage.Name, diag.CodeRedundantFix, patch.ID, column,
						"override value equals the existing value")
				}
				if err := record.Set(book, column, value); err != nil {
					return fmt.Errorf("overlay %s: book %s: %w", stage.Name, patch.ID, err)
				}
				claimed[key] = true
			}
		}
	}
	return nil
}

// orderedColumns yields a patch's columns in registry order so application is
// deterministic regardless of map iteration.
func orderedColumns(cells map[string]record.Cell) []string {
	var out []string
	for _, col := range schema.ColumnsFor(schema.SourceCollection) {
		if _, ok := cells[col]; ok {
			out = append(out, col)
		}
	}
	// Unknown columns still surface, so diagnostics can name them.
	for col := range cells {
		if !record.KnownColumn(col) {
			out = append(out, col)
		}
	}
	return out
}

// EnrichmentStage joins the author table against the base by AuthorId,
// producing Gender/Nationality cells for every matched book. It runs last by
// convention; fixes naming those columns win.
func EnrichmentStage(t *record.Table, authors map[string]Author) Stage {
	stage := Stage{Name: string(schema.SourceAuthors)}
	for _, b := range t.Books() {
		if b.AuthorID == "" {
			continue
		}
		author, ok := authors[b.AuthorID]
		if !ok {
			continue
		}
		cells := make(map[string]record.Cell)
		if author.Gender != "" {
			cells["Gender"] = author.Gender
		}
		if author.Nationality != "" {
			cells["Nationality"] = author.Nationality
		}
		if len(cells) == 0 {
			continue
		}
		stage.Patches = append(stage.Patches, Patch{ID: b.ID, Cells: cells})
	}
	return stage
}
