package sources

import (
	"bookstack/internal/diag"
	"bookstack/internal/overlay"
	"bookstack/internal/schema"
)

// LoadScraped reads the scraped-override table into an overlay stage. It
// carries the same override semantics as fixes, sourced from a secondary
// scrape pass rather than hand-written corrections.
func LoadScraped(path string, findings *diag.Collector) (overlay.Stage, error) {
	stage := overlay.Stage{Name: string(schema.SourceScraped)}

	header, rows, ok, err := readRows(path)
	if err != nil {
		return stage, err
	}
	if !ok || len(rows) == 0 {
		return stage, nil
	}

	index := columnIndex(header)
	idPos, hasID := index[indexColumn]
	if !hasID {
		findings.Addf(string(schema.SourceScraped), diag.CodeBadValue, "", indexColumn,
			"scraped table missing %s column", indexColumn)
		return stage, nil
	}

	columns := schema.ColumnsFor(schema.SourceScraped)
	for _, row := range rows {
		if idPos >= len(row) || row[idPos] == "" {
			continue
		}
		id := row[idPos]
		cells := make(map[string]any)
		for _, column := range columns {
			pos, present := index[column]
			if !present || pos >= len(row) || row[pos] == "" {
				continue
			}
			cell, err := overlay.CoerceCell(column, row[pos])
			if err != nil {
				findings.Addf(string(schema.SourceScraped), diag.CodeBadValue, id, column, "%v", err)
				continue
			}
			cells[column] = cell
		}
		if len(cells) == 0 {
			continue
		}
		stage.Patches = append(stage.Patches, overlay.Patch{ID: id, Cells: cells})
	}
	return stage, nil
}
