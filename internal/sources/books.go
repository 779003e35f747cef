package sources

import (
	"fmt"

	"bookstack/internal/diag"
	"bookstack/internal/overlay"
	"bookstack/internal/record"
	"bookstack/internal/schema"
)

// LoadBooks reads a book-per-row CSV (the goodreads export, or a previously
// written assembled table) into a table. Only columns the registry assigns to
// the source are read; unknown header columns are ignored.
func LoadBooks(path string, source schema.Source, findings *diag.Collector) (*record.Table, error) {
	table := record.NewTable()
	header, rows, ok, err := readRows(path)
	if err != nil {
		return nil, err
	}
	if !ok || len(rows) == 0 {
		return table, nil
	}

	index := columnIndex(header)
	idPos, hasID := index[indexColumn]
	if !hasID {
		return nil, fmt.Errorf("load %s: missing %s column", path, indexColumn)
	}

	columns := schema.ColumnsFor(source)
	for _, row := range rows {
		if idPos >= len(row) || row[idPos] == "" {
			findings.Addf(string(source), diag.CodeBadValue, "", indexColumn, "row without an id skipped")
			continue
		}
		book := &record.Book{ID: row[idPos]}
		for _, column := range columns {
			pos, present := index[column]
			if !present || pos >= len(row) || row[pos] == "" {
				continue
			}
			cell, err := overlay.CoerceCell(column, row[pos])
			if err != nil {
				// Best-effort parse: the field stays unset, the row survives.
				findings.Addf(string(source), diag.CodeBadValue, book.ID, column, "%v", err)
				continue
			}
			if err := record.Set(book, column, cell); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
		if err := table.Append(book); err != nil {
			findings.Addf(string(source), diag.CodeBadValue, book.ID, indexColumn, "%v", err)
		}
	}
	return table, nil
}
