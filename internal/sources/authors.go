package sources

import (
	"bookstack/internal/diag"
	"bookstack/internal/overlay"
	"bookstack/internal/schema"
)

// Author-table column headers. The table is indexed by the same author id
// the book rows carry; QID is the author's external knowledge-base id.
const (
	authorIndex       = "AuthorId"
	authorQID         = "QID"
	authorName        = "Author"
	authorGender      = "Gender"
	authorNationality = "Nationality"
	authorDescription = "Description"
)

// LoadAuthors reads the author metadata table, keyed by author id.
func LoadAuthors(path string, findings *diag.Collector) (map[string]overlay.Author, error) {
	authors := make(map[string]overlay.Author)

	header, rows, ok, err := readRows(path)
	if err != nil {
		return nil, err
	}
	if !ok || len(rows) == 0 {
		return authors, nil
	}

	index := columnIndex(header)
	cell := func(row []string, column string) string {
		pos, present := index[column]
		if !present || pos >= len(row) {
			return ""
		}
		return row[pos]
	}

	for _, row := range rows {
		id := cell(row, authorIndex)
		if id == "" {
			findings.Addf(string(schema.SourceAuthors), diag.CodeBadValue, "", authorIndex,
				"author row without an id skipped")
			continue
		}
		authors[id] = overlay.Author{
			QID:         cell(row, authorQID),
			Name:        cell(row, authorName),
			Gender:      cell(row, authorGender),
			Nationality: cell(row, authorNationality),
			Description: cell(row, authorDescription),
		}
	}
	return authors, nil
}
