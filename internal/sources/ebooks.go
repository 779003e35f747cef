package sources

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bookstack/internal/diag"
	"bookstack/internal/record"
	"bookstack/internal/schema"
)

// LoadEbooks reads the ebook-directory table. Row ids are path-derived
// strings. Rows without a page count derive one from the word count at
// wordsPerPage; rows without a title derive one from the path.
func LoadEbooks(path string, wordsPerPage float64, findings *diag.Collector) (*record.Table, error) {
	table, err := LoadBooks(path, schema.SourceEbooks, findings)
	if err != nil {
		return nil, err
	}
	for _, b := range table.Books() {
		if b.Pages == nil && b.Words != nil && wordsPerPage > 0 {
			pages := *b.Words / wordsPerPage
			b.Pages = &pages
		}
		if b.Title == "" {
			b.Title = titleFromPath(b.ID)
		}
		if b.Shelf == "" {
			b.Shelf = record.ShelfEbooks
		}
	}
	return table, nil
}

// titleFromPath turns a path-derived id into a displayable title.
func titleFromPath(id string) string {
	base := filepath.Base(id)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return id
	}
	return cases.Title(language.Und).String(title)
}
