// Package schema is the authoritative registry of collection columns: which
// sources may supply each column, how cross-source conflicts resolve, which
// columns are date-typed, and how cells combine when physical volumes collapse
// into one logical row.
//
// The registry is static data loaded once at init and immutable afterwards.
// Lookups never fail; a source that contributes no columns yields an empty
// result.
package schema

// Source names a tabular input feeding collection assembly.
type Source string

const (
	SourceGoodreads  Source = "goodreads"
	SourceEbooks     Source = "ebooks"
	SourceFixes      Source = "fixes"
	SourceAuthors    Source = "authors"
	SourceScraped    Source = "scraped"
	SourceCollection Source = "collection"
)

// CombineRule says how a column's cells aggregate under volume merging.
type CombineRule string

const (
	CombineFirst CombineRule = "first"
	CombineSum   CombineRule = "sum"
	CombineMin   CombineRule = "min"
	CombineMax   CombineRule = "max"
	CombineMean  CombineRule = "mean"
	CombineAny   CombineRule = "any"
)

// Prefer tags a column with the side that wins when a work-level value and a
// book-level value disagree.
type Prefer string

const (
	PreferNone Prefer = ""
	PreferWork Prefer = "work"
	PreferBook Prefer = "book"
)

// Column is one registry entry.
type Column struct {
	Name    string
	Date    bool
	Prefer  Prefer
	Combine CombineRule
}

// The registry order is the canonical column order of the assembled table.
// The per-column work/book preferences are historical and deliberately not
// generalized into a rule; Language and Binding track the edition in hand,
// everything else tracks the work.
var registry = []Column{
	{Name: "Author", Combine: CombineFirst},
	{Name: "AuthorId", Combine: CombineFirst},
	{Name: "Title", Prefer: PreferWork, Combine: CombineFirst},
	{Name: "Work", Combine: CombineFirst},
	{Name: "Shelf", Combine: CombineFirst},
	{Name: "Category", Combine: CombineFirst},
	{Name: "Scheduled", Date: true, Combine: CombineFirst},
	{Name: "Borrowed", Combine: CombineAny},
	{Name: "Series", Prefer: PreferWork, Combine: CombineFirst},
	{Name: "SeriesId", Prefer: PreferWork, Combine: CombineFirst},
	{Name: "Entry", Prefer: PreferWork, Combine: CombineFirst},
	{Name: "Binding", Prefer: PreferBook, Combine: CombineFirst},
	{Name: "Published", Prefer: PreferWork, Combine: CombineFirst},
	{Name: "Language", Prefer: PreferBook, Combine: CombineFirst},
	{Name: "Pages", Combine: CombineSum},
	{Name: "Words", Combine: CombineSum},
	{Name: "Added", Date: true, Combine: CombineMin},
	{Name: "Started", Date: true, Combine: CombineMin},
	{Name: "Read", Date: true, Combine: CombineMax},
	{Name: "Rating", Combine: CombineMean},
	{Name: "AvgRating", Combine: CombineMean},
	{Name: "Gender", Combine: CombineFirst},
	{Name: "Nationality", Combine: CombineFirst},
	{Name: "Volume", Combine: CombineFirst},
	{Name: "_Mask", Combine: CombineAny},
}

// Per-source column sets, in each source's on-disk column order.
var sourceColumns = map[Source][]string{
	SourceGoodreads: {
		"Author", "AuthorId", "Title", "Work", "Shelf", "Category",
		"Scheduled", "Borrowed", "Series", "SeriesId", "Entry", "Binding",
		"Published", "Language", "Pages", "Added", "Started", "Read",
		"Rating", "AvgRating",
	},
	SourceEbooks: {
		"Author", "Title", "Category", "Language", "Words", "Added",
		"Pages", "Shelf", "Binding", "Borrowed",
	},
	SourceFixes: {
		"Author", "AuthorId", "Title", "Work", "Shelf", "Category",
		"Scheduled", "Borrowed", "Series", "SeriesId", "Entry", "Binding",
		"Published", "Language", "Pages", "Words", "Added", "Started",
		"Read", "Rating",
	},
	SourceScraped: {
		"Binding", "Pages", "Started", "Read",
	},
	SourceAuthors: {
		"Gender", "Nationality",
	},
	SourceCollection: {
		"Author", "AuthorId", "Title", "Work", "Shelf", "Category",
		"Scheduled", "Borrowed", "Series", "SeriesId", "Entry", "Binding",
		"Published", "Language", "Pages", "Words", "Added", "Started",
		"Read", "Rating", "AvgRating", "Gender", "Nationality", "Volume",
		"_Mask",
	},
}

// Columns returns every registry entry in canonical order.
func Columns() []Column {
	out := make([]Column, len(registry))
	copy(out, registry)
	return out
}

// ColumnsFor returns the ordered column names a source may populate. Unknown
// sources contribute nothing.
func ColumnsFor(source Source) []string {
	cols, ok := sourceColumns[source]
	if !ok {
		return nil
	}
	out := make([]string, len(cols))
	copy(out, cols)
	return out
}

// DateColumns returns the subset of ColumnsFor(source) that is date-typed.
func DateColumns(source Source) []string {
	var out []string
	for _, name := range sourceColumns[source] {
		if col, ok := lookup(name); ok && col.Date {
			out = append(out, name)
		}
	}
	return out
}

// IsDate reports whether a column is date-typed.
func IsDate(column string) bool {
	col, ok := lookup(column)
	return ok && col.Date
}

// CombineRules maps every column to its volume-merge aggregation rule.
func CombineRules() map[string]CombineRule {
	out := make(map[string]CombineRule, len(registry))
	for _, col := range registry {
		out[col.Name] = col.Combine
	}
	return out
}

// PreferredBy returns the columns whose cross-source conflicts resolve toward
// the given tag.
func PreferredBy(tag Prefer) []string {
	var out []string
	for _, col := range registry {
		if col.Prefer == tag && tag != PreferNone {
			out = append(out, col.Name)
		}
	}
	return out
}

func lookup(name string) (Column, bool) {
	for _, col := range registry {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}
