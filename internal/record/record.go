package record

import (
	"strconv"
	"strings"
)

// Shelf is the logical location of a book. Every row carries exactly one
// shelf value from the closed set below.
type Shelf string

const (
	ShelfToRead    Shelf = "to-read"
	ShelfCurrent   Shelf = "currently-reading"
	ShelfRead      Shelf = "read"
	ShelfPending   Shelf = "pending"
	ShelfElsewhere Shelf = "elsewhere"
	ShelfLibrary   Shelf = "library"
	ShelfEbooks    Shelf = "ebooks"
	ShelfKindle    Shelf = "kindle"
)

// Shelves returns the closed set of shelf values in display order.
func Shelves() []Shelf {
	return []Shelf{
		ShelfToRead,
		ShelfCurrent,
		ShelfRead,
		ShelfPending,
		ShelfElsewhere,
		ShelfLibrary,
		ShelfEbooks,
		ShelfKindle,
	}
}

// ValidShelf reports whether value belongs to the closed shelf set.
func ValidShelf(value string) bool {
	for _, s := range Shelves() {
		if string(s) == value {
			return true
		}
	}
	return false
}

// Book is one row of the assembled collection table.
type Book struct {
	ID          string
	Author      string
	AuthorID    string
	Title       string
	Work        string
	Shelf       Shelf
	Category    string
	Scheduled   *Date
	Borrowed    bool
	Series      string
	SeriesID    string
	Entry       string
	Binding     string
	Published   *float64
	Language    string
	Pages       *float64
	Words       *float64
	Added       *Date
	Started     *Date
	Read        *Date
	Rating      *float64
	AvgRating   *float64
	Gender      string
	Nationality string

	// Volume is the part marker split off the raw title ("II" in "Foo II").
	// Empty means the title named no volume.
	Volume string
	// Mask is true iff this row is the product of volume-merging two or
	// more physical rows.
	Mask bool
}

// Clone returns a deep copy of the book.
func (b *Book) Clone() *Book {
	cp := *b
	cp.Scheduled = cloneDate(b.Scheduled)
	cp.Added = cloneDate(b.Added)
	cp.Started = cloneDate(b.Started)
	cp.Read = cloneDate(b.Read)
	cp.Published = cloneFloat(b.Published)
	cp.Pages = cloneFloat(b.Pages)
	cp.Words = cloneFloat(b.Words)
	cp.Rating = cloneFloat(b.Rating)
	cp.AvgRating = cloneFloat(b.AvgRating)
	return &cp
}

func cloneDate(d *Date) *Date {
	if d == nil {
		return nil
	}
	cp := *d
	return &cp
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	cp := *f
	return &cp
}

// EntryValue parses an Entry ordering token into a sortable number. Compound
// multi-entry tokens ("1|2|3") sort by the mean of their numeric parts so a
// merged omnibus lands between its neighbours.
func EntryValue(entry string) (float64, bool) {
	trimmed := strings.TrimSpace(entry)
	if trimmed == "" {
		return 0, false
	}
	parts := strings.Split(trimmed, "|")
	total := 0.0
	count := 0
	for _, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			continue
		}
		total += value
		count++
	}
	if count == 0 {
		return 0, false
	}
	return total / float64(count), true
}
