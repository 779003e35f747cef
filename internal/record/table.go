package record

import "fmt"

// Table is an ordered set of books indexed by BookId. Order is the insertion
// order, which assembly keeps deterministic so repeated runs over identical
// inputs reproduce identical tables.
type Table struct {
	books []*Book
	index map[string]int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// Append adds a book, rejecting duplicate ids.
func (t *Table) Append(b *Book) error {
	if b == nil {
		return fmt.Errorf("append: nil book")
	}
	if b.ID == "" {
		return fmt.Errorf("append: empty book id")
	}
	if _, exists := t.index[b.ID]; exists {
		return fmt.Errorf("append: duplicate book id %q", b.ID)
	}
	t.index[b.ID] = len(t.books)
	t.books = append(t.books, b)
	return nil
}

// Extend appends every book of other, rejecting id collisions.
func (t *Table) Extend(other *Table) error {
	if other == nil {
		return nil
	}
	for _, b := range other.books {
		if err := t.Append(b); err != nil {
			return err
		}
	}
	return nil
}

// Get looks a book up by id.
func (t *Table) Get(id string) (*Book, bool) {
	pos, ok := t.index[id]
	if !ok {
		return nil, false
	}
	return t.books[pos], true
}

// Len returns the row count.
func (t *Table) Len() int {
	return len(t.books)
}

// Books returns the rows in table order. The slice is a copy; the books are
// shared.
func (t *Table) Books() []*Book {
	out := make([]*Book, len(t.books))
	copy(out, t.books)
	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	cp := NewTable()
	for _, b := range t.books {
		// Append cannot fail here: ids were unique in the source table.
		_ = cp.Append(b.Clone())
	}
	return cp
}

// SumPages totals the Pages column across all rows, skipping unset cells.
func (t *Table) SumPages() float64 {
	total := 0.0
	for _, b := range t.books {
		if b.Pages != nil {
			total += *b.Pages
		}
	}
	return total
}
