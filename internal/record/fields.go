package record

import "fmt"

// Cell values are one of: string, float64, bool, Date. A nil Cell is an
// unset cell.
type Cell = any

type fieldAccessor struct {
	get func(*Book) Cell
	set func(*Book, Cell) error
}

// The accessor table is the closed set of addressable columns. Column lookups
// outside this table fail loudly instead of silently producing zero values.
var fieldAccessors = map[string]fieldAccessor{
	"Author":      stringField(func(b *Book) *string { return &b.Author }),
	"AuthorId":    stringField(func(b *Book) *string { return &b.AuthorID }),
	"Title":       stringField(func(b *Book) *string { return &b.Title }),
	"Work":        stringField(func(b *Book) *string { return &b.Work }),
	"Category":    stringField(func(b *Book) *string { return &b.Category }),
	"Series":      stringField(func(b *Book) *string { return &b.Series }),
	"SeriesId":    stringField(func(b *Book) *string { return &b.SeriesID }),
	"Entry":       stringField(func(b *Book) *string { return &b.Entry }),
	"Binding":     stringField(func(b *Book) *string { return &b.Binding }),
	"Language":    stringField(func(b *Book) *string { return &b.Language }),
	"Gender":      stringField(func(b *Book) *string { return &b.Gender }),
	"Nationality": stringField(func(b *Book) *string { return &b.Nationality }),
	"Volume":      stringField(func(b *Book) *string { return &b.Volume }),
	"Shelf": {
		get: func(b *Book) Cell {
			if b.Shelf == "" {
				return nil
			}
			return string(b.Shelf)
		},
		set: func(b *Book, v Cell) error {
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("Shelf: want string, got %T", v)
			}
			b.Shelf = Shelf(s)
			return nil
		},
	},
	"Published": floatField(func(b *Book) **float64 { return &b.Published }),
	"Pages":     floatField(func(b *Book) **float64 { return &b.Pages }),
	"Words":     floatField(func(b *Book) **float64 { return &b.Words }),
	"Rating":    floatField(func(b *Book) **float64 { return &b.Rating }),
	"AvgRating": floatField(func(b *Book) **float64 { return &b.AvgRating }),
	"Scheduled": dateField(func(b *Book) **Date { return &b.Scheduled }),
	"Added":     dateField(func(b *Book) **Date { return &b.Added }),
	"Started":   dateField(func(b *Book) **Date { return &b.Started }),
	"Read":      dateField(func(b *Book) **Date { return &b.Read }),
	"Borrowed":  boolField(func(b *Book) *bool { return &b.Borrowed }),
	"_Mask":     boolField(func(b *Book) *bool { return &b.Mask }),
}

func stringField(field func(*Book) *string) fieldAccessor {
	return fieldAccessor{
		get: func(b *Book) Cell {
			if v := *field(b); v != "" {
				return v
			}
			return nil
		},
		set: func(b *Book, v Cell) error {
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("want string, got %T", v)
			}
			*field(b) = s
			return nil
		},
	}
}

func floatField(field func(*Book) **float64) fieldAccessor {
	return fieldAccessor{
		get: func(b *Book) Cell {
			if v := *field(b); v != nil {
				return *v
			}
			return nil
		},
		set: func(b *Book, v Cell) error {
			f, ok := v.(float64)
			if !ok {
				return fmt.Errorf("want float64, got %T", v)
			}
			*field(b) = &f
			return nil
		},
	}
}

func dateField(field func(*Book) **Date) fieldAccessor {
	return fieldAccessor{
		get: func(b *Book) Cell {
			if v := *field(b); v != nil {
				return *v
			}
			return nil
		},
		set: func(b *Book, v Cell) error {
			d, ok := v.(Date)
			if !ok {
				return fmt.Errorf("want date, got %T", v)
			}
			*field(b) = &d
			return nil
		},
	}
}

func boolField(field func(*Book) *bool) fieldAccessor {
	return fieldAccessor{
		get: func(b *Book) Cell {
			return *field(b)
		},
		set: func(b *Book, v Cell) error {
			val, ok := v.(bool)
			if !ok {
				return fmt.Errorf("want bool, got %T", v)
			}
			*field(b) = val
			return nil
		},
	}
}

// KnownColumn reports whether name is an addressable column.
func KnownColumn(name string) bool {
	_, ok := fieldAccessors[name]
	return ok
}

// Get reads a column by name. The second result is false when the cell is
// unset. Unknown columns return (nil, false).
func Get(b *Book, column string) (Cell, bool) {
	acc, ok := fieldAccessors[column]
	if !ok {
		return nil, false
	}
	v := acc.get(b)
	return v, v != nil
}

// Set writes a column by name, rejecting unknown columns and mismatched
// value types.
func Set(b *Book, column string, value Cell) error {
	acc, ok := fieldAccessors[column]
	if !ok {
		return fmt.Errorf("set %s: unknown column", column)
	}
	if value == nil {
		return fmt.Errorf("set %s: nil value", column)
	}
	if err := acc.set(b, value); err != nil {
		return fmt.Errorf("set %s: %w", column, err)
	}
	return nil
}

// CellsEqual compares two cells for equality, treating nil as unset.
func CellsEqual(a, b Cell) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case Date:
		bv, ok := b.(Date)
		return ok && av.Equal(bv)
	default:
		return a == b
	}
}
