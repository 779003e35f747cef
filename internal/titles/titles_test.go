package titles_test

import (
	"testing"

	"bookstack/internal/record"
	"bookstack/internal/titles"
)

func TestDecompose(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want titles.Decomposed
	}{
		{
			name: "volume and series",
			raw:  "Foo II (Bar, #3)",
			want: titles.Decomposed{Title: "Foo", Volume: "II", Series: "Bar", Entry: "3"},
		},
		{
			name: "plain title unchanged",
			raw:  "Foo",
			want: titles.Decomposed{Title: "Foo"},
		},
		{
			name: "series only",
			raw:  "The Warden (Chronicles of Barsetshire, #1)",
			want: titles.Decomposed{Title: "The Warden", Series: "Chronicles of Barsetshire", Entry: "1"},
		},
		{
			name: "volume only",
			raw:  "Kristin Lavransdatter III",
			want: titles.Decomposed{Title: "Kristin Lavransdatter", Volume: "III"},
		},
		{
			name: "series name with comma",
			raw:  "Foo (Bar, Baz, #2)",
			want: titles.Decomposed{Title: "Foo", Series: "Bar, Baz", Entry: "2"},
		},
		{
			name: "parenthetical without entry is kept",
			raw:  "Foo (annotated)",
			want: titles.Decomposed{Title: "Foo (annotated)"},
		},
		{
			name: "title that is a roman numeral survives",
			raw:  "V",
			want: titles.Decomposed{Title: "V"},
		},
		{
			name: "compound entry",
			raw:  "Omnibus (Saga, #1|2|3)",
			want: titles.Decomposed{Title: "Omnibus", Series: "Saga", Entry: "1|2|3"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := titles.Decompose(tc.raw)
			if got != tc.want {
				t.Fatalf("Decompose(%q) = %+v, want %+v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizeBackfillsSeries(t *testing.T) {
	table := record.NewTable()
	book := &record.Book{ID: "1", Author: "X", Title: "Foo II (Bar, #3)"}
	if err := table.Append(book); err != nil {
		t.Fatalf("append: %v", err)
	}

	titles.Normalize(table)

	if book.Title != "Foo" {
		t.Fatalf("title not canonicalized: %q", book.Title)
	}
	if book.Volume != "II" {
		t.Fatalf("volume not split: %q", book.Volume)
	}
	if book.Series != "Bar" || book.Entry != "3" {
		t.Fatalf("series/entry not backfilled: %q %q", book.Series, book.Entry)
	}
}

func TestNormalizeKeepsExistingSeries(t *testing.T) {
	table := record.NewTable()
	book := &record.Book{ID: "1", Title: "Foo (Bar, #3)", Series: "Original", Entry: "7"}
	if err := table.Append(book); err != nil {
		t.Fatalf("append: %v", err)
	}

	titles.Normalize(table)

	if book.Series != "Original" || book.Entry != "7" {
		t.Fatalf("existing series/entry overwritten: %q %q", book.Series, book.Entry)
	}
	if book.Title != "Foo" {
		t.Fatalf("title not canonicalized: %q", book.Title)
	}
}
