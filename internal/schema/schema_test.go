package schema_test

import (
	"testing"

	"bookstack/internal/schema"
)

func TestColumnsForGoodreadsOrder(t *testing.T) {
	got := schema.ColumnsFor(schema.SourceGoodreads)
	want := []string{
		"Author", "AuthorId", "Title", "Work", "Shelf", "Category",
		"Scheduled", "Borrowed", "Series", "SeriesId", "Entry", "Binding",
		"Published", "Language", "Pages", "Added", "Started", "Read",
		"Rating", "AvgRating",
	}
	if len(got) != len(want) {
		t.Fatalf("column count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("column %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestUnknownSourceYieldsEmpty(t *testing.T) {
	if cols := schema.ColumnsFor(schema.Source("nonesuch")); len(cols) != 0 {
		t.Fatalf("unknown source produced columns: %v", cols)
	}
	if cols := schema.DateColumns(schema.Source("nonesuch")); len(cols) != 0 {
		t.Fatalf("unknown source produced date columns: %v", cols)
	}
}

func TestDateColumns(t *testing.T) {
	got := schema.DateColumns(schema.SourceGoodreads)
	want := map[string]bool{"Scheduled": true, "Added": true, "Started": true, "Read": true}
	if len(got) != len(want) {
		t.Fatalf("date columns = %v", got)
	}
	for _, name := range got {
		if !want[name] {
			t.Fatalf("unexpected date column %q", name)
		}
	}
}

func TestCombineRules(t *testing.T) {
	rules := schema.CombineRules()
	cases := map[string]schema.CombineRule{
		"Pages":   schema.CombineSum,
		"Words":   schema.CombineSum,
		"Added":   schema.CombineMin,
		"Started": schema.CombineMin,
		"Read":    schema.CombineMax,
		"Rating":  schema.CombineMean,
		"Title":   schema.CombineFirst,
		"_Mask":   schema.CombineAny,
	}
	for column, want := range cases {
		if rules[column] != want {
			t.Fatalf("rule for %s = %q, want %q", column, rules[column], want)
		}
	}
}

func TestPreferTable(t *testing.T) {
	book := schema.PreferredBy(schema.PreferBook)
	found := false
	for _, name := range book {
		if name == "Language" {
			found = true
		}
		if name == "Title" {
			t.Fatal("Title must prefer work, not book")
		}
	}
	if !found {
		t.Fatalf("Language missing from book-preferred set: %v", book)
	}
	if none := schema.PreferredBy(schema.PreferNone); len(none) != 0 {
		t.Fatalf("PreferNone should yield nothing, got %v", none)
	}
}
