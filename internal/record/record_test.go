package record_test

import (
	"testing"
	"time"

	"bookstack/internal/record"
)

func TestParseDateRoundTrip(t *testing.T) {
	d, err := record.ParseDate("2020-02-29")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.String() != "2020-02-29" {
		t.Fatalf("round trip: %q", d.String())
	}
	if _, err := record.ParseDate("not-a-date"); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestDateAddMonths(t *testing.T) {
	d := record.NewDate(2025, time.November, 1)
	got := d.AddMonths(3)
	want := record.NewDate(2026, time.February, 1)
	if got != want {
		t.Fatalf("AddMonths(3) = %v, want %v", got, want)
	}
}

func TestEntryValue(t *testing.T) {
	cases := []struct {
		entry string
		want  float64
		ok    bool
	}{
		{"3", 3, true},
		{"2.5", 2.5, true},
		{"1|2|3", 2, true},
		{"", 0, false},
		{"prequel", 0, false},
	}
	for _, tc := range cases {
		got, ok := record.EntryValue(tc.entry)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("EntryValue(%q) = %v, %v; want %v, %v", tc.entry, got, ok, tc.want, tc.ok)
		}
	}
}

func TestGetSetByColumnName(t *testing.T) {
	b := &record.Book{ID: "1"}

	if err := record.Set(b, "Pages", 341.0); err != nil {
		t.Fatalf("Set Pages: %v", err)
	}
	if b.Pages == nil || *b.Pages != 341 {
		t.Fatalf("Pages not written: %v", b.Pages)
	}

	read := record.NewDate(2024, time.June, 1)
	if err := record.Set(b, "Read", read); err != nil {
		t.Fatalf("Set Read: %v", err)
	}
	got, set := record.Get(b, "Read")
	if !set || got != record.Cell(read) {
		t.Fatalf("Get Read = %v, %v", got, set)
	}

	if _, set := record.Get(b, "Title"); set {
		t.Fatal("empty Title should read as unset")
	}
	if err := record.Set(b, "Pages", "nope"); err == nil {
		t.Fatal("expected type mismatch error")
	}
	if err := record.Set(b, "NoSuchColumn", "x"); err == nil {
		t.Fatal("expected unknown column error")
	}
}

func TestTableRejectsDuplicateIDs(t *testing.T) {
	table := record.NewTable()
	if err := table.Append(&record.Book{ID: "1"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := table.Append(&record.Book{ID: "1"}); err == nil {
		t.Fatal("expected duplicate id error")
	}
	if table.Len() != 1 {
		t.Fatalf("len = %d", table.Len())
	}
}

func TestTableCloneIsDeep(t *testing.T) {
	pages := 100.0
	table := record.NewTable()
	if err := table.Append(&record.Book{ID: "1", Pages: &pages}); err != nil {
		t.Fatalf("append: %v", err)
	}

	clone := table.Clone()
	cloned, _ := clone.Get("1")
	*cloned.Pages = 999

	original, _ := table.Get("1")
	if *original.Pages != 100 {
		t.Fatalf("clone shares pages pointer: %v", *original.Pages)
	}
}
