package schedule_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"bookstack/internal/collection"
	"bookstack/internal/config"
	"bookstack/internal/diag"
	"bookstack/internal/record"
	"bookstack/internal/schedule"
)

var today = record.NewDate(2026, time.August, 31)

type row struct {
	id        string
	author    string
	authorID  string
	series    string
	seriesID  string
	entry     string
	shelf     record.Shelf
	read      *record.Date
	published *float64
}

func datePtr(y int, m time.Month, d int) *record.Date {
	v := record.NewDate(y, m, d)
	return &v
}

func floatPtr(f float64) *float64 { return &f }

func buildCollection(t *testing.T, rows []row) *collection.Collection {
	t.Helper()
	table := record.NewTable()
	for _, r := range rows {
		b := &record.Book{
			ID:        r.id,
			Author:    r.author,
			AuthorID:  r.authorID,
			Series:    r.series,
			SeriesID:  r.seriesID,
			Entry:     r.entry,
			Shelf:     r.shelf,
			Read:      r.read,
			Published: r.published,
			Title:     "Title " + r.id,
		}
		if b.Shelf == "" {
			b.Shelf = record.ShelfToRead
		}
		if err := table.Append(b); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	return collection.New(table)
}

func authorRows() []row {
	return []row{
		{id: "1", author: "Iris Murdoch", authorID: "Q1", shelf: record.ShelfRead, read: datePtr(2026, time.May, 10), published: floatPtr(1954)},
		{id: "2", author: "Iris Murdoch", authorID: "Q1", published: floatPtr(1961)},
		{id: "3", author: "Iris Murdoch", authorID: "Q1", published: floatPtr(1958)},
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	plans := []config.Plan{{Author: "Iris Murdoch", PerYear: 1, Offset: 1}}
	first, err := schedule.Compute(buildCollection(t, authorRows()), plans, today)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	second, err := schedule.Compute(buildCollection(t, authorRows()), plans, today)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("runs differ: %v vs %v", first, second)
	}
}

func TestAuthorPlanDefersAfterRecentRead(t *testing.T) {
	// The latest read finished within six months of the current window, so
	// the first assignment lands in the next window instead.
	plans := []config.Plan{{Author: "Iris Murdoch", PerYear: 1, Offset: 1}}
	got, err := schedule.Compute(buildCollection(t, authorRows()), plans, today)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	want := []schedule.Assignment{
		{Plan: "Iris Murdoch", Date: record.NewDate(2027, time.January, 1), BookID: "3"},
		{Plan: "Iris Murdoch", Date: record.NewDate(2028, time.January, 1), BookID: "2"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("assignments = %v, want %v", got, want)
	}
}

func TestForceYearBypassesRereadGap(t *testing.T) {
	plans := []config.Plan{{Author: "Iris Murdoch", PerYear: 1, Offset: 1, Force: 2026}}
	got, err := schedule.Compute(buildCollection(t, authorRows()), plans, today)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(got) == 0 || got[0].Date != record.NewDate(2026, time.January, 1) {
		t.Fatalf("forced plan should keep the current window, got %v", got)
	}
}

func TestSkipDiscardsLeadingWindows(t *testing.T) {
	rows := []row{
		{id: "1", author: "Iris Murdoch", authorID: "Q1", published: floatPtr(1954)},
	}
	plans := []config.Plan{{Author: "Iris Murdoch", PerYear: 1, Offset: 1, Skip: 2}}
	got, err := schedule.Compute(buildCollection(t, rows), plans, today)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(got) != 1 || got[0].Date != record.NewDate(2028, time.January, 1) {
		t.Fatalf("skip=2 should land on the third window, got %v", got)
	}
}

func TestHalfYearCadenceStartsInCurrentWindow(t *testing.T) {
	rows := []row{
		{id: "1", author: "Iris Murdoch", authorID: "Q1", published: floatPtr(1954)},
		{id: "2", author: "Iris Murdoch", authorID: "Q1", published: floatPtr(1961)},
	}
	plans := []config.Plan{{Author: "Iris Murdoch", PerYear: 2, Offset: 1}}
	got, err := schedule.Compute(buildCollection(t, rows), plans, today)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	want := []record.Date{
		record.NewDate(2026, time.July, 1),
		record.NewDate(2027, time.January, 1),
	}
	if len(got) != len(want) {
		t.Fatalf("assignments = %v", got)
	}
	for i, a := range got {
		if a.Date != want[i] {
			t.Fatalf("assignment %d on %v, want %v", i, a.Date, want[i])
		}
	}
}

func TestSeriesPlanOrdersByEntry(t *testing.T) {
	rows := []row{
		{id: "1", series: "Culture", seriesID: "S1", entry: "3", author: "A", authorID: "Q1"},
		{id: "2", series: "Culture", seriesID: "S1", entry: "1", author: "A", authorID: "Q1"},
		{id: "3", series: "Culture", seriesID: "S1", entry: "1|2", author: "A", authorID: "Q1"},
	}
	plans := []config.Plan{{Series: "Culture", PerYear: 1, Offset: 1}}
	got, err := schedule.Compute(buildCollection(t, rows), plans, today)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	var order []string
	for _, a := range got {
		order = append(order, a.BookID)
	}
	// Entry 1, then the 1|2 omnibus (mean 1.5), then 3.
	want := []string{"2", "3", "1"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
}

func TestSeriesPlanFallsBackToPublicationOrder(t *testing.T) {
	rows := []row{
		{id: "1", series: "Essays", seriesID: "S1", author: "A", authorID: "Q1", published: floatPtr(1990)},
		{id: "2", series: "Essays", seriesID: "S1", author: "A", authorID: "Q1", published: floatPtr(1970)},
	}
	plans := []config.Plan{{Series: "Essays", PerYear: 1, Offset: 1}}
	got, err := schedule.Compute(buildCollection(t, rows), plans, today)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if got[0].BookID != "2" || got[1].BookID != "1" {
		t.Fatalf("fallback order wrong: %v", got)
	}
}

func TestExhaustedPlanContributesNothing(t *testing.T) {
	rows := []row{
		{id: "1", author: "Iris Murdoch", authorID: "Q1", shelf: record.ShelfRead, read: datePtr(2020, time.May, 1)},
	}
	plans := []config.Plan{{Author: "Iris Murdoch", PerYear: 1, Offset: 1}}
	got, err := schedule.Compute(buildCollection(t, rows), plans, today)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no assignments, got %v", got)
	}
}

func TestCurrentlyReadingAnchorsAtToday(t *testing.T) {
	rows := []row{
		{id: "1", author: "Iris Murdoch", authorID: "Q1", shelf: record.ShelfCurrent},
		{id: "2", author: "Iris Murdoch", authorID: "Q1", published: floatPtr(1961)},
	}
	plans := []config.Plan{{Author: "Iris Murdoch", PerYear: 1, Offset: 1}}
	got, err := schedule.Compute(buildCollection(t, rows), plans, today)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	// today + 6 months reaches into 2027, so the 2026 window is suppressed.
	if len(got) != 1 || got[0].Date != record.NewDate(2027, time.January, 1) {
		t.Fatalf("assignments = %v", got)
	}
}

func TestComputeAbortsOnUnknownSelector(t *testing.T) {
	plans := []config.Plan{{Author: "Nobody", PerYear: 1, Offset: 1}}
	_, err := schedule.Compute(buildCollection(t, authorRows()), plans, today)
	if !errors.Is(err, collection.ErrUnknownSelector) {
		t.Fatalf("err = %v, want ErrUnknownSelector", err)
	}
}

func TestApplyWritesSoonestPerPlanAndFlagsOverlap(t *testing.T) {
	c := buildCollection(t, authorRows())
	assignments := []schedule.Assignment{
		{Plan: "first", Date: record.NewDate(2027, time.January, 1), BookID: "2"},
		{Plan: "first", Date: record.NewDate(2028, time.January, 1), BookID: "2"},
		{Plan: "second", Date: record.NewDate(2029, time.January, 1), BookID: "2"},
	}
	var findings diag.Collector
	schedule.Apply(c, assignments, &findings)

	b, _ := c.Base().Get("2")
	if b.Scheduled == nil || *b.Scheduled != record.NewDate(2029, time.January, 1) {
		t.Fatalf("scheduled = %v, want the last plan's date", b.Scheduled)
	}

	overlaps := 0
	for _, f := range findings.Findings() {
		if f.Code == diag.CodePlanOverlap {
			overlaps++
		}
	}
	if overlaps != 1 {
		t.Fatalf("overlap diagnostics = %d, want 1", overlaps)
	}
}

func TestApplyIgnoresUnknownBooks(t *testing.T) {
	c := buildCollection(t, authorRows())
	var findings diag.Collector
	schedule.Apply(c, []schedule.Assignment{
		{Plan: "first", Date: today, BookID: "999"},
	}, &findings)
	if len(findings.Findings()) != 0 {
		t.Fatalf("unexpected findings: %v", findings.Findings())
	}
}
