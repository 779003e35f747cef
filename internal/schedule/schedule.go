// Package schedule computes calendar dates for configured reading plans.
//
// Each plan selects its candidates from the full collection (never a filtered
// view), orders them, and assigns the remaining unread ones to successive
// calendar windows of 12/per_year months. A plan whose last-read anchor is
// too recent has its first window pushed back so an author or series is not
// rescheduled within six months of finishing it, unless the plan forces that
// window's year.
package schedule

import (
	"fmt"
	"sort"
	"time"

	"bookstack/internal/collection"
	"bookstack/internal/config"
	"bookstack/internal/diag"
	"bookstack/internal/record"
)

// rereadGapMonths is the minimum distance between finishing a plan's latest
// read and its next scheduled window.
const rereadGapMonths = 6

// Assignment maps one book to the window it should be read in.
type Assignment struct {
	Plan   string
	Date   record.Date
	BookID string
}

// Compute resolves every plan against the collection and returns the window
// assignments in plan order. Selector resolution failures abort the whole
// computation; an exhausted plan (nothing left unread) contributes nothing.
func Compute(c *collection.Collection, plans []config.Plan, today record.Date) ([]Assignment, error) {
	var out []Assignment
	for _, plan := range plans {
		assigned, err := computePlan(c, plan, today)
		if err != nil {
			return nil, fmt.Errorf("plan %q: %w", plan.Name(), err)
		}
		out = append(out, assigned...)
	}
	return out, nil
}

func computePlan(c *collection.Collection, plan config.Plan, today record.Date) ([]Assignment, error) {
	candidates, err := selectCandidates(c, plan)
	if err != nil {
		return nil, err
	}
	orderCandidates(candidates, plan)

	anchor := lastRead(candidates, today)
	var unread []*record.Book
	for _, b := range candidates {
		if b.Shelf != record.ShelfRead && b.Shelf != record.ShelfCurrent {
			unread = append(unread, b)
		}
	}
	if len(unread) == 0 {
		return nil, nil
	}

	next := windows(plan, today)
	w := next()
	// Don't reschedule a freshly finished author or series: when the first
	// window opens within six months of the anchor, fall through to the
	// next window unless the plan forces that year.
	if anchor != nil {
		threshold := anchor.AddMonths(rereadGapMonths)
		if w.Before(threshold) && plan.Force != w.Year {
			w = next()
		}
	}
	for i := 0; i < plan.Skip; i++ {
		w = next()
	}

	assigned := make([]Assignment, 0, len(unread))
	for _, b := range unread {
		assigned = append(assigned, Assignment{Plan: plan.Name(), Date: w, BookID: b.ID})
		w = next()
	}
	return assigned, nil
}

// selectCandidates resolves the plan's selector and gathers matching rows
// from the unfiltered collection.
func selectCandidates(c *collection.Collection, plan config.Plan) ([]*record.Book, error) {
	var match func(*record.Book) bool
	if plan.Author != "" {
		id, err := c.ResolveAuthor(plan.Author)
		if err != nil {
			return nil, err
		}
		match = func(b *record.Book) bool { return b.AuthorID == id }
	} else {
		id, err := c.ResolveSeries(plan.Series)
		if err != nil {
			return nil, err
		}
		match = func(b *record.Book) bool { return b.SeriesID == id }
	}

	var out []*record.Book
	for _, b := range c.All() {
		if match(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

// orderCandidates sorts series plans by parsed entry and author plans by
// publication year. A series with no usable entry numbering falls back to
// publication order. Ties break on id so the order is deterministic.
func orderCandidates(books []*record.Book, plan config.Plan) {
	byEntry := false
	if plan.Series != "" {
		for _, b := range books {
			if _, ok := record.EntryValue(b.Entry); ok {
				byEntry = true
				break
			}
		}
	}

	rank := func(b *record.Book) (float64, bool) {
		if byEntry {
			return record.EntryValue(b.Entry)
		}
		if b.Published != nil {
			return *b.Published, true
		}
		return 0, false
	}

	sort.SliceStable(books, func(i, j int) bool {
		ri, iOK := rank(books[i])
		rj, jOK := rank(books[j])
		if iOK != jOK {
			return iOK // unrankable rows sort last
		}
		if iOK && ri != rj {
			return ri < rj
		}
		return books[i].ID < books[j].ID
	})
}

// lastRead finds the plan's anchor: the latest Read date among finished
// candidates, or today when one is currently being read, or nil when the
// plan is entirely unread.
func lastRead(candidates []*record.Book, today record.Date) *record.Date {
	var latest *record.Date
	for _, b := range candidates {
		if b.Shelf == record.ShelfCurrent {
			anchor := today
			return &anchor
		}
		if b.Shelf == record.ShelfRead && b.Read != nil {
			if latest == nil || b.Read.After(*latest) {
				latest = b.Read
			}
		}
	}
	if latest == nil {
		return nil
	}
	anchor := *latest
	return &anchor
}

// windows returns a generator over the plan's calendar windows. The first
// yielded window is the one containing today (or the first window at all if
// the plan starts in the future); each subsequent call steps one window.
func windows(plan config.Plan, today record.Date) func() record.Date {
	step := 12 / plan.PerYear
	startYear := plan.Start
	if startYear == 0 {
		startYear = today.Year
	}
	w := record.NewDate(startYear, time.Month(plan.Offset), 1)
	// Skip windows that have fully elapsed.
	for !w.AddMonths(step).Time().After(today.Time()) {
		w = w.AddMonths(step)
	}
	return func() record.Date {
		current := w
		w = w.AddMonths(step)
		return current
	}
}

// Apply writes assignments into the collection's table. Per plan only the
// soonest assignment for a given book is written; when separate plans touch
// the same book the last plan applied wins and the overlap is reported as a
// diagnostic.
func Apply(c *collection.Collection, assignments []Assignment, findings *diag.Collector) {
	type claim struct{ plan string }
	claimed := make(map[string]claim)
	for _, a := range assignments {
		b, ok := c.Base().Get(a.BookID)
		if !ok {
			continue
		}
		if prev, dup := claimed[a.BookID]; dup {
			if prev.plan == a.Plan {
				// Within one plan the soonest assignment stands.
				continue
			}
			findings.Addf("schedule", diag.CodePlanOverlap, a.BookID, "Scheduled",
				"plans %q and %q both schedule this book; keeping %q", prev.plan, a.Plan, a.Plan)
		}
		claimed[a.BookID] = claim{plan: a.Plan}
		date := a.Date
		b.Scheduled = &date
	}
}
