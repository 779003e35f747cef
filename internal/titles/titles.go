// Package titles decomposes edition titles into their canonical parts.
//
// Goodreads-style exports encode two things inside the raw title string: a
// roman-numeral volume marker ("Foo II" meaning part two of the edition) and
// a trailing parenthetical series reference ("Foo (Bar, #3)"). Decompose
// splits both off so volume merging can group editions by canonical title and
// series data can backfill missing columns.
package titles

import (
	"regexp"
	"strings"

	"bookstack/internal/record"
)

// Decomposed is the result of splitting a raw title.
type Decomposed struct {
	Title  string
	Volume string
	Series string
	Entry  string
}

var (
	// "(Series, #3)" trailing parenthetical; series names may themselves
	// contain commas, so match greedily up to the last ", #".
	seriesRe = regexp.MustCompile(`\s*\((.+),\s*#([^()]+)\)\s*$`)
	// Roman-numeral volume suffix on the remaining title.
	volumeRe = regexp.MustCompile(`\s+([IVXLCDM]+)$`)
)

// Decompose splits a raw edition title into canonical title, volume marker,
// and embedded series reference. Absent parts come back empty; a title with
// neither suffix is returned unchanged.
func Decompose(raw string) Decomposed {
	out := Decomposed{Title: strings.TrimSpace(raw)}

	if m := seriesRe.FindStringSubmatch(out.Title); m != nil {
		remainder := strings.TrimSpace(out.Title[:len(out.Title)-len(m[0])])
		if remainder != "" {
			out.Title = remainder
			out.Series = strings.TrimSpace(m[1])
			out.Entry = strings.TrimSpace(m[2])
		}
	}

	if m := volumeRe.FindStringSubmatch(out.Title); m != nil {
		remainder := strings.TrimSpace(out.Title[:len(out.Title)-len(m[0])])
		if remainder != "" {
			out.Title = remainder
			out.Volume = m[1]
		}
	}

	return out
}

// Normalize applies Decompose to every row of a table in place: the canonical
// title replaces the raw one, the volume marker lands in Volume, and embedded
// series data backfills Series/Entry only where those columns are empty.
func Normalize(t *record.Table) {
	for _, b := range t.Books() {
		d := Decompose(b.Title)
		b.Title = d.Title
		if b.Volume == "" {
			b.Volume = d.Volume
		}
		if b.Series == "" && d.Series != "" {
			b.Series = d.Series
			if b.Entry == "" {
				b.Entry = d.Entry
			}
		}
	}
}
