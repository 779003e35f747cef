// Package volumes collapses physical rows that are volumes of one logical
// work into single logical rows.
//
// Grouping is by (Author, canonical Title) over rows carrying a non-empty
// volume marker; rows without a marker always pass through untouched. Cell
// aggregation follows the schema registry's combine rules, the surviving id
// is the first group member's by input order, and page totals are conserved
// exactly.
package volumes

import (
	"fmt"

	"bookstack/internal/record"
	"bookstack/internal/schema"
)

type groupKey struct {
	author string
	title  string
}

// Merge returns a new table with volume groups collapsed. The input table is
// not modified. Skipping this step entirely is valid; downstream consumers
// then see one row per physical volume.
func Merge(t *record.Table) (*record.Table, error) {
	groups := make(map[groupKey][]*record.Book)
	for _, b := range t.Books() {
		if b.Volume == "" {
			continue
		}
		key := groupKey{author: b.Author, title: b.Title}
		groups[key] = append(groups[key], b)
	}

	rules := schema.CombineRules()
	merged := record.NewTable()
	emitted := make(map[groupKey]bool)
	for _, b := range t.Books() {
		if b.Volume == "" {
			if err := merged.Append(b.Clone()); err != nil {
				return nil, err
			}
			continue
		}
		key := groupKey{author: b.Author, title: b.Title}
		if emitted[key] {
			continue
		}
		emitted[key] = true
		group := groups[key]
		if len(group) == 1 {
			if err := merged.Append(b.Clone()); err != nil {
				return nil, err
			}
			continue
		}
		out, err := combine(group, rules)
		if err != nil {
			return nil, err
		}
		if err := merged.Append(out); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// combine aggregates a group of two or more volumes into one row keyed by
// the first member's id.
func combine(group []*record.Book, rules map[string]schema.CombineRule) (*record.Book, error) {
	out := &record.Book{ID: group[0].ID}
	for _, column := range schema.ColumnsFor(schema.SourceCollection) {
		rule, ok := rules[column]
		if !ok {
			rule = schema.CombineFirst
		}
		cell := combineCells(group, column, rule)
		if cell == nil {
			continue
		}
		if err := record.Set(out, column, cell); err != nil {
			return nil, fmt.Errorf("merge %s: %w", group[0].ID, err)
		}
	}
	// A combined row is synthetic regardless of its members' masks.
	out.Mask = true
	return out, nil
}

func combineCells(group []*record.Book, column string, rule schema.CombineRule) record.Cell {
	cells := make([]record.Cell, 0, len(group))
	for _, b := range group {
		if v, set := record.Get(b, column); set {
			cells = append(cells, v)
		}
	}
	if len(cells) == 0 {
		return nil
	}

	switch rule {
	case schema.CombineFirst:
		return cells[0]
	case schema.CombineSum:
		total := 0.0
		for _, c := range cells {
			total += c.(float64)
		}
		return total
	case schema.CombineMean:
		total := 0.0
		for _, c := range cells {
			total += c.(float64)
		}
		return total / float64(len(cells))
	case schema.CombineMin:
		return extremeCell(cells, false)
	case schema.CombineMax:
		return extremeCell(cells, true)
	case schema.CombineAny:
		for _, c := range cells {
			if c == true {
				return true
			}
		}
		return false
	}
	return cells[0]
}

// extremeCell picks the minimum or maximum of a homogeneous cell slice;
// dates and floats are the only ordered cell kinds.
func extremeCell(cells []record.Cell, max bool) record.Cell {
	best := cells[0]
	for _, c := range cells[1:] {
		if cellLess(c, best) != max {
			best = c
		}
	}
	return best
}

func cellLess(a, b record.Cell) bool {
	switch av := a.(type) {
	case record.Date:
		return av.Before(b.(record.Date))
	case float64:
		return av < b.(float64)
	case string:
		return av < b.(string)
	}
	return false
}
