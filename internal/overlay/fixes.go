package overlay

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"bookstack/internal/diag"
	"bookstack/internal/record"
	"bookstack/internal/schema"
)

// The fix file is accepted in two shapes that must normalize identically:
//
//	[{"BookId": "100", "Pages": 341}, ...]
//
// or the columnar form grouping by column, then value, then ids:
//
//	{"columns": {"Pages": {"341": ["100", "101"]}}}
type columnarFixes struct {
	Columns map[string]map[string][]string `json:"columns"`
}

// LoadFixes reads the fix file and normalizes it into per-book patches in a
// deterministic order. A missing file yields an empty stage.
func LoadFixes(path string, findings *diag.Collector) (Stage, error) {
	stage := Stage{Name: string(schema.SourceFixes)}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return stage, nil
		}
		return stage, fmt.Errorf("read fixes: %w", err)
	}
	if len(data) == 0 {
		return stage, nil
	}

	byBook, order, err := parseFixes(data, findings)
	if err != nil {
		return stage, err
	}
	for _, id := range order {
		stage.Patches = append(stage.Patches, Patch{ID: id, Cells: byBook[id]})
	}
	return stage, nil
}

func parseFixes(data []byte, findings *diag.Collector) (map[string]map[string]record.Cell, []string, error) {
	byBook := make(map[string]map[string]record.Cell)
	var order []string
	put := func(id, column string, raw any) {
		cell, err := CoerceCell(column, raw)
		if err != nil {
			findings.Addf(string(schema.SourceFixes), diag.CodeBadValue, id, column, "%v", err)
			return
		}
		if _, ok := byBook[id]; !ok {
			byBook[id] = make(map[string]record.Cell)
			order = append(order, id)
		}
		byBook[id][column] = cell
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var wrapper columnarFixes
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, nil, fmt.Errorf("parse fixes: %w", err)
		}
		// Column, value, and id iteration each sort so both file shapes
		// normalize to the identical patch sequence.
		for _, column := range sortedKeys(wrapper.Columns) {
			values := wrapper.Columns[column]
			for _, value := range sortedKeys(values) {
				for _, id := range values[value] {
					put(id, column, value)
				}
			}
		}
		sort.Strings(order)
		return byBook, order, nil
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil, fmt.Errorf("parse fixes: %w", err)
	}
	for _, rec := range records {
		rawID, ok := rec["BookId"]
		if !ok {
			findings.Addf(string(schema.SourceFixes), diag.CodeBadValue, "", "BookId",
				"fix record carries no BookId")
			continue
		}
		id := stringify(rawID)
		for _, column := range sortedKeys(rec) {
			if column == "BookId" {
				continue
			}
			put(id, column, rec[column])
		}
	}
	sort.Strings(order)
	return byBook, order, nil
}

// CoerceCell converts a raw JSON or CSV value into the typed cell the named
// column expects.
func CoerceCell(column string, raw any) (record.Cell, error) {
	switch column {
	case "Borrowed", "_Mask":
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			parsed, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("bad bool %q", v)
			}
			return parsed, nil
		}
		return nil, fmt.Errorf("bad bool %v", raw)
	case "Pages", "Words", "Published", "Rating", "AvgRating":
		switch v := raw.(type) {
		case float64:
			return v, nil
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("bad number %q", v)
			}
			return parsed, nil
		}
		return nil, fmt.Errorf("bad number %v", raw)
	}
	if schema.IsDate(column) {
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("bad date %v", raw)
		}
		parsed, err := record.ParseDate(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		return parsed, nil
	}
	return stringify(raw), nil
}

func stringify(raw any) string {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
