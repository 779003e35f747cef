// Package sources reads the per-source tabular inputs and normalizes each
// into the common row shape the schema registry defines.
//
// Every loader is side-effect-free beyond reading its input. A missing file
// is "no data from this source": loaders return an empty, correctly-shaped
// result so assembly works with partial data. Malformed leaf values degrade
// to unset cells and are recorded as diagnostics; the row is kept.
package sources

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"bookstack/internal/record"
	"bookstack/internal/schema"
)

// indexColumn heads every tabular file; its value is the row id.
const indexColumn = "BookId"

// readRows reads a CSV file into a header and rows. A missing file returns
// ok=false with no error.
func readRows(path string) (header []string, rows [][]string, ok bool, err error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, false, nil
		}
		return nil, nil, false, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	header, err = reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, true, nil
		}
		return nil, nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, false, fmt.Errorf("read %s: %w", path, err)
		}
		rows = append(rows, row)
	}
	return header, rows, true, nil
}

// WriteTable writes the table to path using the source's registry column
// order, date columns serialized as YYYY-MM-DD.
func WriteTable(path string, source schema.Source, t *record.Table) error {
	columns := schema.ColumnsFor(source)
	if len(columns) == 0 {
		return fmt.Errorf("write %s: source %q has no columns", path, source)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(append([]string{indexColumn}, columns...)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, b := range t.Books() {
		row := make([]string, 0, len(columns)+1)
		row = append(row, b.ID)
		for _, column := range columns {
			row = append(row, formatCell(b, column))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

func formatCell(b *record.Book, column string) string {
	value, set := record.Get(b, column)
	if !set {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case record.Date:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func columnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	return index
}
