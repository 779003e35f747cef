package volumes

import "bookstack/internal/record"

// Dedup drops rows whose (Author, Title) duplicates an earlier row, keeping
// the first. It only makes sense after Merge has collapsed volume groups;
// config validation rejects dedup without merging enabled.
func Dedup(t *record.Table) *record.Table {
	seen := make(map[groupKey]bool)
	out := record.NewTable()
	for _, b := range t.Books() {
		key := groupKey{author: b.Author, title: b.Title}
		if seen[key] {
			continue
		}
		seen[key] = true
		// Append cannot fail: ids were unique in the input.
		_ = out.Append(b.Clone())
	}
	return out
}
