package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"bookstack/internal/collection"
	"bookstack/internal/record"
)

// filterFlags is the shelf/language/category/borrowed filter surface shared
// by the selection commands. Include and exclude are mutually exclusive per
// column; shelf names are validated here, at the CLI boundary, since the
// facade itself accepts any value.
type filterFlags struct {
	shelves           []string
	excludeShelves    []string
	languages         []string
	excludeLanguages  []string
	categories        []string
	excludeCategories []string
	borrowed          string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSliceVar(&f.shelves, "shelf", nil, "Only books on these shelves")
	flags.StringSliceVar(&f.excludeShelves, "exclude-shelf", nil, "Skip books on these shelves")
	flags.StringSliceVar(&f.languages, "language", nil, "Only books in these languages")
	flags.StringSliceVar(&f.excludeLanguages, "exclude-language", nil, "Skip books in these languages")
	flags.StringSliceVar(&f.categories, "category", nil, "Only books in these categories")
	flags.StringSliceVar(&f.excludeCategories, "exclude-category", nil, "Skip books in these categories")
	flags.StringVar(&f.borrowed, "borrowed", "", "Filter by borrowed status (true or false)")
}

// shelfFiltered reports whether the user narrowed by shelf explicitly.
func (f *filterFlags) shelfFiltered() bool {
	return len(f.shelves) > 0 || len(f.excludeShelves) > 0
}

func (f *filterFlags) validate() error {
	if len(f.shelves) > 0 && len(f.excludeShelves) > 0 {
		return fmt.Errorf("--shelf and --exclude-shelf are mutually exclusive")
	}
	if len(f.languages) > 0 && len(f.excludeLanguages) > 0 {
		return fmt.Errorf("--language and --exclude-language are mutually exclusive")
	}
	if len(f.categories) > 0 && len(f.excludeCategories) > 0 {
		return fmt.Errorf("--category and --exclude-category are mutually exclusive")
	}
	for _, name := range append(append([]string{}, f.shelves...), f.excludeShelves...) {
		if !record.ValidShelf(name) {
			return fmt.Errorf("unknown shelf %q", name)
		}
	}
	if f.borrowed != "" {
		if _, err := strconv.ParseBool(f.borrowed); err != nil {
			return fmt.Errorf("--borrowed wants true or false, got %q", f.borrowed)
		}
	}
	return nil
}

func (f *filterFlags) apply(c *collection.Collection) error {
	if err := f.validate(); err != nil {
		return err
	}
	c.Shelves(f.shelves, false)
	c.Shelves(f.excludeShelves, true)
	c.Languages(f.languages, false)
	c.Languages(f.excludeLanguages, true)
	c.Categories(f.categories, false)
	c.Categories(f.excludeCategories, true)
	if f.borrowed != "" {
		value, _ := strconv.ParseBool(f.borrowed)
		c.Borrowed(&value)
	}
	return nil
}
