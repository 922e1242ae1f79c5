// Package collate provides natural-order string comparison for content
// filenames, backed by golang.org/x/text collation.
package collate

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator compares strings with numeric-aware, case-insensitive
// ordering, so "2-file.md" sorts before "10-file.md".
//
// A Collator is not safe for concurrent use; create one per goroutine.
type Collator struct {
	c *collate.Collator
}

// New creates a locale-neutral natural-order Collator.
func New() *Collator {
	return &Collator{
		c: collate.New(language.Und, collate.Numeric, collate.IgnoreCase),
	}
}

// Compare returns -1 if a sorts before b, +1 if after, 0 if equal.
func (c *Collator) Compare(a, b string) int {
	return c.c.CompareString(a, b)
}

// Less reports whether a sorts before b.
func (c *Collator) Less(a, b string) bool {
	return c.Compare(a, b) < 0
}

// SortStrings sorts the slice in natural order in place.
func (c *Collator) SortStrings(s []string) {
	sort.SliceStable(s, func(i, j int) bool {
		return c.Less(s[i], s[j])
	})
}
