package ledger

import (
	"fmt"
	"slices"
	"strings"

	"budget/internal/core"
)

// Criteria narrows a transaction list. Zero fields impose no constraint.
type Criteria struct {
	Category string
	From     core.Date
	To       core.Date
}

// ParseCriteria builds Criteria from raw query values; empty strings are
// treated as absent.
func ParseCriteria(category, from, to string) (Criteria, error) {
	c := Criteria{Category: strings.TrimSpace(category)}
	if v := strings.TrimSpace(from); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return Criteria{}, fmt.Errorf("parse from date %q: %w", v, err)
		}
		c.From = d
	}
	if v := strings.TrimSpace(to); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return Criteria{}, fmt.Errorf("parse to date %q: %w", v, err)
		}
		c.To = d
	}
	return c, nil
}

// IsEmpty reports whether c matches every record.
func (c Criteria) IsEmpty() bool {
	return c.Category == "" && c.From.IsEmpty() && c.To.IsEmpty()
}

// Key is a stable string form of c, suitable as a cache key.
func (c Criteria) Key() string {
	return c.Category + "|" + c.From.String() + "|" + c.To.String()
}

// Match reports whether t satisfies every present predicate. Date bounds are
// inclusive.
func (c Criteria) Match(t core.Transaction) bool {
	if c.Category != "" && t.Category != c.Category {
		return false
	}
	if !c.From.IsEmpty() && t.Date.Before(c.From.Time) {
		return false
	}
	if !c.To.IsEmpty() && t.Date.After(c.To.Time) {
		return false
	}
	return true
}

// Apply returns the matching records sorted by date descending. records is
// not modified.
func Apply(records []core.Transaction, c Criteria) []core.Transaction {
	out := make([]core.Transaction, 0, len(records))
	for _, t := range records {
		if c.Match(t) {
			out = append(out, t)
		}
	}
	sortByDateDesc(out)
	return slices.Clip(out)
}
