// Package search implements the cross-entity global search: case-folded
// substring matching over catalog-designated fields, capped per category,
// preserving source order.
package search

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/atelier/internal/record"
)

// MinQueryLength is the activation guard: shorter trimmed queries yield no
// results and no category computation, to avoid noisy matches.
const MinQueryLength = 2

// MaxPerCategory caps the result count of each category.
const MaxPerCategory = 3

// Item is one searchable record, flattened to its designated fields.
type Item struct {
	// Fields maps searchable field names to their values.
	Fields map[string]string

	// Label and SubLabel drive result display.
	Label    string
	SubLabel string

	// Route is the navigation target for click-through.
	Route record.Route

	// ParentID back-references the owning record (contacts only).
	ParentID string

	// DedupeKey, when non-empty, collapses duplicate items within the
	// category before capping.
	DedupeKey string
}

// Source is one searchable category: its designated match fields and its
// items in natural order.
type Source struct {
	Category string
	Fields   []string
	Items    []Item
}

// Results maps category names to their capped result lists.
type Results map[string][]record.SearchResult

// Total returns the number of results across all categories.
func (r Results) Total() int {
	n := 0
	for _, rs := range r {
		n += len(rs)
	}
	return n
}

// Run matches the query against every source.
//
// The query is trimmed and case-folded; below MinQueryLength the result is
// empty with no per-category work done. Matching is case-insensitive
// substring over each source's designated fields. Within a category,
// source order is preserved and at most MaxPerCategory results survive;
// deduplication (when items carry a DedupeKey) happens before capping.
func Run(query string, sources []Source) Results {
	out := Results{}

	needle := fold(strings.TrimSpace(query))
	if utf8.RuneCountInString(needle) < MinQueryLength {
		return out
	}

	for _, src := range sources {
		matches := runSource(needle, src)
		if len(matches) > 0 {
			out[src.Category] = matches
		}
	}
	return out
}

func runSource(needle string, src Source) []record.SearchResult {
	var results []record.SearchResult
	seen := map[string]bool{}

	for _, item := range src.Items {
		if !matches(needle, item, src.Fields) {
			continue
		}
		if item.DedupeKey != "" {
			if seen[item.DedupeKey] {
				continue
			}
			seen[item.DedupeKey] = true
		}

		results = append(results, record.SearchResult{
			Category: src.Category,
			Label:    item.Label,
			SubLabel: item.SubLabel,
			Route:    item.Route,
			ParentID: item.ParentID,
		})
		if len(results) == MaxPerCategory {
			break
		}
	}
	return results
}

func matches(needle string, item Item, fields []string) bool {
	for _, field := range fields {
		if value, ok := item.Fields[field]; ok {
			if strings.Contains(fold(value), needle) {
				return true
			}
		}
	}
	return false
}

// fold canonicalizes text for comparison: NFC normalization, then simple
// case folding. Both sides of every match go through the same fold.
func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
