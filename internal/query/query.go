package query

import (
	"fmt"
	"net/url"
	"strings"
)

// Op is a predicate operator. The remote store's grammar currently only
// needs equality; the closed set exists so new operators extend the type
// rather than leaking raw strings into filters.
type Op string

const (
	// OpEq is the equality operator, rendered as "=".
	OpEq Op = "="
)

// Filter is a single-field predicate on a collection listing.
// The zero Filter means "no filter".
type Filter struct {
	Field string
	Op    Op
	Value string
}

// IsZero reports whether the filter is empty (no filtering requested).
func (f Filter) IsZero() bool {
	return f.Field == "" && f.Value == ""
}

// Validate checks that a non-zero filter is well-formed.
func (f Filter) Validate() error {
	if f.IsZero() {
		return nil
	}
	if f.Field == "" {
		return fmt.Errorf("filter value %q has no field", f.Value)
	}
	if f.Op != OpEq {
		return fmt.Errorf("unsupported filter operator %q", string(f.Op))
	}
	return nil
}

// Encode renders the filter in the remote store's grammar: field='value'.
// Single quotes in the value are escaped by doubling. Returns "" for the
// zero filter.
func (f Filter) Encode() string {
	if f.IsZero() {
		return ""
	}
	escaped := strings.ReplaceAll(f.Value, "'", "''")
	return f.Field + string(f.Op) + "'" + escaped + "'"
}

// Sort is a server-side sort directive. Descending sorts are rendered with
// a leading "-", matching the remote store's grammar. Sorts are stable and
// ascending unless Desc is set.
type Sort struct {
	Field string
	Desc  bool
}

// Encode renders the sort directive, or "" when no sort is requested.
func (s Sort) Encode() string {
	if s.Field == "" {
		return ""
	}
	if s.Desc {
		return "-" + s.Field
	}
	return s.Field
}

// Options bundles the optional parts of a list call.
type Options struct {
	Filter Filter
	Sort   Sort
}

// Params renders the options as URL query parameters for the remote store.
// Zero-valued parts are omitted so the remote sees only what was requested.
func (o Options) Params() url.Values {
	v := url.Values{}
	if enc := o.Filter.Encode(); enc != "" {
		v.Set("filter", enc)
	}
	if enc := o.Sort.Encode(); enc != "" {
		v.Set("sort", enc)
	}
	return v
}
