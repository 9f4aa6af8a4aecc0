// Package record defines the domain records of the console: clients and the
// collections scoped to them (contacts, notes, evaluations, invoices,
// variables), plus the derived values computed from them (notifications,
// search results).
//
// Records arrive from the remote collection store with optional fields
// possibly absent. Every type carries a Normalized method that coerces
// absence to a defined zero (empty string, empty slice) so downstream code
// never observes nil where a collection is expected.
//
// Derived values (Notification, SearchResult) are never persisted and never
// mutated in place; they are recomputed from scratch whenever contributing
// records change.
package record
