// Package query defines structured filter and sort values and renders them
// into the remote collection store's filter grammar.
//
// Predicates are built as typed values (field, operator, value) rather than
// concatenated strings, so they can be validated and tested in isolation and
// values are always escaped on the way out. The rendered grammar is the
// remote store's own syntax (field='value'), not SQL.
package query
