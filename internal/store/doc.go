// Package store implements the optimistic scoped store: one generic
// in-memory collection per domain entity, mutated locally before the remote
// collection store confirms, and reconciled when it does.
//
// The store owns three pieces of state behind one mutex: the ordered items
// slice, a loading flag, and a single last-error slot. Every mutation
// follows the same shape: take the lock, apply the optimistic change,
// release the lock, perform the remote round trip on the calling goroutine,
// retake the lock, reconcile. Readers observe optimistic state during the
// round trip.
//
// Creates are tracked through an explicit per-record mutation state machine
// (pending → confirmed | failed) indexed by temporary identifier, rather
// than through captured variables. Temporary identifiers are UUIDv7-based
// and never reused within a process.
//
// Fetches are epoch-guarded: switching scope while a fetch is in flight
// bumps the store's fetch epoch, and a response whose epoch is no longer
// current is discarded instead of overwriting newer-scope data.
package store
