package record

// Of constrains a type parameter to a domain record type. Every record
// carries its persistent (or temporary) identifier, can produce a copy with
// a different identifier, and can coerce absent optional fields to defined
// zeros.
//
// The constraint is self-referential (T appears in its own bound) so that
// WithID and Normalized return the concrete type, not an interface.
type Of[T any] interface {
	RecordID() string
	WithID(id string) T
	Normalized() T
}
