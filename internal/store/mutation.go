package store

// MutationPhase is the state of one optimistic create.
type MutationPhase int

const (
	// MutationPending means the provisional record is in local state and
	// the remote create has not resolved yet.
	MutationPending MutationPhase = iota

	// MutationConfirmed means the remote create succeeded and the
	// provisional record was replaced by the server-confirmed one.
	MutationConfirmed

	// MutationFailed means the remote create failed and the provisional
	// record was rolled back out of local state.
	MutationFailed
)

// String returns the phase name for logging.
func (p MutationPhase) String() string {
	switch p {
	case MutationPending:
		return "pending"
	case MutationConfirmed:
		return "confirmed"
	case MutationFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Mutation tracks one optimistic create from issuance of its temporary
// identifier to resolution. Transitions are driven only by remote call
// resolution; a mutation never leaves a terminal phase.
type Mutation struct {
	// TempID is the provisional identifier issued at insert time.
	TempID string

	// RealID is the server-assigned identifier, set on confirmation.
	RealID string

	// Phase is the current state.
	Phase MutationPhase
}
