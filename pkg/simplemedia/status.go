package simplemedia

import "fmt"

// CanTransition reports whether an asset may move from one status to
// another. Transitions are monotonic: "processing" may settle to "ready" or
// "failed"; "active", "ready" and "failed" are terminal.
func CanTransition(from, to AssetStatus) bool {
	switch from {
	case StatusProcessing:
		return to == StatusReady || to == StatusFailed
	case StatusActive, StatusReady, StatusFailed:
		return false
	default:
		return false
	}
}

// CheckTransition returns a typed error when the requested transition is not
// allowed from the asset's current status. Registries call this under their
// own synchronization so status changes stay monotonic under concurrency.
func CheckTransition(from, to AssetStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, from, to)
	}
	return nil
}

// IsTerminal reports whether a status has no outgoing transitions.
func (s AssetStatus) IsTerminal() bool {
	switch s {
	case StatusActive, StatusReady, StatusFailed:
		return true
	}
	return false
}

// Valid reports whether the status is one of the defined lifecycle states.
func (s AssetStatus) Valid() bool {
	switch s {
	case StatusActive, StatusProcessing, StatusReady, StatusFailed:
		return true
	}
	return false
}
