package client

// State is the lifecycle stage of one connection attempt.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateFailed
	StateWriting
	StateAwaitingResponse
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateFailed:
		return "failed"
	case StateWriting:
		return "writing"
	case StateAwaitingResponse:
		return "awaiting_response"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// StateObserver receives attempt transitions.
type StateObserver func(attemptID string, from, to State)
