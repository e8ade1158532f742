package synchronizer

// State is where a Session is in its lifecycle:
//
//	uninitialized → loading → ready → submitting → confirmed
//	                   ↓                  ↓
//	                 error          submit-failed → ready
//
// Closed is entered from any state on teardown.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateSubmitting
	StateConfirmed
	StateSubmitFailed
	StateError
	StateClosed
)

var stateNames = [...]string{
	StateUninitialized: "uninitialized",
	StateLoading:       "loading",
	StateReady:         "ready",
	StateSubmitting:    "submitting",
	StateConfirmed:     "confirmed",
	StateSubmitFailed:  "submit-failed",
	StateError:         "error",
	StateClosed:        "closed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
