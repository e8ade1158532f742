package live

// State is a position in the channel's reconnection state machine:
//
//	disconnected → connecting → connected → disconnected-on-error → backoff-wait → connecting
//
// A failed dial goes from connecting straight to backoff-wait.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateDisconnectedOnError
	StateBackoffWait
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnectedOnError:
		return "disconnected-on-error"
	case StateBackoffWait:
		return "backoff-wait"
	}
	return "unknown"
}

// MarshalText lets states render as strings in JSON responses.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
