package live

import "errors"

var (
	// ErrNotConnected is returned by Publish while the channel has no
	// live connection.  Callers treat it as a degraded mode, not a
	// failure of their own operation.
	ErrNotConnected = errors.New("live: not connected")

	// ErrGaveUp is returned by Run when the backoff policy caps the
	// number of consecutive failed connection attempts.
	ErrGaveUp = errors.New("live: reconnect attempts exhausted")

	// ErrAlreadyRunning is returned by Run when another Run call is
	// still driving the channel.
	ErrAlreadyRunning = errors.New("live: channel already running")

	// ErrConnClosed is reported by connections that were closed locally.
	ErrConnClosed = errors.New("live: connection closed")
)
