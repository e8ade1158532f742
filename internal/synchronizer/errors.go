package synchronizer

import "errors"

var (
	ErrNotSignedIn      = errors.New("sign in to reserve seats")
	ErrEmptySelection   = errors.New("please select at least one seat")
	ErrUnknownSeat      = errors.New("seat not found for this show")
	ErrInvalidState     = errors.New("operation not allowed in current state")
	ErrSubmitInProgress = errors.New("reservation already in progress")
	ErrSubmitFailed     = errors.New("failed to create reservation")
	ErrLoadFailed       = errors.New("failed to load show")
	ErrClosed           = errors.New("session closed")
	ErrSessionNotFound  = errors.New("session not found")
)
