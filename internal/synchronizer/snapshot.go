package synchronizer

import (
	"github.com/iliyamo/theater-client/internal/model"
	"github.com/iliyamo/theater-client/internal/seatmap"
)

// Snapshot is a point-in-time copy of a session for rendering.
type Snapshot struct {
	ShowID          uint64        `json:"show_id"`
	State           State         `json:"state"`
	Show            *model.Show   `json:"show,omitempty"`
	Rows            []seatmap.Row `json:"rows,omitempty"`
	AvailableSeats  int           `json:"available_seats"`
	Selected        []uint64      `json:"selected"`
	Total           model.Money   `json:"total"`
	Error           string        `json:"error,omitempty"`
	ReservationCode string        `json:"reservation_code,omitempty"`
}

// Snapshot copies the session's current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ShowID:   s.showID,
		State:    s.state,
		Selected: s.selection.IDs(),
		Total:    s.totalLocked(),
	}
	if s.show != nil {
		show := *s.show
		snap.Show = &show
	}
	if s.seats != nil {
		snap.Rows = s.seats.Rows()
		snap.AvailableSeats = s.seats.Available()
	}
	if s.lastErr != nil {
		snap.Error = s.lastErr.Error()
	}
	if s.reservation != nil {
		snap.ReservationCode = s.reservation.ReservationCode
	}
	return snap
}
