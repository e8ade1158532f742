package model

// ReservationRequest is the body of POST /reservations.  SeatIDs keeps
// the order in which the user selected the seats.
type ReservationRequest struct {
	UserID  uint64   `json:"userId"`
	ShowID  uint64   `json:"showId"`
	SeatIDs []uint64 `json:"seatIds"`
}

// Reservation is the backend's record of a confirmed booking.  The
// client treats it as opaque and authoritative: ReservationCode keys the
// confirmation screen and every later lookup.
//
// Fields:
//  ID              – backend identifier.
//  ReservationCode – opaque booking code issued by the backend.
//  Status          – backend status string, displayed as-is.
//  Show            – the reserved show, when expanded by the backend.
//  User            – the owner, when expanded by the backend.
//  Seats           – reserved seats.
//  TotalPrice      – amount charged.
//  ReservationDate – when the booking was made.
type Reservation struct {
	ID              uint64   `json:"id,omitempty"`
	ReservationCode string   `json:"reservationCode"`
	Status          string   `json:"status,omitempty"`
	Show            *Show    `json:"show,omitempty"`
	User            *User    `json:"user,omitempty"`
	Seats           []Seat   `json:"seats,omitempty"`
	TotalPrice      Money    `json:"totalPrice"`
	ReservationDate DateTime `json:"reservationDate"`
}

// SeatLabels returns the display label of every reserved seat.
func (r Reservation) SeatLabels() []string {
	out := make([]string, 0, len(r.Seats))
	for _, s := range r.Seats {
		out = append(out, s.Label())
	}
	return out
}
