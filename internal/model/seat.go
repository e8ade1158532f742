package model

import (
	"encoding/json"
	"fmt"
)

// Seat is one addressable (row, number) position of a show's seat map.
// The client holds a read-mostly copy per show; Available is the only
// field that is ever changed locally, and only by merging availability
// notifications.
//
// Fields:
//  ID         – backend identifier.
//  ShowID     – show the seat belongs to.
//  RowNumber  – 1-based row.
//  SeatNumber – 1-based position within the row.
//  Available  – whether the seat can still be reserved.
type Seat struct {
	ID         uint64 `json:"id"`
	ShowID     uint64 `json:"showId,omitempty"`
	RowNumber  int    `json:"rowNumber"`
	SeatNumber int    `json:"seatNumber"`
	Available  bool   `json:"available"`
}

// Label is the human readable position used in summaries.
func (s Seat) Label() string {
	return fmt.Sprintf("Row %d, Seat %d", s.RowNumber, s.SeatNumber)
}

// UnmarshalJSON accepts both a flat showId and the nested
// {"show": {"id": ...}} form the backend uses on seat listings.
func (s *Seat) UnmarshalJSON(b []byte) error {
	type plain Seat
	var raw struct {
		plain
		Show *struct {
			ID uint64 `json:"id"`
		} `json:"show"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = Seat(raw.plain)
	if s.ShowID == 0 && raw.Show != nil {
		s.ShowID = raw.Show.ID
	}
	return nil
}
