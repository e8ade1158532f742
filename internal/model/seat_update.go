package model

// SeatUpdate is an availability notification exchanged on the live
// channel.  It has no identity of its own: it is a transient command to
// overwrite one seat's availability flag.  Notifications carry no
// sequence number, so receivers apply them last-write-wins.
type SeatUpdate struct {
	SeatID    uint64 `json:"seatId"`
	Available bool   `json:"available"`
}
