package live

import "strconv"

// Topics names the per-show addresses on the broker: the topic seat
// updates are received on and the command address updates are
// published to.
type Topics struct {
	SeatPrefix    string
	CommandPrefix string
}

// DefaultTopics returns the addresses the backend relays between.
func DefaultTopics() Topics {
	return Topics{
		SeatPrefix:    "topic.seats.",
		CommandPrefix: "app.seat-update.",
	}
}

// Seats is the inbound availability topic of a show.
func (t Topics) Seats(showID uint64) string {
	return t.SeatPrefix + strconv.FormatUint(showID, 10)
}

// SeatCommand is the outbound address for a show's availability changes.
func (t Topics) SeatCommand(showID uint64) string {
	return t.CommandPrefix + strconv.FormatUint(showID, 10)
}
