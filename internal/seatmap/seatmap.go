// Package seatmap holds the client-side state of one show's seat grid:
// the cached seats with their availability flags and the user's
// in-progress selection.  Neither type is safe for concurrent use; the
// owning session serializes access.
package seatmap

import (
	"sort"

	"github.com/iliyamo/theater-client/internal/model"
)

// Row groups the seats of one row for rendering.
type Row struct {
	Number int          `json:"row"`
	Seats  []model.Seat `json:"seats"`
}

// SeatMap caches a show's seats in backend order with an index by id.
type SeatMap struct {
	seats []model.Seat
	index map[uint64]int
}

// New copies seats into a fresh SeatMap.  When the backend repeats an
// id, the later entry wins the index.
func New(seats []model.Seat) *SeatMap {
	m := &SeatMap{
		seats: make([]model.Seat, len(seats)),
		index: make(map[uint64]int, len(seats)),
	}
	copy(m.seats, seats)
	for i, s := range m.seats {
		m.index[s.ID] = i
	}
	return m
}

// Len returns the number of cached seats.
func (m *SeatMap) Len() int { return len(m.seats) }

// Lookup returns the cached seat with the given id.
func (m *SeatMap) Lookup(id uint64) (model.Seat, bool) {
	i, ok := m.index[id]
	if !ok {
		return model.Seat{}, false
	}
	return m.seats[i], true
}

// SetAvailable overwrites the availability flag of seat id and reports
// whether the seat is known.  Unknown ids are left alone.
func (m *SeatMap) SetAvailable(id uint64, available bool) bool {
	i, ok := m.index[id]
	if !ok {
		return false
	}
	m.seats[i].Available = available
	return true
}

// Available counts the seats currently flagged available.
func (m *SeatMap) Available() int {
	n := 0
	for _, s := range m.seats {
		if s.Available {
			n++
		}
	}
	return n
}

// Rows groups the seats by row number, rows ascending and seats within
// a row ascending by seat number.
func (m *SeatMap) Rows() []Row {
	byRow := make(map[int][]model.Seat)
	for _, s := range m.seats {
		byRow[s.RowNumber] = append(byRow[s.RowNumber], s)
	}
	rows := make([]Row, 0, len(byRow))
	for n, seats := range byRow {
		sort.Slice(seats, func(i, j int) bool { return seats[i].SeatNumber < seats[j].SeatNumber })
		rows = append(rows, Row{Number: n, Seats: seats})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Number < rows[j].Number })
	return rows
}
