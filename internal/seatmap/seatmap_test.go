package seatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/theater-client/internal/model"
)

func grid() []model.Seat {
	return []model.Seat{
		{ID: 4, ShowID: 1, RowNumber: 2, SeatNumber: 2, Available: true},
		{ID: 1, ShowID: 1, RowNumber: 1, SeatNumber: 1, Available: true},
		{ID: 3, ShowID: 1, RowNumber: 2, SeatNumber: 1, Available: false},
		{ID: 2, ShowID: 1, RowNumber: 1, SeatNumber: 2, Available: true},
	}
}

func TestSeatMapLookupAndSet(t *testing.T) {
	m := New(grid())
	require.Equal(t, 4, m.Len())
	assert.Equal(t, 3, m.Available())

	s, ok := m.Lookup(3)
	require.True(t, ok)
	assert.False(t, s.Available)

	assert.True(t, m.SetAvailable(3, true))
	s, _ = m.Lookup(3)
	assert.True(t, s.Available)

	assert.False(t, m.SetAvailable(99, false), "unknown seat")
	_, ok = m.Lookup(99)
	assert.False(t, ok)
}

func TestSeatMapCopiesInput(t *testing.T) {
	in := grid()
	m := New(in)
	in[0].Available = false
	s, _ := m.Lookup(4)
	assert.True(t, s.Available)

	rows := m.Rows()
	rows[1].Seats[1].Available = false
	s, _ = m.Lookup(4)
	assert.True(t, s.Available)
}

func TestSeatMapRows(t *testing.T) {
	rows := New(grid()).Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Number)
	assert.Equal(t, []uint64{1, 2}, ids(rows[0].Seats))
	assert.Equal(t, 2, rows[1].Number)
	assert.Equal(t, []uint64{3, 4}, ids(rows[1].Seats))
}

func TestSelectionToggleIsItsOwnInverse(t *testing.T) {
	s := NewSelection()
	s.Toggle(1)
	s.Toggle(2)
	before := s.IDs()

	assert.True(t, s.Toggle(3))
	assert.False(t, s.Toggle(3))
	assert.Equal(t, before, s.IDs())

	assert.False(t, s.Toggle(1))
	assert.True(t, s.Toggle(1))
	assert.ElementsMatch(t, before, s.IDs())
}

func TestSelectionKeepsInsertionOrder(t *testing.T) {
	s := NewSelection()
	for _, id := range []uint64{5, 2, 9} {
		s.Toggle(id)
	}
	assert.True(t, s.Remove(2))
	assert.False(t, s.Remove(2))
	assert.Equal(t, []uint64{5, 9}, s.IDs())
	assert.True(t, s.Contains(9))
	assert.False(t, s.Contains(2))

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.IDs())
}

func ids(seats []model.Seat) []uint64 {
	out := make([]uint64, 0, len(seats))
	for _, s := range seats {
		out = append(out, s.ID)
	}
	return out
}
