package api

import (
	"context"

	"github.com/iliyamo/theater-client/internal/model"
)

// GetSeatsForShow returns the full seat grid of a show, available or not.
func (c *Client) GetSeatsForShow(ctx context.Context, showID uint64) ([]model.Seat, error) {
	var out []model.Seat
	if err := c.getJSON(ctx, "/seats/show/"+pathID(showID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAvailableSeats returns only the seats still free for a show.
func (c *Client) GetAvailableSeats(ctx context.Context, showID uint64) ([]model.Seat, error) {
	var out []model.Seat
	if err := c.getJSON(ctx, "/seats/show/"+pathID(showID)+"/available", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
