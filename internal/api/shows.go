package api

import (
	"context"
	"net/url"

	"github.com/iliyamo/theater-client/internal/model"
)

// ListShows returns every show in the catalogue.
func (c *Client) ListShows(ctx context.Context) ([]model.Show, error) {
	var out []model.Show
	if err := c.getJSON(ctx, "/shows", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetShow returns a single show.
func (c *Client) GetShow(ctx context.Context, showID uint64) (*model.Show, error) {
	var out model.Show
	if err := c.getJSON(ctx, "/shows/"+pathID(showID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpcomingShows returns shows that have not started yet.
func (c *Client) UpcomingShows(ctx context.Context) ([]model.Show, error) {
	var out []model.Show
	if err := c.getJSON(ctx, "/shows/upcoming", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ShowsByGenre filters the catalogue by genre.
func (c *Client) ShowsByGenre(ctx context.Context, genre model.Genre) ([]model.Show, error) {
	var out []model.Show
	if err := c.getJSON(ctx, "/shows/genre/"+url.PathEscape(string(genre)), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchShows matches shows by title.
func (c *Client) SearchShows(ctx context.Context, title string) ([]model.Show, error) {
	var out []model.Show
	if err := c.getJSON(ctx, "/shows/search", url.Values{"title": {title}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
