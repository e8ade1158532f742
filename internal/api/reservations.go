package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/iliyamo/theater-client/internal/model"
)

// CreateReservation books seats.  The backend is authoritative: any
// error it returns (seat taken, show gone) is surfaced as an *APIError.
func (c *Client) CreateReservation(ctx context.Context, req model.ReservationRequest) (*model.Reservation, error) {
	var out model.Reservation
	if err := c.sendJSON(ctx, http.MethodPost, "/reservations", nil, req, &out); err != nil {
		return nil, err
	}
	if out.ReservationCode == "" {
		return nil, fmt.Errorf("api: reservation created without a code")
	}
	return &out, nil
}

// GetReservationByCode looks up a booking for the confirmation screen.
func (c *Client) GetReservationByCode(ctx context.Context, code string) (*model.Reservation, error) {
	var out model.Reservation
	if err := c.getJSON(ctx, "/reservations/code/"+url.PathEscape(code), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUserReservations lists a user's bookings.
func (c *Client) GetUserReservations(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	var out []model.Reservation
	if err := c.getJSON(ctx, "/reservations/user/"+pathID(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CancelReservation cancels a booking by code.
func (c *Client) CancelReservation(ctx context.Context, code string) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/reservations/cancel/"+url.PathEscape(code), nil, nil)
	return err
}

// DownloadInvoice returns the invoice document of a booking as raw bytes.
func (c *Client) DownloadInvoice(ctx context.Context, code string) ([]byte, error) {
	return c.doRequest(ctx, http.MethodGet, "/reservations/invoice/"+url.PathEscape(code), nil, nil)
}
