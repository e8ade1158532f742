package handler

import (
	"context"

	"github.com/iliyamo/theater-client/internal/model"
)

// Backend is the REST surface the view server forwards to.  It is
// satisfied by *api.Client.
type Backend interface {
	ListShows(ctx context.Context) ([]model.Show, error)
	GetShow(ctx context.Context, showID uint64) (*model.Show, error)
	UpcomingShows(ctx context.Context) ([]model.Show, error)
	ShowsByGenre(ctx context.Context, genre model.Genre) ([]model.Show, error)
	SearchShows(ctx context.Context, title string) ([]model.Show, error)
	GetSeatsForShow(ctx context.Context, showID uint64) ([]model.Seat, error)
	GetAvailableSeats(ctx context.Context, showID uint64) ([]model.Seat, error)

	GetReservationByCode(ctx context.Context, code string) (*model.Reservation, error)
	GetUserReservations(ctx context.Context, userID uint64) ([]model.Reservation, error)
	CancelReservation(ctx context.Context, code string) error
	DownloadInvoice(ctx context.Context, code string) ([]byte, error)

	Login(ctx context.Context, creds model.Credentials) (*model.User, error)
	Register(ctx context.Context, reg model.Registration) (*model.User, error)
	GetUser(ctx context.Context, userID uint64) (*model.User, error)
	UpdateUser(ctx context.Context, userID uint64, upd model.ProfileUpdate) (*model.User, error)
}

// Identity is the signed-in user store.
type Identity interface {
	Current() (model.User, bool)
	Set(user model.User, token string)
	Clear()
}
