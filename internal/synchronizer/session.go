// Package synchronizer keeps one show's seat map consistent with the
// live channel while the user builds and submits a selection.
package synchronizer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/theater-client/internal/live"
	"github.com/iliyamo/theater-client/internal/model"
	"github.com/iliyamo/theater-client/internal/seatmap"
)

// publishTimeout bounds the outbound notifications sent after a
// successful reservation.
const publishTimeout = 5 * time.Second

// Backend is the part of the REST client a session needs.
type Backend interface {
	GetShow(ctx context.Context, showID uint64) (*model.Show, error)
	GetSeatsForShow(ctx context.Context, showID uint64) ([]model.Seat, error)
	CreateReservation(ctx context.Context, req model.ReservationRequest) (*model.Reservation, error)
}

// Channel is the live connection sessions subscribe and publish through.
type Channel interface {
	Subscribe(topic string, h live.Handler) *live.Subscription
	PublishJSON(ctx context.Context, topic string, v any) error
}

// Identity reports the signed-in user.
type Identity interface {
	Current() (model.User, bool)
}

// Config wires a session to its collaborators.  Backend, Channel and
// Identity are required.
type Config struct {
	Backend  Backend
	Channel  Channel
	Identity Identity
	Topics   live.Topics
	Logger   *log.Logger
}

// Session is one user's visit to a show's seat-selection view.  All
// methods are safe for concurrent use; inbound notifications are merged
// from the channel's goroutine.
type Session struct {
	showID   uint64
	backend  Backend
	channel  Channel
	identity Identity
	topics   live.Topics
	logger   *log.Logger

	mu          sync.Mutex
	state       State
	show        *model.Show
	seats       *seatmap.SeatMap
	selection   *seatmap.Selection
	sub         *live.Subscription
	cancel      context.CancelFunc
	lastErr     error
	reservation *model.Reservation
}

// New returns an uninitialized session for showID.
func New(cfg Config, showID uint64) *Session {
	topics := cfg.Topics
	if topics == (live.Topics{}) {
		topics = live.DefaultTopics()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New("synchronizer")
	}
	return &Session{
		showID:    showID,
		backend:   cfg.Backend,
		channel:   cfg.Channel,
		identity:  cfg.Identity,
		topics:    topics,
		logger:    logger,
		selection: seatmap.NewSelection(),
	}
}

// ShowID returns the show this session is bound to.
func (s *Session) ShowID() uint64 { return s.showID }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Open loads the show and its seats and subscribes to the show's seat
// topic.  It refuses with ErrNotSignedIn, leaving the session
// untouched, when nobody is signed in.  The two fetches run
// concurrently; when either fails the other is cancelled, the session
// enters StateError and no subscription is made.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateUninitialized:
	case StateClosed:
		s.mu.Unlock()
		return ErrClosed
	default:
		s.mu.Unlock()
		return ErrInvalidState
	}
	if _, ok := s.identity.Current(); !ok {
		s.mu.Unlock()
		return ErrNotSignedIn
	}
	loadCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = StateLoading
	s.mu.Unlock()
	defer cancel()

	var (
		show  *model.Show
		seats []model.Seat
	)
	g, gctx := errgroup.WithContext(loadCtx)
	g.Go(func() error {
		var err error
		show, err = s.backend.GetShow(gctx, s.showID)
		if err != nil {
			return fmt.Errorf("show %d: %w", s.showID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		seats, err = s.backend.GetSeatsForShow(gctx, s.showID)
		if err != nil {
			return fmt.Errorf("seats of show %d: %w", s.showID, err)
		}
		return nil
	})
	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return ErrClosed
	}
	if err != nil {
		s.state = StateError
		s.lastErr = err
		s.logger.Warnf("synchronizer: load show %d: %v", s.showID, err)
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	s.show = show
	s.seats = seatmap.New(seats)
	s.state = StateReady
	s.sub = s.channel.Subscribe(s.topics.Seats(s.showID), s.handleUpdate)
	return nil
}

func (s *Session) handleUpdate(body []byte) {
	var u model.SeatUpdate
	if err := json.Unmarshal(body, &u); err != nil {
		s.logger.Debugf("synchronizer: show %d: ignoring malformed update: %v", s.showID, err)
		return
	}
	s.Merge(u)
}

// Toggle flips seatID's membership in the selection and reports whether
// it is now selected.  Unavailable seats are left alone.  Toggling
// after a failed submit returns the session to ready.
func (s *Session) Toggle(seatID uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateReady, StateSubmitFailed:
	case StateClosed:
		return false, ErrClosed
	default:
		return false, ErrInvalidState
	}
	seat, ok := s.seats.Lookup(seatID)
	if !ok {
		return false, ErrUnknownSeat
	}
	if s.state == StateSubmitFailed {
		s.state = StateReady
		s.lastErr = nil
	}
	if !seat.Available {
		return s.selection.Contains(seatID), nil
	}
	return s.selection.Toggle(seatID), nil
}

// Merge applies an availability notification.  The last applied flag
// wins; notifications carry no ordering, so two near-simultaneous flips
// of one seat settle on whichever arrived last.  A seat that becomes
// unavailable is dropped from the selection.  Unknown seats are
// ignored.  Merge reports whether the notification matched a seat.
func (s *Session) Merge(u model.SeatUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seats == nil {
		return false
	}
	if !s.seats.SetAvailable(u.SeatID, u.Available) {
		return false
	}
	if !u.Available {
		s.selection.Remove(u.SeatID)
	}
	return true
}

// Submit reserves the selected seats in selection order.  On success
// every reserved seat is announced unavailable on the show's command
// address, the selection is cleared and the session is confirmed.  On
// failure the selection is kept and the backend's message is wrapped in
// ErrSubmitFailed.
func (s *Session) Submit(ctx context.Context) (*model.Reservation, error) {
	s.mu.Lock()
	switch s.state {
	case StateReady, StateSubmitFailed:
	case StateSubmitting:
		s.mu.Unlock()
		return nil, ErrSubmitInProgress
	case StateClosed:
		s.mu.Unlock()
		return nil, ErrClosed
	default:
		s.mu.Unlock()
		return nil, ErrInvalidState
	}
	if s.selection.Len() == 0 {
		s.mu.Unlock()
		return nil, ErrEmptySelection
	}
	user, ok := s.identity.Current()
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotSignedIn
	}
	req := model.ReservationRequest{UserID: user.ID, ShowID: s.showID, SeatIDs: s.selection.IDs()}
	s.state = StateSubmitting
	s.mu.Unlock()

	res, err := s.backend.CreateReservation(ctx, req)

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
		}
		return res, nil
	}
	if err != nil {
		s.state = StateSubmitFailed
		s.lastErr = err
		s.mu.Unlock()
		s.logger.Warnf("synchronizer: reserve %v for show %d: %v", req.SeatIDs, s.showID, err)
		return nil, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}
	for _, id := range req.SeatIDs {
		s.seats.SetAvailable(id, false)
	}
	s.selection.Clear()
	s.state = StateConfirmed
	s.lastErr = nil
	s.reservation = res
	s.mu.Unlock()

	s.announce(ctx, req.SeatIDs)
	return res, nil
}

// announce publishes one unavailable notification per seat.  Failures
// are logged; the backend remains the source of truth.
func (s *Session) announce(ctx context.Context, seatIDs []uint64) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	topic := s.topics.SeatCommand(s.showID)
	for _, id := range seatIDs {
		if err := s.channel.PublishJSON(ctx, topic, model.SeatUpdate{SeatID: id, Available: false}); err != nil {
			s.logger.Warnf("synchronizer: announce seat %d of show %d: %v", id, s.showID, err)
		}
	}
}

// Close tears the session down: the subscription is released, cached
// seats and selection are dropped, and in-flight fetches are cancelled.
// Results that arrive afterwards are discarded.  Close is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.state = StateClosed
	sub := s.sub
	cancel := s.cancel
	s.sub = nil
	s.cancel = nil
	s.show = nil
	s.seats = nil
	s.selection.Clear()
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if sub != nil {
		sub.Release()
	}
}

// Total is the show price times the number of selected seats.
func (s *Session) Total() model.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalLocked()
}

func (s *Session) totalLocked() model.Money {
	if s.show == nil {
		return 0
	}
	return s.show.Price.Times(s.selection.Len())
}

// Selected returns the selected seat ids in selection order.
func (s *Session) Selected() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.IDs()
}

// Reservation returns the confirmed reservation, if any.
func (s *Session) Reservation() (*model.Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reservation, s.reservation != nil
}
