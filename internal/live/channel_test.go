package live

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func quietLogger() *log.Logger {
	l := log.New("live-test")
	l.SetLevel(log.OFF)
	return l
}

type harness struct {
	broker  *MemoryBroker
	clock   *clockwork.FakeClock
	channel *Channel
	errc    chan error
	cancel  context.CancelFunc
}

func newHarness(t *testing.T, b Backoff) *harness {
	t.Helper()
	h := &harness{
		broker: NewMemoryBroker(),
		clock:  clockwork.NewFakeClock(),
		errc:   make(chan error, 1),
	}
	h.channel = NewChannel(Options{
		Transport: h.broker,
		Clock:     h.clock,
		Backoff:   b,
		Logger:    quietLogger(),
	})
	t.Cleanup(func() {
		if h.cancel != nil {
			h.cancel()
		}
	})
	return h
}

func (h *harness) run() {
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.errc <- h.channel.Run(ctx) }()
}

// advance waits for the channel to sleep on the clock and wakes it.
func (h *harness) advance(t *testing.T, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, h.clock.BlockUntilContext(ctx, 1))
	h.clock.Advance(d)
}

func (h *harness) connected(t *testing.T) {
	t.Helper()
	require.Eventually(t, h.channel.Connected, waitFor, tick)
}

func collect(n int) (Handler, chan []byte) {
	ch := make(chan []byte, n)
	return func(body []byte) { ch <- body }, ch
}

func TestChannelReconnectsAfterFixedDelay(t *testing.T) {
	h := newHarness(t, Backoff{Delay: 5 * time.Second})
	h.broker.FailNextDials(2)
	h.run()

	h.advance(t, 5*time.Second)
	assert.Equal(t, StateBackoffWait, eventuallyState(t, h.channel, StateBackoffWait))
	h.advance(t, 5*time.Second)

	h.connected(t)
	assert.Equal(t, 3, h.broker.Dials())
}

func TestChannelWaitsFullDelay(t *testing.T) {
	h := newHarness(t, Backoff{Delay: 5 * time.Second})
	h.broker.FailNextDials(1)
	h.run()

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, h.clock.BlockUntilContext(ctx, 1))
	h.clock.Advance(4 * time.Second)
	assert.Equal(t, StateBackoffWait, h.channel.State())
	assert.Equal(t, 1, h.broker.Dials())

	h.clock.Advance(time.Second)
	h.connected(t)
}

func TestChannelGivesUpAfterMaxAttempts(t *testing.T) {
	h := newHarness(t, Backoff{Delay: time.Second, MaxAttempts: 2})
	h.broker.FailNextDials(10)
	h.run()

	h.advance(t, time.Second)

	select {
	case err := <-h.errc:
		assert.True(t, errors.Is(err, ErrGaveUp), "got %v", err)
	case <-time.After(waitFor):
		t.Fatal("Run did not return")
	}
	assert.Equal(t, StateDisconnected, h.channel.State())
	assert.Equal(t, 2, h.broker.Dials())
}

func TestChannelRunTwice(t *testing.T) {
	h := newHarness(t, Backoff{})
	h.run()
	h.connected(t)
	assert.ErrorIs(t, h.channel.Run(context.Background()), ErrAlreadyRunning)
}

func TestChannelStopsOnCancel(t *testing.T) {
	h := newHarness(t, Backoff{})
	h.run()
	h.connected(t)
	h.cancel()

	select {
	case err := <-h.errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(waitFor):
		t.Fatal("Run did not return")
	}
	assert.Equal(t, StateDisconnected, h.channel.State())
}

func TestSubscriptionsAreCountedPerTopic(t *testing.T) {
	h := newHarness(t, Backoff{})
	h.run()
	h.connected(t)

	topic := DefaultTopics().Seats(7)
	ha, gotA := collect(4)
	hb, gotB := collect(4)
	a := h.channel.Subscribe(topic, ha)
	b := h.channel.Subscribe(topic, hb)
	assert.Equal(t, 2, h.channel.Subscribers(topic))
	require.Eventually(t, func() bool { return h.broker.Subscribers(topic) == 1 }, waitFor, tick)

	a.Release()
	a.Release()
	assert.Equal(t, 1, h.channel.Subscribers(topic))

	h.broker.Publish(topic, []byte(`{"seatId":1,"available":false}`))
	select {
	case body := <-gotB:
		assert.JSONEq(t, `{"seatId":1,"available":false}`, string(body))
	case <-time.After(waitFor):
		t.Fatal("remaining subscriber got nothing")
	}
	assert.Empty(t, gotA)
	assert.Equal(t, 1, h.broker.Subscribers(topic))

	b.Release()
	assert.Empty(t, h.channel.Topics())
	require.Eventually(t, func() bool { return h.broker.Subscribers(topic) == 0 }, waitFor, tick)
}

func TestSubscribeBeforeConnect(t *testing.T) {
	h := newHarness(t, Backoff{})
	topic := DefaultTopics().Seats(1)
	fn, got := collect(1)
	sub := h.channel.Subscribe(topic, fn)
	defer sub.Release()

	h.run()
	h.connected(t)
	require.Eventually(t, func() bool { return h.broker.Subscribers(topic) == 1 }, waitFor, tick)

	h.broker.Publish(topic, []byte(`{}`))
	select {
	case <-got:
	case <-time.After(waitFor):
		t.Fatal("no delivery")
	}
}

func TestChannelResubscribesAfterReconnect(t *testing.T) {
	h := newHarness(t, Backoff{Delay: 5 * time.Second})
	h.run()
	h.connected(t)

	topic := DefaultTopics().Seats(3)
	fn, got := collect(1)
	sub := h.channel.Subscribe(topic, fn)
	defer sub.Release()
	require.Eventually(t, func() bool { return h.broker.Subscribers(topic) == 1 }, waitFor, tick)

	h.broker.DropConnections()
	assert.Equal(t, 0, h.broker.Subscribers(topic))
	h.advance(t, 5*time.Second)
	h.connected(t)
	require.Eventually(t, func() bool { return h.broker.Subscribers(topic) == 1 }, waitFor, tick)
	assert.Equal(t, 2, h.broker.Dials())

	h.broker.Publish(topic, []byte(`{"seatId":9,"available":true}`))
	select {
	case <-got:
	case <-time.After(waitFor):
		t.Fatal("no delivery after reconnect")
	}
}

func TestPublishWhileDisconnected(t *testing.T) {
	h := newHarness(t, Backoff{})
	err := h.channel.Publish(context.Background(), "x", []byte("{}"))
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestPublishIsRelayedToSeatTopic(t *testing.T) {
	topics := DefaultTopics()
	h := newHarness(t, Backoff{})
	h.broker.Relay = RelayCommands(topics)
	h.run()
	h.connected(t)

	fn, got := collect(1)
	sub := h.channel.Subscribe(topics.Seats(5), fn)
	defer sub.Release()
	require.Eventually(t, func() bool { return h.broker.Subscribers(topics.Seats(5)) == 1 }, waitFor, tick)

	require.NoError(t, h.channel.PublishJSON(context.Background(), topics.SeatCommand(5), map[string]any{"seatId": 2, "available": false}))
	assert.Len(t, h.broker.Published(topics.SeatCommand(5)), 1)
	select {
	case body := <-got:
		assert.JSONEq(t, `{"seatId":2,"available":false}`, string(body))
	case <-time.After(waitFor):
		t.Fatal("relay did not deliver")
	}
}

// gatedTransport hands out broker connections whose Unsubscribe blocks
// until the gate is opened.
type gatedTransport struct {
	broker  *MemoryBroker
	gate    chan struct{}
	pending chan string
	done    chan string
}

func (t *gatedTransport) Dial(ctx context.Context) (Conn, error) {
	conn, err := t.broker.Dial(ctx)
	if err != nil {
		return nil, err
	}
	return &gatedConn{Conn: conn, t: t}, nil
}

type gatedConn struct {
	Conn
	t *gatedTransport
}

func (c *gatedConn) Unsubscribe(ctx context.Context, topic string) error {
	c.t.pending <- topic
	<-c.t.gate
	err := c.Conn.Unsubscribe(ctx, topic)
	c.t.done <- topic
	return err
}

func TestResubscribeDuringSlowUnsubscribe(t *testing.T) {
	broker := NewMemoryBroker()
	transport := &gatedTransport{
		broker:  broker,
		gate:    make(chan struct{}),
		pending: make(chan string, 1),
		done:    make(chan string, 1),
	}
	channel := NewChannel(Options{
		Transport: transport,
		Clock:     clockwork.NewFakeClock(),
		Logger:    quietLogger(),
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = channel.Run(ctx) }()
	require.Eventually(t, channel.Connected, waitFor, tick)

	topic := DefaultTopics().Seats(4)
	first := channel.Subscribe(topic, func([]byte) {})
	require.Eventually(t, func() bool { return broker.Subscribers(topic) == 1 }, waitFor, tick)

	first.Release()
	select {
	case got := <-transport.pending:
		assert.Equal(t, topic, got)
	case <-time.After(waitFor):
		t.Fatal("unsubscribe never reached the broker")
	}

	fn, got := collect(1)
	second := channel.Subscribe(topic, fn)
	defer second.Release()
	close(transport.gate)
	select {
	case <-transport.done:
	case <-time.After(waitFor):
		t.Fatal("unsubscribe did not complete")
	}

	require.Eventually(t, func() bool { return broker.Subscribers(topic) == 1 }, waitFor, tick)
	assert.Equal(t, 1, channel.Subscribers(topic))

	broker.Publish(topic, []byte(`{"seatId":3,"available":false}`))
	select {
	case body := <-got:
		assert.JSONEq(t, `{"seatId":3,"available":false}`, string(body))
	case <-time.After(waitFor):
		t.Fatal("resubscribed view got no update")
	}
}

func eventuallyState(t *testing.T, c *Channel, want State) State {
	t.Helper()
	require.Eventually(t, func() bool { return c.State() == want }, waitFor, tick)
	return c.State()
}
