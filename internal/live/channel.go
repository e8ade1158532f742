package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/gommon/log"
)

// remoteOpTimeout bounds broker subscribe/unsubscribe calls issued in
// the background on behalf of Subscribe and Release.
const remoteOpTimeout = 10 * time.Second

var errConnectionLost = errors.New("connection lost")

// Handler receives the raw body of a message on a subscribed topic.
// Handlers run on the channel's receive goroutine and must not block.
type Handler func(body []byte)

// Options configures a Channel.  Transport is required; Clock defaults
// to the real clock and Logger to a "live" gommon logger.
type Options struct {
	Transport Transport
	Clock     clockwork.Clock
	Backoff   Backoff
	Logger    *log.Logger
}

// Channel is the process-wide live connection.  Construct it once,
// drive it with Run, and pass it by reference to every view that
// needs seat updates.
type Channel struct {
	transport Transport
	clock     clockwork.Clock
	backoff   Backoff
	logger    *log.Logger

	mu      sync.Mutex
	state   State
	conn    Conn
	running bool
	nextID  uint64
	topics  map[string]map[uint64]Handler

	// remoteMu serializes broker subscribe/unsubscribe calls and is
	// always taken before mu.  remote holds the topics subscribed on
	// remoteConn.
	remoteMu   sync.Mutex
	remoteConn Conn
	remote     map[string]bool
}

// NewChannel returns a disconnected channel.  No connection is made
// until Run is called.
func NewChannel(opts Options) *Channel {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New("live")
	}
	return &Channel{
		transport: opts.Transport,
		clock:     clock,
		backoff:   opts.Backoff,
		logger:    logger,
		topics:    make(map[string]map[uint64]Handler),
	}
}

// State returns the current position in the reconnection state machine.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connected reports whether the channel currently holds a connection.
func (c *Channel) Connected() bool { return c.State() == StateConnected }

// Subscribers returns the number of local subscriptions on topic.
func (c *Channel) Subscribers(topic string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.topics[topic])
}

// Topics returns every topic with at least one local subscription.
func (c *Channel) Topics() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.topicsLocked()
}

func (c *Channel) topicsLocked() []string {
	out := make([]string, 0, len(c.topics))
	for t := range c.topics {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (c *Channel) setState(s State) {
	c.mu.Lock()
	prev := c.state
	c.state = s
	c.mu.Unlock()
	if prev != s {
		c.logger.Debugf("live: %s -> %s", prev, s)
	}
}

// Run connects and keeps the channel connected until ctx is cancelled
// or the backoff policy gives up.  Connection failures are logged and
// retried after the backoff delay; they are never surfaced to views.
// Every subscribed topic is subscribed again after each reconnect.
func (c *Channel) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrAlreadyRunning
	}
	c.running = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	failures := 0
	for {
		c.setState(StateConnecting)
		conn, err := c.transport.Dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.setState(StateDisconnected)
				return ctx.Err()
			}
			failures++
			if c.backoff.Exhausted(failures) {
				c.setState(StateDisconnected)
				c.logger.Errorf("live: giving up after %d failed attempts: %v", failures, err)
				return fmt.Errorf("%w (%d attempts): %v", ErrGaveUp, failures, err)
			}
			c.logger.Warnf("live: connect failed: %v", err)
			if err := c.wait(ctx); err != nil {
				return err
			}
			continue
		}

		failures = 0
		c.attach(conn)
		err = c.pump(ctx, conn)
		c.detach(conn)
		if ctx.Err() != nil {
			c.setState(StateDisconnected)
			return ctx.Err()
		}
		c.setState(StateDisconnectedOnError)
		c.logger.Warnf("live: %v", err)
		if err := c.wait(ctx); err != nil {
			return err
		}
	}
}

// wait sleeps for one backoff delay on the channel's clock.
func (c *Channel) wait(ctx context.Context) error {
	delay := c.backoff.Next()
	c.setState(StateBackoffWait)
	c.logger.Infof("live: reconnecting in %s", delay)
	select {
	case <-ctx.Done():
		c.setState(StateDisconnected)
		return ctx.Err()
	case <-c.clock.After(delay):
		return nil
	}
}

func (c *Channel) attach(conn Conn) {
	c.remoteMu.Lock()
	defer c.remoteMu.Unlock()
	c.remoteConn = conn
	c.remote = make(map[string]bool)

	c.mu.Lock()
	c.conn = conn
	c.state = StateConnected
	topics := c.topicsLocked()
	c.mu.Unlock()
	c.logger.Infof("live: connected, restoring %d topic(s)", len(topics))

	for _, topic := range topics {
		ctx, cancel := context.WithTimeout(context.Background(), remoteOpTimeout)
		if err := conn.Subscribe(ctx, topic); err != nil {
			c.logger.Warnf("live: subscribe %s: %v", topic, err)
		} else {
			c.remote[topic] = true
		}
		cancel()
	}
}

func (c *Channel) detach(conn Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
	_ = conn.Close()
}

func (c *Channel) pump(ctx context.Context, conn Conn) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-conn.Done():
			return errConnectionLost
		case msg, ok := <-conn.Messages():
			if !ok {
				return errConnectionLost
			}
			c.dispatch(msg)
		}
	}
}

func (c *Channel) dispatch(msg Message) {
	c.mu.Lock()
	subs := c.topics[msg.Topic]
	handlers := make([]Handler, 0, len(subs))
	for _, h := range subs {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()

	for _, h := range handlers {
		h(msg.Body)
	}
}

// Subscribe registers h for topic and returns immediately.  The broker
// subscription for the first local subscriber is issued in the
// background; until it completes, and while the channel is
// disconnected, no messages arrive.  The returned Subscription must be
// released when the view is torn down.
func (c *Channel) Subscribe(topic string, h Handler) *Subscription {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	subs, ok := c.topics[topic]
	if !ok {
		subs = make(map[uint64]Handler)
		c.topics[topic] = subs
	}
	subs[id] = h
	conn := c.conn
	c.mu.Unlock()

	if !ok && conn != nil {
		go c.reconcile(conn, topic)
	}
	return &Subscription{channel: c, topic: topic, id: id}
}

func (c *Channel) release(topic string, id uint64) {
	c.mu.Lock()
	subs, ok := c.topics[topic]
	if !ok {
		c.mu.Unlock()
		return
	}
	delete(subs, id)
	last := len(subs) == 0
	if last {
		delete(c.topics, topic)
	}
	conn := c.conn
	c.mu.Unlock()

	if last && conn != nil {
		go c.reconcile(conn, topic)
	}
}

// reconcile brings the broker subscription for topic on conn in line
// with the local subscriber count.  The count is read again after every
// broker call, so a release and a resubscribe racing each other always
// settle on the latest local state.
func (c *Channel) reconcile(conn Conn, topic string) {
	c.remoteMu.Lock()
	defer c.remoteMu.Unlock()
	if c.remoteConn != conn {
		return
	}
	for {
		c.mu.Lock()
		_, want := c.topics[topic]
		current := c.conn == conn
		c.mu.Unlock()
		if !current || want == c.remote[topic] {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), remoteOpTimeout)
		var err error
		if want {
			err = conn.Subscribe(ctx, topic)
		} else {
			err = conn.Unsubscribe(ctx, topic)
		}
		cancel()
		if err != nil {
			c.logger.Warnf("live: sync %s (subscribe=%t): %v", topic, want, err)
			return
		}
		if want {
			c.remote[topic] = true
		} else {
			delete(c.remote, topic)
		}
	}
}

// Publish sends body to topic on the current connection.  It returns
// ErrNotConnected while the channel is reconnecting.
func (c *Channel) Publish(ctx context.Context, topic string, body []byte) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	if err := conn.Publish(ctx, topic, body); err != nil {
		return fmt.Errorf("live: publish %s: %w", topic, err)
	}
	return nil
}

// PublishJSON marshals v and publishes it to topic.
func (c *Channel) PublishJSON(ctx context.Context, topic string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("live: marshal: %w", err)
	}
	return c.Publish(ctx, topic, body)
}

// Subscription is one view's registration on a topic.
type Subscription struct {
	channel *Channel
	topic   string
	id      uint64
	once    sync.Once
}

// Topic returns the subscribed topic.
func (s *Subscription) Topic() string { return s.topic }

// Release drops this registration.  The broker subscription is removed
// only when the last registration on the topic is released.  Release is
// idempotent.
func (s *Subscription) Release() {
	s.once.Do(func() { s.channel.release(s.topic, s.id) })
}
