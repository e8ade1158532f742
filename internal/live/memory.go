package live

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// memoryBuffer is the per-connection inbound queue.  Messages beyond it
// are dropped, as a lagging subscriber on a real broker would miss them.
const memoryBuffer = 64

// ErrBrokerUnavailable is returned by MemoryBroker dials that were set
// to fail.
var ErrBrokerUnavailable = errors.New("memory broker unavailable")

// MemoryBroker is an in-process Transport.  Every Channel dialing the
// same broker behaves like a separate client of one shared server,
// which makes it suitable for tests and for running the client without
// a broker.  Relay, when set, mirrors what the backend does with
// command messages: a publish to a topic it maps is also delivered on
// the mapped topic.
type MemoryBroker struct {
	Relay func(topic string) (string, bool)

	mu        sync.Mutex
	conns     map[*memoryConn]struct{}
	failDials int
	dials     int
	published map[string][][]byte
}

// NewMemoryBroker returns an empty broker.
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		conns:     make(map[*memoryConn]struct{}),
		published: make(map[string][][]byte),
	}
}

// RelayCommands returns a Relay that forwards a show's command address
// to its seat topic.
func RelayCommands(t Topics) func(string) (string, bool) {
	return func(topic string) (string, bool) {
		id, ok := strings.CutPrefix(topic, t.CommandPrefix)
		if !ok || id == "" {
			return "", false
		}
		return t.SeatPrefix + id, true
	}
}

// Dial implements Transport.
func (b *MemoryBroker) Dial(ctx context.Context) (Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dials++
	if b.failDials > 0 {
		b.failDials--
		return nil, ErrBrokerUnavailable
	}
	c := &memoryConn{
		broker: b,
		topics: make(map[string]struct{}),
		msgs:   make(chan Message, memoryBuffer),
		done:   make(chan struct{}),
	}
	b.conns[c] = struct{}{}
	return c, nil
}

// FailNextDials makes the next n dials fail.
func (b *MemoryBroker) FailNextDials(n int) {
	b.mu.Lock()
	b.failDials = n
	b.mu.Unlock()
}

// Dials returns how many dials were attempted.
func (b *MemoryBroker) Dials() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dials
}

// DropConnections severs every open connection, as a broker restart
// would.
func (b *MemoryBroker) DropConnections() {
	b.mu.Lock()
	conns := make([]*memoryConn, 0, len(b.conns))
	for c := range b.conns {
		conns = append(conns, c)
	}
	b.mu.Unlock()
	for _, c := range conns {
		_ = c.Close()
	}
}

// Subscribers counts connections subscribed to topic.
func (b *MemoryBroker) Subscribers(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for c := range b.conns {
		if _, ok := c.topics[topic]; ok {
			n++
		}
	}
	return n
}

// Published returns every body published to topic, oldest first.
func (b *MemoryBroker) Published(topic string) [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([][]byte, len(b.published[topic]))
	copy(out, b.published[topic])
	return out
}

// Publish delivers body to every connection subscribed to topic, as if
// the server pushed it.
func (b *MemoryBroker) Publish(topic string, body []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deliverLocked(topic, body)
}

func (b *MemoryBroker) publishFrom(topic string, body []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published[topic] = append(b.published[topic], append([]byte(nil), body...))
	b.deliverLocked(topic, body)
	if b.Relay != nil {
		if to, ok := b.Relay(topic); ok {
			b.deliverLocked(to, body)
		}
	}
}

func (b *MemoryBroker) deliverLocked(topic string, body []byte) {
	for c := range b.conns {
		if _, ok := c.topics[topic]; !ok {
			continue
		}
		select {
		case c.msgs <- Message{Topic: topic, Body: append([]byte(nil), body...)}:
		default:
		}
	}
}

type memoryConn struct {
	broker *MemoryBroker
	topics map[string]struct{} // guarded by broker.mu
	msgs   chan Message
	done   chan struct{}
	once   sync.Once
}

func (c *memoryConn) Subscribe(ctx context.Context, topic string) error {
	c.broker.mu.Lock()
	defer c.broker.mu.Unlock()
	if _, ok := c.broker.conns[c]; !ok {
		return ErrConnClosed
	}
	c.topics[topic] = struct{}{}
	return nil
}

func (c *memoryConn) Unsubscribe(ctx context.Context, topic string) error {
	c.broker.mu.Lock()
	defer c.broker.mu.Unlock()
	delete(c.topics, topic)
	return nil
}

func (c *memoryConn) Publish(ctx context.Context, topic string, body []byte) error {
	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}
	c.broker.publishFrom(topic, body)
	return nil
}

func (c *memoryConn) Messages() <-chan Message { return c.msgs }

func (c *memoryConn) Done() <-chan struct{} { return c.done }

func (c *memoryConn) Close() error {
	c.once.Do(func() {
		c.broker.mu.Lock()
		delete(c.broker.conns, c)
		c.broker.mu.Unlock()
		close(c.done)
	})
	return nil
}
