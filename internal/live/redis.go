package live

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

// DefaultPingInterval is how often a redis connection is health-checked.
const DefaultPingInterval = 15 * time.Second

// RedisTransport carries the live channel over redis pub/sub.  Topics
// map one-to-one onto redis channels.
type RedisTransport struct {
	Client       *redis.Client
	PingInterval time.Duration
	Clock        clockwork.Clock
}

// Dial pings the server and opens an empty pub/sub session.  Losing the
// server is detected by a periodic ping, which closes Done.
func (t *RedisTransport) Dial(ctx context.Context) (Conn, error) {
	if t.Client == nil {
		return nil, fmt.Errorf("redis: no client configured")
	}
	if err := t.Client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	clock := t.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	interval := t.PingInterval
	if interval <= 0 {
		interval = DefaultPingInterval
	}

	c := newRedisConn(t.Client)
	c.pubsub = t.Client.Subscribe(ctx)
	go c.read()
	go c.watch(clock, interval)
	return c, nil
}

type redisConn struct {
	client *redis.Client
	pubsub *redis.PubSub
	msgs   chan Message
	done   chan struct{}
	once   sync.Once
	err    error
}

func newRedisConn(client *redis.Client) *redisConn {
	return &redisConn{
		client: client,
		msgs:   make(chan Message, memoryBuffer),
		done:   make(chan struct{}),
	}
}

func (c *redisConn) read() {
	for m := range c.pubsub.Channel() {
		select {
		case c.msgs <- Message{Topic: m.Channel, Body: []byte(m.Payload)}:
		case <-c.done:
			return
		}
	}
	c.shutdown(ErrConnClosed)
}

func (c *redisConn) watch(clock clockwork.Clock, interval time.Duration) {
	ticker := clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.Chan():
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			err := c.client.Ping(ctx).Err()
			cancel()
			if err != nil {
				c.shutdown(fmt.Errorf("redis: ping: %w", err))
				return
			}
		}
	}
}

func (c *redisConn) shutdown(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.done)
		if c.pubsub != nil {
			_ = c.pubsub.Close()
		}
	})
}

func (c *redisConn) Subscribe(ctx context.Context, topic string) error {
	return c.pubsub.Subscribe(ctx, topic)
}

func (c *redisConn) Unsubscribe(ctx context.Context, topic string) error {
	return c.pubsub.Unsubscribe(ctx, topic)
}

func (c *redisConn) Publish(ctx context.Context, topic string, body []byte) error {
	return c.client.Publish(ctx, topic, string(body)).Err()
}

func (c *redisConn) Messages() <-chan Message { return c.msgs }

func (c *redisConn) Done() <-chan struct{} { return c.done }

func (c *redisConn) Close() error {
	c.shutdown(ErrConnClosed)
	return nil
}
