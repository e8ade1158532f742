package live

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultExchange is the topic exchange seat updates travel through.
const DefaultExchange = "theater.seats"

// AMQPTransport carries the live channel over a RabbitMQ topic
// exchange.  Each connection declares an exclusive auto-delete queue and
// binds one routing key per subscribed topic.
type AMQPTransport struct {
	URL      string
	Exchange string
}

// Dial connects to the broker and prepares the per-connection queue.
func (t *AMQPTransport) Dial(ctx context.Context) (Conn, error) {
	exchange := t.Exchange
	if exchange == "" {
		exchange = DefaultExchange
	}
	conn, err := amqp.DialConfig(t.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Dial:      amqp.DefaultDial(10 * time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("amqp: dial: %w", err)
	}
	fail := func(step string, err error) (Conn, error) {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp: %s: %w", step, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return fail("channel open", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return fail("exchange declare", err)
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fail("queue declare", err)
	}
	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return fail("queue consume", err)
	}

	c := &amqpConn{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
		queue:    q.Name,
		msgs:     make(chan Message, memoryBuffer),
		done:     make(chan struct{}),
	}
	go c.read(deliveries, conn.NotifyClose(make(chan *amqp.Error, 1)))
	return c, nil
}

type amqpConn struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	queue    string

	mu   sync.Mutex // serializes channel operations
	msgs chan Message
	done chan struct{}
	once sync.Once
}

func (c *amqpConn) read(deliveries <-chan amqp.Delivery, closed <-chan *amqp.Error) {
	for {
		select {
		case <-c.done:
			return
		case <-closed:
			// a nil *amqp.Error means a graceful close; either way the
			// connection is gone
			c.shutdown()
			return
		case d, ok := <-deliveries:
			if !ok {
				c.shutdown()
				return
			}
			select {
			case c.msgs <- Message{Topic: d.RoutingKey, Body: d.Body}:
			case <-c.done:
				return
			}
		}
	}
}

func (c *amqpConn) shutdown() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *amqpConn) Subscribe(ctx context.Context, topic string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ch.QueueBind(c.queue, topic, c.exchange, false, nil)
}

func (c *amqpConn) Unsubscribe(ctx context.Context, topic string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ch.QueueUnbind(c.queue, topic, c.exchange, nil)
}

func (c *amqpConn) Publish(ctx context.Context, topic string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.ch.PublishWithContext(ctx, c.exchange, topic, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now().UTC(),
		Body:        body,
	})
	if errors.Is(err, amqp.ErrClosed) {
		c.shutdown()
	}
	return err
}

func (c *amqpConn) Messages() <-chan Message { return c.msgs }

func (c *amqpConn) Done() <-chan struct{} { return c.done }

func (c *amqpConn) Close() error {
	c.shutdown()
	return nil
}
