// Package live implements the publish/subscribe channel that carries
// seat availability changes between connected clients.
//
// A Channel owns one connection to the broker, obtained from a
// Transport, and keeps it alive with an explicit reconnection state
// machine.  Views subscribe to per-show topics through the Channel;
// subscriptions are reference-counted per topic so that one view's
// teardown never removes another view's subscription.
package live

import "context"

// Message is one payload received on a subscribed topic.
type Message struct {
	Topic string
	Body  []byte
}

// Transport dials connections to a broker.
type Transport interface {
	Dial(ctx context.Context) (Conn, error)
}

// Conn is a single broker connection.  Implementations deliver inbound
// messages on Messages and close Done when the connection is lost or
// closed; after Done is closed the Conn is not reused.
type Conn interface {
	Subscribe(ctx context.Context, topic string) error
	Unsubscribe(ctx context.Context, topic string) error
	Publish(ctx context.Context, topic string, body []byte) error
	Messages() <-chan Message
	Done() <-chan struct{}
	Close() error
}
