package live

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisDialFailsWithoutServer(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectPing().SetErr(errors.New("connection refused"))

	tr := &RedisTransport{Client: db}
	_, err := tr.Dial(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisDialNeedsClient(t *testing.T) {
	_, err := (&RedisTransport{}).Dial(context.Background())
	assert.Error(t, err)
}

func TestRedisConnPublish(t *testing.T) {
	db, mock := redismock.NewClientMock()
	body := `{"seatId":3,"available":false}`
	mock.ExpectPublish("app.seat-update.1", body).SetVal(1)

	c := newRedisConn(db)
	require.NoError(t, c.Publish(context.Background(), "app.seat-update.1", []byte(body)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisConnClosesWhenPingFails(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectPing().SetErr(errors.New("EOF"))

	clock := clockwork.NewFakeClock()
	c := newRedisConn(db)
	go c.watch(clock, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Second)

	select {
	case <-c.Done():
	case <-time.After(waitFor):
		t.Fatal("connection not closed after failed ping")
	}
	assert.ErrorContains(t, c.err, "EOF")
}
