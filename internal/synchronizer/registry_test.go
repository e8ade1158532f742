package synchronizer

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	f := newFixture(t, false)
	r := NewRegistry(RegistryConfig{})
	s := f.open(t)

	id := r.Add(s)
	got, err := r.Get(id)
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, r.Len())

	require.NoError(t, r.Remove(id))
	assert.Equal(t, StateClosed, s.State())
	assert.ErrorIs(t, r.Remove(id), ErrSessionNotFound)
	_, err = r.Get(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	r.Add(f.open(t))
	r.Add(f.open(t))
	assert.Equal(t, 2, r.CloseAll())
	assert.Zero(t, r.Len())
}

func TestRegistrySweepsIdleSessions(t *testing.T) {
	f := newFixture(t, true)
	clock := clockwork.NewFakeClock()
	r := NewRegistry(RegistryConfig{Clock: clock, IdleTTL: 10 * time.Minute})
	topic := f.topics.Seats(showID)

	idle := f.open(t)
	busy := f.open(t)
	idleID := r.Add(idle)
	busyID := r.Add(busy)
	f.subscribed(t)

	clock.Advance(6 * time.Minute)
	_, err := r.Get(busyID)
	require.NoError(t, err)
	assert.Zero(t, r.Sweep())

	clock.Advance(5 * time.Minute)
	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, StateClosed, idle.State())
	assert.Equal(t, StateReady, busy.State())
	_, err = r.Get(idleID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 1, f.channel.Subscribers(topic))

	busy.Close()
	assert.Equal(t, 1, r.Sweep(), "closed sessions are dropped regardless of age")
	assert.Zero(t, r.Len())
	require.Eventually(t, func() bool { return f.broker.Subscribers(topic) == 0 }, waitFor, tick)
}

func TestRegistryRunSweepsOnClock(t *testing.T) {
	f := newFixture(t, false)
	clock := clockwork.NewFakeClock()
	r := NewRegistry(RegistryConfig{Clock: clock, IdleTTL: time.Minute})
	s := f.open(t)
	r.Add(s)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	waitCtx, waitCancel := context.WithTimeout(context.Background(), waitFor)
	defer waitCancel()
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))
	clock.Advance(time.Minute)

	require.Eventually(t, func() bool { return r.Len() == 0 }, waitFor, tick)
	assert.Equal(t, StateClosed, s.State())
}
