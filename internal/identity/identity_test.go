package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/theater-client/internal/model"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "4",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return tok
}

func TestSignedOutByDefault(t *testing.T) {
	s := NewStore(nil)
	_, ok := s.Current()
	assert.False(t, ok)
	assert.Empty(t, s.Token())
}

func TestSetAndClear(t *testing.T) {
	s := NewStore(nil)
	s.Set(model.User{ID: 4, Username: "ana"}, "")
	u, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, uint64(4), u.ID)

	s.Clear()
	_, ok = s.Current()
	assert.False(t, ok)
}

func TestTokenFromLoginResponse(t *testing.T) {
	s := NewStore(nil)
	s.Set(model.User{ID: 4, Token: "opaque"}, "")
	assert.Equal(t, "opaque", s.Token())
	u, _ := s.Current()
	assert.Empty(t, u.Token)
}

func TestExpiredTokenSignsOut(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC))
	s := NewStore(clock)
	s.Set(model.User{ID: 4}, signed(t, clock.Now().Add(time.Hour)))

	_, ok := s.Current()
	assert.True(t, ok)
	assert.NotEmpty(t, s.Token())

	clock.Advance(time.Hour)
	_, ok = s.Current()
	assert.False(t, ok)
	assert.Empty(t, s.Token())
}
