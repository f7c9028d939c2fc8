package helpers

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSecret(seed string) string {
	b := make([]byte, 64)
	for i := range b {
		b[i] = seed[i%len(seed)]
	}
	return base64.StdEncoding.EncodeToString(b)
}

func newTestManager(t *testing.T, seed string, now time.Time) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(testSecret(seed), time.Hour)
	require.NoError(t, err)
	m.now = func() time.Time { return now }
	return m
}

func TestJWTManager_RoundTrip(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	m := newTestManager(t, "alpha", issuedAt)

	tok, exp, err := m.GenerateToken("user-1", "a@x.com", "Alice", false)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(time.Hour), exp)

	m.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	claims, err := m.ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email())
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Alice", claims.Name)
	assert.False(t, claims.IsAdmin)
	assert.Equal(t, issuedAt, claims.IssuedAt.Time.UTC())
}

func TestJWTManager_Expired(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	m := newTestManager(t, "alpha", issuedAt)
	tok, exp, err := m.GenerateToken("user-1", "a@x.com", "Alice", true)
	require.NoError(t, err)

	m.now = func() time.Time { return exp }
	_, err = m.ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken, "rejected at the exact expiry instant")

	m.now = func() time.Time { return exp.Add(time.Minute) }
	_, err = m.ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_WrongKey(t *testing.T) {
	t.Parallel()

	now := time.Now()
	signer := newTestManager(t, "alpha", now)
	other := newTestManager(t, "bravo", now)

	tok, _, err := signer.GenerateToken("user-1", "a@x.com", "Alice", false)
	require.NoError(t, err)

	_, err = other.ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_Malformed(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, "alpha", time.Now())
	for _, in := range []string{"", "not.a.jwt", "abc", "a.b.c.d"} {
		_, err := m.ParseToken(in)
		assert.ErrorIs(t, err, ErrInvalidToken, "input %q", in)
	}
}

func TestJWTManager_RejectsOtherAlgorithm(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, "alpha", time.Now())
	claims := &Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "a@x.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	require.NoError(t, err)

	_, err = m.ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RequiresExpiry(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, "alpha", time.Now())
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "a@x.com"}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(m.secret)
	require.NoError(t, err)

	_, err = m.ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTManager_BadKey(t *testing.T) {
	t.Parallel()

	_, err := NewJWTManager("%%%not-base64%%%", time.Hour)
	assert.ErrorIs(t, err, ErrSigningKey)

	_, err = NewJWTManager(base64.StdEncoding.EncodeToString([]byte("short")), time.Hour)
	assert.ErrorIs(t, err, ErrSigningKey)

	_, err = NewJWTManager(testSecret("alpha"), 0)
	assert.ErrorIs(t, err, ErrSigningKey)
}
