package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTokens(t *testing.T, clock *fakeClock) *TokenService {
	t.Helper()
	tokens, err := NewTokenService(testSecret, time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	return tokens
}

func TestNewTokenService_RejectsShortSecret(t *testing.T) {
	_, err := NewTokenService([]byte("short"), time.Hour)
	assert.ErrorIs(t, err, ErrWeakSecret)
}

func TestNewSecret(t *testing.T) {
	a, err := NewSecret()
	require.NoError(t, err)
	b, err := NewSecret()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)

	_, err = NewTokenService(a, 0)
	assert.NoError(t, err)
}

func TestTokenService_RoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	tokens := newTestTokens(t, clock)

	token, err := tokens.Generate("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."))

	subject, err := tokens.Subject(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", subject)

	assert.True(t, tokens.IsValid(token, "alice@example.com"))
	assert.False(t, tokens.IsValid(token, "bob@example.com"))
}

func TestTokenService_GenerateRequiresSubject(t *testing.T) {
	tokens := newTestTokens(t, &fakeClock{t: time.Now()})
	_, err := tokens.Generate("  ")
	assert.Error(t, err)
}

func TestTokenService_Expiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	tokens := newTestTokens(t, clock)

	token, err := tokens.Generate("alice@example.com")
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)
	assert.True(t, tokens.IsValid(token, "alice@example.com"))

	clock.Advance(time.Minute)
	_, err = tokens.Subject(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.False(t, tokens.IsValid(token, "alice@example.com"))
}

func TestTokenService_DefaultTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	tokens, err := NewTokenService(testSecret, 0, WithClock(clock.Now))
	require.NoError(t, err)

	token, err := tokens.Generate("alice@example.com")
	require.NoError(t, err)

	clock.Advance(DefaultTokenTTL - time.Second)
	assert.True(t, tokens.IsValid(token, "alice@example.com"))

	clock.Advance(time.Second)
	assert.False(t, tokens.IsValid(token, "alice@example.com"))
}

func TestTokenService_TamperedTokens(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	tokens := newTestTokens(t, clock)

	token, err := tokens.Generate("alice@example.com")
	require.NoError(t, err)

	for i := range len(token) {
		replacement := byte('A')
		if token[i] == 'A' {
			replacement = 'B'
		}
		tampered := token[:i] + string(replacement) + token[i+1:]

		_, err := tokens.Subject(tampered)
		assert.ErrorIs(t, err, ErrInvalidToken, "byte %d", i)
	}
}

func TestTokenService_RejectsForeignTokens(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	tokens := newTestTokens(t, clock)

	other, err := NewTokenService([]byte("ffffffffffffffffffffffffffffffff"), time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	foreign, err := other.Generate("alice@example.com")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice@example.com",
		ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "alice@example.com"})
	eternal, err := noExpiry.SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "malformed", token: "header.payload.signature"},
		{name: "other key", token: foreign},
		{name: "alg none", token: unsigned},
		{name: "no expiry", token: eternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.Subject(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
