package helpers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers every expected verification failure: bad
	// signature, malformed input, wrong algorithm and expiry.
	ErrInvalidToken = errors.New("invalid token")
	// ErrSigningKey means the configured secret cannot be used.
	ErrSigningKey = errors.New("invalid signing key")
)

// MinSigningKeyBytes is the minimum decoded length of the HMAC secret.
const MinSigningKeyBytes = 32

var signingMethod = jwt.SigningMethodHS512

// JWTManager issues and verifies stateless access tokens. It holds no
// mutable state after construction and is safe for concurrent use.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager decodes the base64 secret once. A secret that does not
// decode or is too short is a configuration error.
func NewJWTManager(secret string, ttl time.Duration) (*JWTManager, error) {
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSigningKey, err)
	}
	if len(key) < MinSigningKeyBytes {
		return nil, fmt.Errorf("%w: need at least %d bytes, got %d", ErrSigningKey, MinSigningKeyBytes, len(key))
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: token lifetime must be positive", ErrSigningKey)
	}
	return &JWTManager{secret: key, ttl: ttl, now: time.Now}, nil
}

// TTL returns the configured token lifetime.
func (m *JWTManager) TTL() time.Duration { return m.ttl }

// WithClock returns a copy of m that reads the current time from now.
func (m *JWTManager) WithClock(now func() time.Time) *JWTManager {
	c := *m
	c.now = now
	return &c
}

// Claims embeds the identity facts known at issue time. They are not
// refreshed if the user changes afterwards.
type Claims struct {
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Email returns the token subject.
func (c *Claims) Email() string { return c.Subject }

// GenerateToken signs a token for the given identity. The subject is the email.
func (m *JWTManager) GenerateToken(userID, email, name string, isAdmin bool) (string, time.Time, error) {
	now := m.now()
	claims := &Claims{
		UserID:  userID,
		Name:    name,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	s, err := jwt.NewWithClaims(signingMethod, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, claims.ExpiresAt.Time, nil
}

// ParseToken verifies signature and expiry. A token is rejected at or after
// its expiry instant. All failures wrap ErrInvalidToken.
func (m *JWTManager) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tkn.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
