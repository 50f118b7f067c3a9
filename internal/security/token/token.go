// Package token issues and verifies the signed, time-limited bearer tokens
// handed out at signup and login.
//
// Tokens are compact HS256 JWTs: base64url(header).base64url(claims).base64url(signature),
// with the signature an HMAC-SHA256 over the first two segments.
package token

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of tokens issued at signup and login.
const DefaultTTL = 7 * 24 * time.Hour

var ErrEmptySecret = errors.New("token signing secret must not be empty")

// Claims is the payload carried by a token. Only id, userId, username and the
// registered claims survive a round trip; other payload fields are dropped on
// Verify.
type Claims struct {
	ID       int64  `json:"id"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a single shared secret.
type Codec struct {
	secret []byte
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Codec)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Codec) {
		c.logger = logger
	}
}

func NewCodec(secret string, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	c := &Codec{
		secret: []byte(secret),
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue stamps iat and exp (iat + ttl) onto claims and returns the signed token.
// Any iat/exp already present on claims are overwritten.
func (c *Codec) Issue(claims Claims, ttl time.Duration) (string, error) {
	now := c.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the token's claims and true when the signature matches and
// the token has not expired. A token without exp never expires. Every failure yields (nil, false); the reason is
// only logged.
func (c *Codec) Verify(tokenString string) (*Claims, bool) {
	segments := strings.Split(tokenString, ".")
	if len(segments) != 3 {
		c.reject("wrong segment count", nil)
		return nil, false
	}
	for _, s := range segments {
		if s == "" {
			c.reject("empty segment", nil)
			return nil, false
		}
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithStrictDecoding(),
	)

	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		c.reject("parse failed", err)
		return nil, false
	}
	if !parsed.Valid {
		c.reject("token not valid", nil)
		return nil, false
	}
	return claims, true
}

func (c *Codec) reject(reason string, err error) {
	attrs := []any{slog.String("reason", reason)}
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
	}
	c.logger.Debug("Token verification failed", attrs...)
}
