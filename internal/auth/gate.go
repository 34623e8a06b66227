package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/lastlock/lockmap-core/internal/infrastructure/config"
)

// Sentinel errors for identity gate operations.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownIdentity    = errors.New("unknown identity")
	ErrTokenInvalid       = errors.New("invalid token")
)

// Gate authenticates identities against the shared password and
// resolves their floor grants.
type Gate struct {
	users     map[string][]string
	password  string
	delay     time.Duration
	jwtSecret string
	ttl       int
}

// NewGate builds a gate from security configuration.
func NewGate(cfg config.SecurityConfig) *Gate {
	users := make(map[string][]string, len(cfg.Users))
	for _, u := range cfg.Users {
		users[u.Identity] = u.Floors
	}
	return &Gate{
		users:     users,
		password:  cfg.Login.Password,
		delay:     cfg.Login.Delay,
		jwtSecret: cfg.JWT.Secret,
		ttl:       cfg.JWT.AccessTokenTTL,
	}
}

// Authenticate verifies identity and password and returns a signed
// access token. The configured delay is always applied before
// returning, pass or fail, unless the context expires first.
func (g *Gate) Authenticate(ctx context.Context, identity, password string) (string, error) {
	_, known := g.users[identity]
	match := subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) == 1

	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if !known {
		return "", ErrUnknownIdentity
	}
	if !match {
		return "", ErrInvalidCredentials
	}

	return GenerateAccessToken(identity, g.jwtSecret, g.ttl)
}

// FloorIDs returns the floor ids granted to identity, or
// ErrUnknownIdentity.
func (g *Gate) FloorIDs(identity string) ([]string, error) {
	grants, ok := g.users[identity]
	if !ok {
		return nil, ErrUnknownIdentity
	}
	return grants, nil
}

// Verify parses a token and returns the identity it carries, checking
// that the identity still exists in configuration.
func (g *Gate) Verify(tokenString string) (string, error) {
	claims, err := ParseToken(tokenString, g.jwtSecret)
	if err != nil {
		return "", err
	}
	if _, ok := g.users[claims.Subject]; !ok {
		return "", ErrUnknownIdentity
	}
	return claims.Subject, nil
}
