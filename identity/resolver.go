// Package identity resolves actor identity for captured signals: the
// pseudonymous visitor hash for anonymous traffic and the session id
// attached to every record.
package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/goliatone/go-tracklog/pkg/types"
)

// TokenTTL is the client-side lifetime of an issued visitor token.
const TokenTTL = 30 * 24 * time.Hour

// TokenStore persists the visitor token on the client side, typically a
// cookie jar owned by the host. Load reports whether a previously issued
// token exists.
type TokenStore interface {
	Load(ctx context.Context) (string, bool)
	Save(ctx context.Context, token string, ttl time.Duration) error
}

// SessionIDProvider extracts a session identifier from the request context.
type SessionIDProvider interface {
	SessionID(ctx context.Context) (string, bool)
}

// SessionIDProviderFunc adapts a function into a SessionIDProvider.
type SessionIDProviderFunc func(ctx context.Context) (string, bool)

// SessionID returns the session identifier and satisfies SessionIDProvider.
func (f SessionIDProviderFunc) SessionID(ctx context.Context) (string, bool) {
	if f == nil {
		return "", false
	}
	return f(ctx)
}

// ResolverConfig wires dependencies for the identity resolver.
type ResolverConfig struct {
	Tokens   TokenStore
	Sessions SessionIDProvider
	Clock    types.Clock
	IDGen    types.IDGenerator
}

// Resolver issues stable visitor hashes and session identifiers. Hash
// generation never blocks on network I/O.
type Resolver struct {
	tokens   TokenStore
	sessions SessionIDProvider
	clock    types.Clock
	idGen    types.IDGenerator
}

// NewResolver constructs an identity resolver. All dependencies are
// optional: without a token store every call issues a fresh hash.
func NewResolver(cfg ResolverConfig) *Resolver {
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	return &Resolver{
		tokens:   cfg.Tokens,
		sessions: cfg.Sessions,
		clock:    clock,
		idGen:    idGen,
	}
}

// VisitorHash returns the pseudonymous identifier for an anonymous actor.
// A previously issued token is reused for its lifetime; otherwise a new hash
// is derived from the client address, user agent, current time, and a random
// nonce, then handed to the token store.
func (r *Resolver) VisitorHash(ctx context.Context, ip, userAgent string) (string, error) {
	if r.tokens != nil {
		if token, ok := r.tokens.Load(ctx); ok && strings.TrimSpace(token) != "" {
			return token, nil
		}
	}
	hash := r.generateHash(ip, userAgent)
	if r.tokens != nil {
		if err := r.tokens.Save(ctx, hash, TokenTTL); err != nil {
			return "", err
		}
	}
	return hash, nil
}

// SessionID returns the platform session identifier, generating one on
// demand when the host does not supply a provider.
func (r *Resolver) SessionID(ctx context.Context) string {
	if r.sessions != nil {
		if id, ok := r.sessions.SessionID(ctx); ok && strings.TrimSpace(id) != "" {
			return id
		}
	}
	return r.idGen.UUID().String()
}

func (r *Resolver) generateHash(ip, userAgent string) string {
	nonce := r.idGen.UUID().String()
	seed := ip + userAgent + r.clock.Now().Format(time.RFC3339Nano) + nonce
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}
