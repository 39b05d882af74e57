// Package auth verifies bearer tokens and carries the caller identity on the request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

// Identity is the authenticated caller.
type Identity struct {
	UserID string
}

// Verifier turns a raw bearer token into an Identity.
//
// ErrUnknownToken means the verifier does not recognise the token and another
// verifier may try; any other error rejects the token outright.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// ErrUnknownToken is returned by a verifier that does not handle a token.
var ErrUnknownToken = errors.New("unknown token")

type ctxKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFrom returns the identity stored on ctx, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok && id.UserID != ""
}

// UserID returns the caller id on ctx, or "".
func UserID(ctx context.Context) string {
	id, _ := IdentityFrom(ctx)
	return id.UserID
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("%w: missing Authorization header", domain.ErrUnauthorized)
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", fmt.Errorf("%w: invalid Authorization header format", domain.ErrUnauthorized)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w: empty bearer token", domain.ErrUnauthorized)
	}
	return token, nil
}

// Chain tries each verifier in order until one recognises the token.
type Chain []Verifier

// Verify implements Verifier.
func (c Chain) Verify(ctx context.Context, token string) (Identity, error) {
	for _, v := range c {
		id, err := v.Verify(ctx, token)
		if errors.Is(err, ErrUnknownToken) {
			continue
		}
		if err != nil {
			return Identity{}, err
		}
		return id, nil
	}
	return Identity{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, ErrUnknownToken)
}
