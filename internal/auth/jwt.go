package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

// Claims are the JWT claims understood by the API. The subject is the user id;
// tokens minted by older clients carry it in userId instead.
type Claims struct {
	UserID string `json:"userId,omitempty"`
	jwt.RegisteredClaims
}

// subject returns the user id carried by the claims.
func (c *Claims) subject() string {
	if c.Subject != "" {
		return c.Subject
	}
	return c.UserID
}

// JWTVerifier validates HS256 tokens signed with a shared secret.
type JWTVerifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTVerifier returns a verifier for secret. A non-empty issuer is enforced.
func NewJWTVerifier(secret, issuer string) *JWTVerifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &JWTVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(opts...),
	}
}

// Verify implements Verifier. Anything that is not shaped like a JWT is left
// to the next verifier.
func (v *JWTVerifier) Verify(_ context.Context, token string) (Identity, error) {
	if strings.Count(token, ".") != 2 {
		return Identity{}, ErrUnknownToken
	}

	claims := &Claims{}
	parsed, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return Identity{}, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	sub := claims.subject()
	if sub == "" {
		return Identity{}, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}
	return Identity{UserID: sub}, nil
}
