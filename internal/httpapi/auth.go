package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const identityKey = "identity"

var (
	ErrMissingToken = errors.New("missing or invalid token")
	ErrNoSecret     = errors.New("jwt secret is not configured")
)

// Authenticator verifies HS256 bearer tokens. The token subject is the
// identity that owns saved cards.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) (*Authenticator, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrNoSecret
	}
	return &Authenticator{secret: []byte(secret)}, nil
}

// IssueToken signs a token for identity valid for ttl.
func (a *Authenticator) IssueToken(identity string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   identity,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Identity returns the subject of a valid token.
func (a *Authenticator) Identity(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("parsing token: %w", err)
	}
	if !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return "", ErrMissingToken
	}
	return claims.Subject, nil
}

// RequireAuth rejects requests without a valid bearer token and stores the
// identity on the gin context.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized", ErrMissingToken)
			c.Abort()
			return
		}
		identity, err := a.Identity(tokenString)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "unauthorized", err)
			c.Abort()
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
