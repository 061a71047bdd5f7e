// Package auth signs and checks the bearer tokens carried on write requests.
package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/miniblog/backend/apperr"
)

// Verifier holds the HS256 signing secret. The secret is fixed at
// construction; there is no other process-wide auth state.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret []byte) *Verifier {
	return &Verifier{secret: secret}
}

// ResolveToken pulls the bearer token off the Authorization header.
// Returns "" when the header is absent or not in Bearer form.
func (v *Verifier) ResolveToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// Subject verifies the token's signature and expiry and returns its subject
// claim, the username it was issued to.
func (v *Verifier) Subject(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return "", apperr.AuthInvalid("invalid or expired token")
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", apperr.AuthInvalid("token carries no subject")
	}
	return subject, nil
}

// Sign mints a token for the given username.
func (v *Verifier) Sign(username string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(v.secret)
}
