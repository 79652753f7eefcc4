package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Common errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrMissingUserID = errors.New("missing subject in claims")
	ErrUnknownKey    = errors.New("unknown signing key")
)

// Provider names stored on the user row
const (
	ProviderGoogle = "google"
	ProviderGithub = "github"
	ProviderEmail  = "email"
)

// FirebaseInfo is the nested "firebase" claim of an ID token
type FirebaseInfo struct {
	SignInProvider string `json:"sign_in_provider"`
}

// Claims are the ID token claims the service reads. The subject is the
// identity's uid.
type Claims struct {
	jwt.RegisteredClaims
	Email    string       `json:"email,omitempty"`
	Name     string       `json:"name,omitempty"`
	Picture  string       `json:"picture,omitempty"`
	Firebase FirebaseInfo `json:"firebase"`
}

func (c *Claims) UserID() string {
	return c.Subject
}

// Provider maps the sign-in provider to a stored provider name
func (c *Claims) Provider() string {
	switch c.Firebase.SignInProvider {
	case "google.com":
		return ProviderGoogle
	case "github.com":
		return ProviderGithub
	default:
		return ProviderEmail
	}
}

// TokenVerifier turns a bearer credential into verified claims
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// NewVerifier picks the Firebase verifier when a project id is configured and
// falls back to HS256 tokens signed with secret.
func NewVerifier(firebaseProjectID, secret string) TokenVerifier {
	if firebaseProjectID != "" {
		return NewFirebaseVerifier(firebaseProjectID)
	}
	return NewHMACVerifier(secret)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2) // 0 is Bearer, 1 is token
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// classify maps jwt parse failures onto the package errors
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, ErrUnknownKey):
		return ErrUnknownKey
	default:
		return ErrInvalidToken
	}
}

func checkSubject(claims *Claims) error {
	if claims.Subject == "" {
		return ErrMissingUserID
	}
	return nil
}
