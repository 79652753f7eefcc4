package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// HMACVerifier accepts HS256 tokens signed with a shared secret. It stands in
// for Firebase in local development and tests.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

func (v *HMACVerifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return nil, classify(err)
	}
	if err := checkSubject(claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Sign issues a token the verifier accepts
func (v *HMACVerifier) Sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
