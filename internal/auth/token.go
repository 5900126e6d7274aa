package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature, malformed
// structure, wrong signing method, missing claims or an elapsed expiry.
var ErrInvalidToken = errors.New("invalid token")

// TokenCodec issues and verifies the signed session tokens carried by the
// session cookie. Tokens are stateless: there is no server-side session table
// and no revocation before the natural expiry. Rotating the signing key
// invalidates every outstanding token.
type TokenCodec struct {
	issuer     string
	signingKey []byte
	ttl        time.Duration
}

func NewTokenCodec(issuer string, signingKey []byte, ttl time.Duration) TokenCodec {
	return TokenCodec{
		issuer:     issuer,
		signingKey: signingKey,
		ttl:        ttl,
	}
}

// Issue signs a compact token whose subject is the given user id, valid from
// now until now + ttl.
func (tc TokenCodec) Issue(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    tc.issuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(now.Add(tc.ttl)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	signed, err := token.SignedString(tc.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and returns the embedded user id.
// It does not check that the user still exists; that is deferred to whichever
// handler loads the user record next.
func (tc TokenCodec) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return tc.signingKey, nil
		},
		jwt.WithIssuer(tc.issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
