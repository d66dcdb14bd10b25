package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the token lifetime used by callers that do not
// specify one. The login endpoint uses the configured session window
// instead (see config.Load).
const DefaultAccessTokenTTL = 15 * time.Minute

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims represents the JWT claims for finledger authentication. The
// registered Subject claim carries the user's email address.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken creates a signed HS256 token for the given subject with
// exactly the lifetime given: a zero or negative ttl produces a token that
// is already expired. Callers without an opinion should pass
// DefaultAccessTokenTTL.
func GenerateToken(subject, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "finledger",
			Audience:  jwt.ClaimStrings{"finledger-api"},
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses and validates a token string, returning the claims
// if valid. Every failure mode — bad signature, malformed token, expiry in
// the past, wrong issuer or audience, missing subject — surfaces as the
// same ErrInvalidToken so callers cannot distinguish why a token was
// rejected.
func ValidateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithIssuer("finledger"), jwt.WithAudience("finledger-api"), jwt.WithExpirationRequired())
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
