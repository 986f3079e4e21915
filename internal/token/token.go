// Package token signs and verifies the bearer tokens shared by the gateway
// and every domain service. Verification is a pure function of the token, the
// shared secret and the current time; no state is kept anywhere.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	issuer   = "parley-api"
	audience = "parley-client"

	// TTL is how long issued tokens stay valid.
	TTL = 7 * 24 * time.Hour
)

// Identity is the decoded subject of a verified token.
type Identity struct {
	UserID uint
	Name   string
	JTI    string
}

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrBadClaims    = errors.New("invalid token claims")
)

// Sign issues an HS256 token for the given user.
func Sign(secret string, userID uint, name string, now time.Time) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("signing secret not configured")
	}

	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(userID), 10),
		"name": name,
		"iss":  issuer,
		"aud":  audience,
		"exp":  now.Add(TTL).Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"jti":  fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// Verify validates raw against secret at the given instant and returns the
// identity it carries. It rejects non-HMAC signing methods, wrong issuers and
// audiences, and expired or not-yet-valid tokens.
func Verify(raw, secret string, now time.Time) (Identity, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrBadClaims
	}

	if iss, issOk := claims["iss"].(string); !issOk || iss != issuer {
		return Identity{}, ErrBadClaims
	}
	if aud, audOk := claims["aud"].(string); !audOk || aud != audience {
		return Identity{}, ErrBadClaims
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return Identity{}, ErrBadClaims
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return Identity{}, ErrBadClaims
	}

	id := Identity{UserID: uint(userID)}
	if name, nameOk := claims["name"].(string); nameOk {
		id.Name = name
	}
	if jti, jtiOk := claims["jti"].(string); jtiOk {
		id.JTI = jti
	}

	return id, nil
}
