package config

import (
	"crypto/rand"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims authorize the bearer to drive one puzzle session; the
// subject is the session id.
type SessionClaims struct {
	jwt.RegisteredClaims
}

type JWT struct {
	secret        []byte
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
	ephemeral     bool
}

func loadSecret() ([]byte, error) {
	secret, ok := os.LookupEnv("JWT_SECRET")
	if ok {
		return []byte(secret), nil
	}
	secretPath, ok := os.LookupEnv("JWT_SECRET_FILE")
	if !ok {
		return nil, nil
	}
	data, err := os.ReadFile(secretPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read JWT secret: %w", err)
	}
	return []byte(strings.TrimSpace(string(data))), nil
}

// NewJWT reads the HMAC secret from JWT_SECRET or JWT_SECRET_FILE. Without
// either a random per-process secret is used, so tokens do not survive a
// restart; neither do the in-memory sessions they point at.
func NewJWT(tokenLifetime time.Duration) (*JWT, error) {
	secret, err := loadSecret()
	if err != nil {
		return nil, err
	}
	ephemeral := false
	if secret == nil {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("unable to generate JWT secret: %w", err)
		}
		ephemeral = true
	}
	if len(secret) < 16 {
		return nil, fmt.Errorf("JWT secret must be at least 16 bytes")
	}

	j := &JWT{
		secret:        secret,
		signingMethod: jwt.SigningMethodHS256,
		tokenLifetime: tokenLifetime,
		ephemeral:     ephemeral,
	}
	return j, nil
}

// Ephemeral reports whether the secret was generated at startup.
func (j *JWT) Ephemeral() bool {
	return j.ephemeral
}

func (j *JWT) Sign(sessionID string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenLifetime)),
		},
	}
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.secret)
}

// ParseSession validates tokenString and returns the session id it grants.
func (j *JWT) ParseSession(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&SessionClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return j.secret, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
	)
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("malformed claims")
	}
	return claims.Subject, nil
}
