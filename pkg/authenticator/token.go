package authenticator

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type TokenEngine interface {
	Generate(sub string, expiration time.Duration) (string, error)
	Verify(token string) (string, error)
}

type tokenEngine struct {
	secret string
}

func NewTokenEngine(secret string) *tokenEngine {
	return &tokenEngine{secret: secret}
}

func (e *tokenEngine) Generate(sub string, expiration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
	})

	return token.SignedString([]byte(e.secret))
}

func (e *tokenEngine) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}

		return []byte(e.secret), nil
	})
	if err != nil {
		return "", err
	}

	if !parsed.Valid {
		return "", errors.New("invalid token")
	}

	return claims.Subject, nil
}
