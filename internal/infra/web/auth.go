package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mindmate-chat/internal/domain"
)

// ===== Session cookie primitives =====

const sessionCookieName = "chat_session"

// SessionAuth mints and verifies the session cookie. The cookie value is an
// HS256 JWT whose subject is the opaque session token; the token itself
// comes from an injected ID source so tests stay deterministic.
type SessionAuth struct {
	secret   []byte
	ttl      time.Duration
	secure   bool
	newToken func() string
}

func NewSessionAuth(secret string, ttl time.Duration, secure bool, newToken func() string) *SessionAuth {
	return &SessionAuth{
		secret:   []byte(secret),
		ttl:      ttl,
		secure:   secure,
		newToken: newToken,
	}
}

// Mint generates a fresh session token, signs it and sets the cookie.
// A session exists from this moment on; it is never explicitly deleted.
func (a *SessionAuth) Mint(w http.ResponseWriter) (string, error) {
	token := a.newToken()
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   token,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign session cookie: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(a.ttl.Seconds()),
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteStrictMode,
	})
	return token, nil
}

// TokenFromRequest extracts and verifies the session token from the cookie.
// Absent cookie, bad signature or expired claims all come back as
// domain.ErrSessionInvalid.
func (a *SessionAuth) TokenFromRequest(r *http.Request) (string, error) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		return "", domain.ErrSessionInvalid
	}
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(c.Value, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return "", domain.ErrSessionInvalid
	}
	return claims.Subject, nil
}
