package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mindmate-chat/internal/domain"
)

func TestSessionAuth_RoundTrip(t *testing.T) {
	auth := NewSessionAuth("secret", time.Hour, false, func() string { return "token-123" })

	rec := httptest.NewRecorder()
	minted, err := auth.Mint(rec)
	if err != nil {
		t.Fatal(err)
	}
	if minted != "token-123" {
		t.Fatalf("minted token %q", minted)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	got, err := auth.TokenFromRequest(req)
	if err != nil {
		t.Fatal(err)
	}
	if got != "token-123" {
		t.Fatalf("resolved token %q", got)
	}
}

func TestSessionAuth_WrongSecretRejected(t *testing.T) {
	minter := NewSessionAuth("secret-a", time.Hour, false, func() string { return "token-123" })
	verifier := NewSessionAuth("secret-b", time.Hour, false, func() string { return "token-123" })

	rec := httptest.NewRecorder()
	if _, err := minter.Mint(rec); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	if _, err := verifier.TokenFromRequest(req); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("got %v, want ErrSessionInvalid", err)
	}
}

func TestSessionAuth_ExpiredCookieRejected(t *testing.T) {
	auth := NewSessionAuth("secret", -time.Minute, false, func() string { return "token-123" })

	rec := httptest.NewRecorder()
	if _, err := auth.Mint(rec); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	if _, err := auth.TokenFromRequest(req); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("got %v, want ErrSessionInvalid", err)
	}
}

func TestSessionAuth_MissingCookie(t *testing.T) {
	auth := NewSessionAuth("secret", time.Hour, false, func() string { return "token-123" })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := auth.TokenFromRequest(req); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("got %v, want ErrSessionInvalid", err)
	}
}
