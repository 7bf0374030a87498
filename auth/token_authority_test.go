package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-payout-attest/core"
)

type staticSigner struct {
	signature string
	calls     int
}

func (s *staticSigner) Sign(string) (string, error) {
	s.calls++
	return s.signature, nil
}

func TestAuthorityAuthorizeSendsCredentialHeadersAndParsesToken(t *testing.T) {
	signer := &staticSigner{signature: "sig-abc"}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get(HeaderClientID); got != "client-1" {
			t.Errorf("expected client id header, got %q", got)
		}
		if got := r.Header.Get(HeaderClientSecret); got != "secret-1" {
			t.Errorf("expected client secret header, got %q", got)
		}
		if got := r.Header.Get(HeaderSignature); got != "sig-abc" {
			t.Errorf("expected signature header, got %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "SUCCESS",
			"message": "token generated",
			"data":    map[string]any{"token": "bearer-xyz"},
		})
	}))
	defer server.Close()

	authority, err := NewAuthority(AuthorityConfig{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		AuthorizeURL: server.URL,
		Signer:       signer,
	})
	if err != nil {
		t.Fatalf("new authority: %v", err)
	}

	token, err := authority.Authorize(context.Background())
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if token != "bearer-xyz" {
		t.Fatalf("expected bearer-xyz, got %q", token)
	}
	if signer.calls != 1 {
		t.Fatalf("expected one signature per attempt, got %d", signer.calls)
	}
}

func TestAuthorityAuthorizeRejectsNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "ERROR",
			"message": "IP not whitelisted",
		})
	}))
	defer server.Close()

	authority, err := NewAuthority(AuthorityConfig{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		AuthorizeURL: server.URL,
	})
	if err != nil {
		t.Fatalf("new authority: %v", err)
	}

	_, err = authority.Authorize(context.Background())
	if err == nil {
		t.Fatalf("expected authorization error")
	}
	var authErr *core.AuthorizationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *core.AuthorizationError, got %T", err)
	}
	if authErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", authErr.StatusCode)
	}
	if authErr.ServerMessage != "IP not whitelisted" {
		t.Fatalf("expected server message preserved, got %q", authErr.ServerMessage)
	}
	if !errors.Is(err, core.ErrAuthorization) {
		t.Fatalf("expected sentinel match, got %v", err)
	}
}

func TestAuthorityAuthorizeRejectsSuccessWithoutToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "SUCCESS",
			"data":   map[string]any{},
		})
	}))
	defer server.Close()

	authority, err := NewAuthority(AuthorityConfig{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		AuthorizeURL: server.URL,
	})
	if err != nil {
		t.Fatalf("new authority: %v", err)
	}

	if _, err := authority.Authorize(context.Background()); !errors.Is(err, core.ErrAuthorization) {
		t.Fatalf("expected authorization error for missing token, got %v", err)
	}
}

func TestNewAuthorityValidatesConfig(t *testing.T) {
	cases := []AuthorityConfig{
		{ClientSecret: "s", AuthorizeURL: "https://example.com"},
		{ClientID: "c", AuthorizeURL: "https://example.com"},
		{ClientID: "c", ClientSecret: "s"},
	}
	for i, cfg := range cases {
		if _, err := NewAuthority(cfg); !errors.Is(err, core.ErrAuthorization) {
			t.Fatalf("case %d: expected authorization error, got %v", i, err)
		}
	}
}
