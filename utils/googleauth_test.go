package utils

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func fakeTokenInfo(t *testing.T, handler http.HandlerFunc) func() {
	t.Helper()
	server := httptest.NewServer(handler)
	prev := GoogleTokenInfoURL
	GoogleTokenInfoURL = server.URL
	return func() {
		GoogleTokenInfoURL = prev
		server.Close()
	}
}

func TestVerifyGoogleIDToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	restore := fakeTokenInfo(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id_token") != "good-token" {
			http.Error(w, `{"error":"invalid_token"}`, http.StatusBadRequest)
			return
		}
		fmt.Fprintf(w, `{"sub":"12345","email":"pat@example.com","name":"Pat","aud":"client-1","exp":"%d"}`, exp)
	})
	defer restore()

	identity, err := VerifyGoogleIDToken("good-token", "client-1")
	if err != nil {
		t.Fatalf("verification failed: %v", err)
	}
	if identity.Email != "pat@example.com" || identity.Subject != "12345" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestVerifyGoogleIDTokenRejectedUpstream(t *testing.T) {
	restore := fakeTokenInfo(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_token"}`, http.StatusBadRequest)
	})
	defer restore()

	if _, err := VerifyGoogleIDToken("bad-token", ""); err == nil {
		t.Fatal("expected error for rejected token")
	}
}

func TestVerifyGoogleIDTokenAudienceMismatch(t *testing.T) {
	restore := fakeTokenInfo(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sub":"12345","email":"pat@example.com","aud":"someone-else"}`)
	})
	defer restore()

	if _, err := VerifyGoogleIDToken("good-token", "client-1"); err == nil {
		t.Fatal("expected error for audience mismatch")
	}
}

func TestVerifyGoogleIDTokenMissingEmail(t *testing.T) {
	restore := fakeTokenInfo(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sub":"12345","aud":"client-1"}`)
	})
	defer restore()

	_, err := VerifyGoogleIDToken("good-token", "client-1")
	if !errors.Is(err, ErrInvalidIdentity) {
		t.Fatalf("want ErrInvalidIdentity, got %v", err)
	}
}

func TestVerifyGoogleIDTokenExpired(t *testing.T) {
	exp := time.Now().Add(-time.Hour).Unix()
	restore := fakeTokenInfo(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"sub":"12345","email":"pat@example.com","aud":"client-1","exp":"%d"}`, exp)
	})
	defer restore()

	if _, err := VerifyGoogleIDToken("good-token", "client-1"); err == nil {
		t.Fatal("expected error for expired token")
	}
}
