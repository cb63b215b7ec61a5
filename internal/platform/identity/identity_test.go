package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestJWTVerifier(t *testing.T) {
	id := uuid.New()
	v := NewJWTVerifier("s3cret", "authenticated")
	ctx := context.Background()

	good := signToken(t, "s3cret", jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":           id.String(),
		"email":         "owner@example.com",
		"aud":           "authenticated",
		"exp":           time.Now().Add(time.Hour).Unix(),
		"user_metadata": map[string]any{"full_name": "Owner"},
	})
	got, err := v.GetUser(ctx, good)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.ID != id || got.Email != "owner@example.com" || got.FullName != "Owner" {
		t.Fatalf("GetUser: unexpected identity %+v", got)
	}

	cases := map[string]string{
		"empty": "",
		"expired": signToken(t, "s3cret", jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": id.String(), "aud": "authenticated", "exp": time.Now().Add(-time.Minute).Unix(),
		}),
		"wrong secret": signToken(t, "other", jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": id.String(), "aud": "authenticated", "exp": time.Now().Add(time.Hour).Unix(),
		}),
		"wrong audience": signToken(t, "s3cret", jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": id.String(), "aud": "anon", "exp": time.Now().Add(time.Hour).Unix(),
		}),
		"no expiry": signToken(t, "s3cret", jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": id.String(), "aud": "authenticated",
		}),
		"garbage": "not.a.jwt",
	}
	for name, tok := range cases {
		if _, err := v.GetUser(ctx, tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestRemoteProvider(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("apikey") != "anon" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"invalid JWT"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"` + id.String() + `","email":"student@example.com","user_metadata":{"name":"Stu"}}`))
	}))
	defer srv.Close()

	p := NewRemoteProvider(srv.URL+"/", "anon", srv.Client())
	got, err := p.GetUser(context.Background(), "good")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.ID != id || got.FullName != "Stu" {
		t.Fatalf("GetUser: unexpected identity %+v", got)
	}
	if _, err := p.GetUser(context.Background(), "bad"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("bad token: expected ErrInvalidToken, got %v", err)
	}
}

func TestRemoteProviderUpstreamFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewRemoteProvider(srv.URL, "", srv.Client())
	_, err := p.GetUser(context.Background(), "tok")
	if err == nil || errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestNewSelectsProvider(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("New: expected error without secret or url")
	}
	p, err := New(Config{JWTSecret: "x", URL: "http://idp"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := p.(*jwtVerifier); !ok {
		t.Fatalf("New: expected jwt verifier when secret is set, got %T", p)
	}
}
