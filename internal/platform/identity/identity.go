package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrInvalidToken covers malformed, expired and unknown access tokens.
var ErrInvalidToken = errors.New("invalid access token")

// Identity is the authenticated principal behind an access token.
type Identity struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
}

// Provider exchanges a bearer token for the identity it was issued to.
type Provider interface {
	GetUser(ctx context.Context, token string) (*Identity, error)
}

type Config struct {
	// URL is the identity provider base URL (GoTrue lives under /auth/v1).
	URL string `yaml:"url"`
	// AnonKey is sent as the apikey header and exposed to browsers.
	AnonKey string `yaml:"anon_key"`
	// JWTSecret enables local HS256 verification without a network round-trip.
	JWTSecret string `yaml:"-"`
	// Audience is checked when set, typically "authenticated".
	Audience string `yaml:"audience"`
}

// New prefers local verification and falls back to the remote user endpoint.
func New(cfg Config) (Provider, error) {
	if cfg.JWTSecret != "" {
		return NewJWTVerifier(cfg.JWTSecret, cfg.Audience), nil
	}
	if cfg.URL != "" {
		return NewRemoteProvider(cfg.URL, cfg.AnonKey, nil), nil
	}
	return nil, errors.New("identity provider requires IDENTITY_JWT_SECRET or IDENTITY_URL")
}
