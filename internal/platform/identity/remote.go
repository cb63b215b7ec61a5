package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pianostudio-backend/internal/pkg/httpx"
)

type remoteProvider struct {
	httpClient *http.Client
	baseURL    string
	anonKey    string
}

// NewRemoteProvider asks GoTrue's /auth/v1/user endpoint who owns the token.
func NewRemoteProvider(baseURL, anonKey string, httpClient *http.Client) Provider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &remoteProvider{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		anonKey:    anonKey,
	}
}

type remoteUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		FullName string `json:"full_name"`
		Name     string `json:"name"`
	} `json:"user_metadata"`
}

func (p *remoteProvider) GetUser(ctx context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	var user remoteUser
	err := httpx.Retry(ctx, httpx.RetryPolicy{Attempts: 3}, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/auth/v1/user", nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if p.anonKey != "" {
			req.Header.Set("apikey", p.anonKey)
		}
		res, err := p.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()

		if err := httpx.CheckResponse(res, 5*time.Second); err != nil {
			return err
		}
		return json.NewDecoder(res.Body).Decode(&user)
	})
	if err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) && (se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden || se.StatusCode == http.StatusNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		return nil, fmt.Errorf("identity provider: %w", err)
	}

	id, err := uuid.Parse(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: user id is not a uuid", ErrInvalidToken)
	}
	name := user.UserMetadata.FullName
	if name == "" {
		name = user.UserMetadata.Name
	}
	return &Identity{ID: id, Email: strings.TrimSpace(user.Email), FullName: name}, nil
}
