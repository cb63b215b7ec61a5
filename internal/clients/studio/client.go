// Package studio is the client side of the upload pipeline: it asks the API
// for a slot, moves the bytes straight to object storage and then records
// the metadata row.
package studio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/pianostudio-backend/internal/pkg/httpx"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
)

// ErrSlotExpired means the slot can no longer be used; request a new one.
var ErrSlotExpired = errors.New("upload slot expired")

type Slot struct {
	SignedURL   string    `json:"signedUrl"`
	Token       string    `json:"token"`
	Path        string    `json:"path"`
	PublicURL   string    `json:"publicUrl"`
	ContentType string    `json:"contentType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// APIError is a non-2xx answer from the studio API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("studio api %d %s: %s", e.StatusCode, e.Code, e.Message)
}

func (e *APIError) HTTPStatusCode() int { return e.StatusCode }

type Client struct {
	log        *logger.Logger
	httpClient *http.Client
	baseURL    string
	token      string
	now        func() time.Time
}

// New builds a client for the API at baseURL acting with the owner's access token.
func New(log *logger.Logger, baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Minute}
	}
	return &Client{
		log:        log.With("client", "StudioClient"),
		httpClient: httpClient,
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:      strings.TrimSpace(token),
		now:        time.Now,
	}
}

func (c *Client) RequestSlot(ctx context.Context, path, contentType string) (*Slot, error) {
	var slot Slot
	if err := c.call(ctx, 3, http.MethodPost, "/api/upload/signed-url", map[string]string{
		"path":        path,
		"contentType": contentType,
	}, &slot); err != nil {
		return nil, fmt.Errorf("request slot: %w", err)
	}
	return &slot, nil
}

// Relocate PUTs body to the slot's signed URL and returns the public URL of
// the stored object. Retryable failures retry the same slot until it expires.
func (c *Client) Relocate(ctx context.Context, slot *Slot, body io.ReadSeeker, contentType string) (string, error) {
	if slot == nil || slot.SignedURL == "" {
		return "", errors.New("relocate: slot required")
	}
	if contentType == "" {
		contentType = slot.ContentType
	}
	if !slot.ExpiresAt.IsZero() && !c.now().Before(slot.ExpiresAt) {
		return "", ErrSlotExpired
	}

	err := httpx.Retry(ctx, httpx.RetryPolicy{Attempts: 5, Base: 500 * time.Millisecond, Max: 10 * time.Second, Until: slot.ExpiresAt}, func(ctx context.Context) error {
		if _, err := body.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("rewind: %w", err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, slot.SignedURL, io.NopCloser(body))
		if err != nil {
			return err
		}
		if n, err := sizeOf(body); err == nil {
			req.ContentLength = n
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		res, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()
		return httpx.CheckResponse(res, 10*time.Second)
	})
	if err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusForbidden && !slot.ExpiresAt.IsZero() && !c.now().Before(slot.ExpiresAt) {
			return "", ErrSlotExpired
		}
		return "", fmt.Errorf("relocate %s: %w", slot.Path, err)
	}
	c.log.Debug("asset relocated", "path", slot.Path)
	return slot.PublicURL, nil
}

// Upload runs slot + relocate, asking for one fresh slot if the first expires.
func (c *Client) Upload(ctx context.Context, path string, body io.ReadSeeker, contentType string) (string, error) {
	for attempt := 0; attempt < 2; attempt++ {
		slot, err := c.RequestSlot(ctx, path, contentType)
		if err != nil {
			return "", err
		}
		publicURL, err := c.Relocate(ctx, slot, body, contentType)
		if errors.Is(err, ErrSlotExpired) {
			c.log.Warn("upload slot expired, requesting a new one", "path", slot.Path)
			continue
		}
		return publicURL, err
	}
	return "", ErrSlotExpired
}

// Create posts a metadata row to /api/upload/<kind> and decodes the stored row into out.
func (c *Client) Create(ctx context.Context, kind string, payload any, out any) error {
	switch kind {
	case "video", "sheet-music", "technique-drill", "beginner-plan":
	default:
		return fmt.Errorf("unknown content kind %q", kind)
	}
	// a create is not idempotent, so it is sent once
	if err := c.call(ctx, 1, http.MethodPost, "/api/upload/"+kind, payload, out); err != nil {
		return fmt.Errorf("create %s: %w", kind, err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, attempts int, method, path string, payload any, out any) error {
	var raw []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		raw = b
	}
	return httpx.Retry(ctx, httpx.RetryPolicy{Attempts: attempts}, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(raw))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		res, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()
		body, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
		if err != nil {
			return err
		}
		if res.StatusCode < 200 || res.StatusCode >= 300 {
			apiErr := &APIError{StatusCode: res.StatusCode, Message: strings.TrimSpace(string(body))}
			var env struct {
				Error struct {
					Message string `json:"message"`
					Code    string `json:"code"`
				} `json:"error"`
			}
			if json.Unmarshal(body, &env) == nil && env.Error.Message != "" {
				apiErr.Message, apiErr.Code = env.Error.Message, env.Error.Code
			}
			return apiErr
		}
		if out == nil {
			return nil
		}
		return json.Unmarshal(body, out)
	})
}

func sizeOf(s io.Seeker) (int64, error) {
	end, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	_, err = s.Seek(0, io.SeekStart)
	return end, err
}
