// Package gcptest provides an in-memory BucketService for tests.
package gcptest

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/pianostudio-backend/internal/pkg/dbctx"
)

type Bucket struct {
	Name string

	SignErr   error
	UploadErr error
	DeleteErr error

	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	deleted []string
	signed  []string
}

func NewBucket(name string) *Bucket {
	return &Bucket{Name: name, objects: map[string][]byte{}, types: map[string]string{}}
}

func (b *Bucket) BucketName() string { return b.Name }

func (b *Bucket) SignedUploadURL(_ context.Context, key, contentType string, expires time.Time) (string, error) {
	if b.SignErr != nil {
		return "", b.SignErr
	}
	b.mu.Lock()
	b.signed = append(b.signed, key)
	b.mu.Unlock()
	return fmt.Sprintf("https://signed.test/%s/%s?X-Goog-Expires=%d&X-Goog-Signature=fake", b.Name, key, expires.Unix()), nil
}

func (b *Bucket) UploadFile(_ dbctx.Context, key string, file io.Reader, contentType string) error {
	if b.UploadErr != nil {
		return b.UploadErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	b.Put(key, data, contentType)
	return nil
}

// Put stores an object directly, as a client PUT to a signed URL would.
func (b *Bucket) Put(key string, data []byte, contentType string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	b.types[key] = contentType
}

func (b *Bucket) DeleteFile(_ context.Context, key string) error {
	if b.DeleteErr != nil {
		return b.DeleteErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	delete(b.types, key)
	b.deleted = append(b.deleted, key)
	return nil
}

func (b *Bucket) GetPublicURL(key string) string {
	return "https://storage.googleapis.com/" + b.Name + "/" + strings.TrimLeft(key, "/")
}

func (b *Bucket) KeyFromPublicURL(raw string) (string, bool) {
	prefix := "https://storage.googleapis.com/" + b.Name + "/"
	if !strings.HasPrefix(raw, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(raw, prefix)
	return key, key != ""
}

func (b *Bucket) EnsureBucket(context.Context) (bool, error) { return false, nil }

func (b *Bucket) Close() error { return nil }

func (b *Bucket) Object(key string) ([]byte, string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	return data, b.types[key], ok
}

func (b *Bucket) Deleted() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.deleted...)
}

func (b *Bucket) Signed() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.signed...)
}
