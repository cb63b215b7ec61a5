// Package ctxutil carries per-request values through context.Context.
package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type requestKey struct{}

// Request is attached once by the HTTP stack; Caller stays nil on public routes.
type Request struct {
	ID      string
	TraceID string
	Caller  *Caller
}

// Caller is the authenticated account behind a request.
type Caller struct {
	ID       uuid.UUID
	Email    string
	FullName string
	IsOwner  bool
}

func WithRequest(ctx context.Context, r *Request) context.Context {
	return context.WithValue(ctx, requestKey{}, r)
}

func RequestFrom(ctx context.Context) *Request {
	if ctx == nil {
		return nil
	}
	r, _ := ctx.Value(requestKey{}).(*Request)
	return r
}

// WithCaller returns a context whose Request is a copy of the current one with
// c attached. The parent's Request is left untouched.
func WithCaller(ctx context.Context, c *Caller) context.Context {
	next := Request{}
	if cur := RequestFrom(ctx); cur != nil {
		next = *cur
	}
	next.Caller = c
	return WithRequest(ctx, &next)
}

func CallerFrom(ctx context.Context) *Caller {
	if r := RequestFrom(ctx); r != nil {
		return r.Caller
	}
	return nil
}
