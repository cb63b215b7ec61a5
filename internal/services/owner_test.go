package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	types "github.com/yungbote/pianostudio-backend/internal/domain"
	"github.com/yungbote/pianostudio-backend/internal/platform/apierr"
)

func TestVerifyOwner(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.user("owner-token", "  Owner@Studio.TEST ")
	h.user("student-token", "student@studio.test")
	roleOwner := h.user("role-token", "instructor@studio.test")
	if err := h.repos.Profiles.Upsert(ctx, nil, &types.Profile{ID: roleOwner.ID, Email: roleOwner.Email, Role: types.RoleOwner}); err != nil {
		t.Fatalf("seed owner profile: %v", err)
	}

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"unknown token", "garbage", http.StatusUnauthorized},
		{"non owner", "student-token", http.StatusForbidden},
		{"owner by email", "owner-token", 0},
		{"owner by role", "role-token", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := h.owners.VerifyOwner(ctx, tt.token)
			if tt.status == 0 {
				if err != nil {
					t.Fatalf("VerifyOwner: %v", err)
				}
				if id == nil {
					t.Fatalf("VerifyOwner: nil identity")
				}
				return
			}
			if got := apierr.StatusOf(err); got != tt.status {
				t.Fatalf("status: want %d got=%d (err=%v)", tt.status, got, err)
			}
		})
	}
}

func TestAuthenticateProviderFailureIsUpstream(t *testing.T) {
	h := newHarness(t)
	h.idp.Err = errors.New("connection refused")
	_, err := h.owners.Authenticate(context.Background(), "anything")
	if got := apierr.StatusOf(err); got != http.StatusInternalServerError {
		t.Fatalf("status: want 500 got=%d", got)
	}
}

func TestEnsureProfileKeepsRole(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	id := h.user("tok", "keeper@studio.test")

	if _, err := h.owners.EnsureProfile(ctx, id); err != nil {
		t.Fatalf("EnsureProfile: %v", err)
	}
	if n, err := h.owners.GrantOwner(ctx, "KEEPER@studio.test"); err != nil || n != 1 {
		t.Fatalf("GrantOwner: n=%d err=%v", n, err)
	}
	p, err := h.owners.EnsureProfile(ctx, id)
	if err != nil {
		t.Fatalf("EnsureProfile again: %v", err)
	}
	if !p.IsOwner() {
		t.Fatalf("role lost on upsert: %+v", p)
	}
	if _, err := h.owners.VerifyOwner(ctx, "tok"); err != nil {
		t.Fatalf("VerifyOwner after grant: %v", err)
	}
}
