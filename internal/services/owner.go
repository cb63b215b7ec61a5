package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/pianostudio-backend/internal/data/repos"
	types "github.com/yungbote/pianostudio-backend/internal/domain"
	"github.com/yungbote/pianostudio-backend/internal/platform/apierr"
	"github.com/yungbote/pianostudio-backend/internal/platform/identity"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
)

// OwnerService answers who is calling and whether they are the studio owner.
type OwnerService interface {
	// Authenticate resolves a bearer token to an identity.
	Authenticate(ctx context.Context, token string) (*identity.Identity, error)
	// VerifyOwner authenticates and then requires owner rights.
	VerifyOwner(ctx context.Context, token string) (*identity.Identity, error)
	IsOwner(ctx context.Context, id *identity.Identity) (bool, error)
	// EnsureProfile records the caller's profile row, keeping any existing role.
	EnsureProfile(ctx context.Context, id *identity.Identity) (*types.Profile, error)
	GrantOwner(ctx context.Context, email string) (int64, error)
}

type ownerService struct {
	log         *logger.Logger
	provider    identity.Provider
	profileRepo repos.ProfileRepo
	ownerEmail  string
}

func NewOwnerService(log *logger.Logger, provider identity.Provider, profileRepo repos.ProfileRepo, ownerEmail string) OwnerService {
	return &ownerService{
		log:         log.With("service", "OwnerService"),
		provider:    provider,
		profileRepo: profileRepo,
		ownerEmail:  normalizeEmail(ownerEmail),
	}
}

func (s *ownerService) Authenticate(ctx context.Context, token string) (*identity.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apierr.Unauthorized("Unauthorized")
	}
	id, err := s.provider.GetUser(ctx, token)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			return nil, apierr.Unauthorized("Unauthorized")
		}
		s.log.Warn("identity provider failed", "error", err)
		return nil, apierr.Upstream("identity_unavailable", fmt.Errorf("identity provider: %w", err))
	}
	if id == nil {
		return nil, apierr.Unauthorized("Unauthorized")
	}
	return id, nil
}

func (s *ownerService) VerifyOwner(ctx context.Context, token string) (*identity.Identity, error) {
	id, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	ok, err := s.IsOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apierr.Forbidden("Forbidden")
	}
	return id, nil
}

func (s *ownerService) IsOwner(ctx context.Context, id *identity.Identity) (bool, error) {
	if id == nil {
		return false, nil
	}
	if s.ownerEmail != "" && normalizeEmail(id.Email) == s.ownerEmail {
		return true, nil
	}
	profile, err := s.profileRepo.GetByID(ctx, nil, id.ID)
	if err != nil {
		s.log.Error("owner profile lookup failed", "user_id", id.ID, "error", err)
		return false, apierr.Upstream("profile_lookup_failed", fmt.Errorf("profile lookup: %w", err))
	}
	return profile.IsOwner(), nil
}

func (s *ownerService) EnsureProfile(ctx context.Context, id *identity.Identity) (*types.Profile, error) {
	if id == nil {
		return nil, apierr.Unauthorized("Unauthorized")
	}
	if err := s.profileRepo.Upsert(ctx, nil, &types.Profile{
		ID:       id.ID,
		Email:    id.Email,
		FullName: id.FullName,
	}); err != nil {
		return nil, storeError("profile_upsert_failed", err)
	}
	p, err := s.profileRepo.GetByID(ctx, nil, id.ID)
	if err != nil {
		return nil, storeError("profile_lookup_failed", err)
	}
	return p, nil
}

func (s *ownerService) GrantOwner(ctx context.Context, email string) (int64, error) {
	email = normalizeEmail(email)
	if email == "" {
		return 0, apierr.Validation("email required")
	}
	n, err := s.profileRepo.SetRoleByEmail(ctx, nil, email, types.RoleOwner)
	if err != nil {
		return 0, storeError("profile_update_failed", err)
	}
	s.log.Info("owner role granted", "email", email, "profiles", n)
	return n, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
