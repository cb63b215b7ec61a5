package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/yungbote/pianostudio-backend/internal/data/repos"
	types "github.com/yungbote/pianostudio-backend/internal/domain"
	"github.com/yungbote/pianostudio-backend/internal/domain/content"
	"github.com/yungbote/pianostudio-backend/internal/platform/apierr"
	"github.com/yungbote/pianostudio-backend/internal/platform/identity"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
)

type CommentService interface {
	List(ctx context.Context, itemID uuid.UUID, itemType string) ([]*types.CommentWithAuthor, error)
	Create(ctx context.Context, author *identity.Identity, itemID uuid.UUID, itemType, text string) (*types.CommentWithAuthor, error)
	// Delete is allowed for the comment's author or the owner.
	Delete(ctx context.Context, caller *identity.Identity, id uuid.UUID) error
}

type commentService struct {
	log         *logger.Logger
	commentRepo repos.CommentRepo
	itemRepo    repos.ItemRepo
	profileRepo repos.ProfileRepo
	owners      OwnerService
}

func NewCommentService(log *logger.Logger, commentRepo repos.CommentRepo, itemRepo repos.ItemRepo, profileRepo repos.ProfileRepo, owners OwnerService) CommentService {
	return &commentService{
		log:         log.With("service", "CommentService"),
		commentRepo: commentRepo,
		itemRepo:    itemRepo,
		profileRepo: profileRepo,
		owners:      owners,
	}
}

func (s *commentService) List(ctx context.Context, itemID uuid.UUID, itemType string) ([]*types.CommentWithAuthor, error) {
	if _, err := categoryForItemType(itemType); err != nil {
		return nil, err
	}
	if itemID == uuid.Nil {
		return nil, apierr.Validation("item_id required")
	}
	rows, err := s.commentRepo.ListForItem(ctx, nil, itemID, itemType)
	if err != nil {
		s.log.Error("list comments failed", "item_id", itemID, "error", err)
		return nil, storeError("comments_failed", fmt.Errorf("list comments: %w", err))
	}
	if rows == nil {
		rows = []*types.CommentWithAuthor{}
	}
	return rows, nil
}

func (s *commentService) Create(ctx context.Context, author *identity.Identity, itemID uuid.UUID, itemType, text string) (*types.CommentWithAuthor, error) {
	if author == nil {
		return nil, apierr.Unauthorized("Unauthorized")
	}
	category, err := categoryForItemType(itemType)
	if err != nil {
		return nil, err
	}
	if itemID == uuid.Nil {
		return nil, apierr.Validation("item_id required")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apierr.Validation("content required")
	}
	if utf8.RuneCountInString(text) > content.MaxCommentLength {
		return nil, apierr.Validation(fmt.Sprintf("content must be at most %d characters", content.MaxCommentLength))
	}

	item, err := s.itemRepo.GetByID(ctx, nil, category, itemID)
	if err != nil {
		return nil, storeError("item_lookup_failed", err)
	}
	if item == nil {
		return nil, apierr.NotFound(category.Label() + " not found")
	}

	if err := s.profileRepo.Upsert(ctx, nil, &types.Profile{ID: author.ID, Email: author.Email, FullName: author.FullName}); err != nil {
		s.log.Warn("profile upsert failed", "user_id", author.ID, "error", err)
	}

	c, err := s.commentRepo.Create(ctx, nil, &types.Comment{
		ItemID:   itemID,
		ItemType: itemType,
		UserID:   author.ID,
		Content:  text,
	})
	if err != nil {
		s.log.Error("create comment failed", "item_id", itemID, "error", err)
		return nil, storeError("comment_create_failed", fmt.Errorf("create comment: %w", err))
	}
	return &types.CommentWithAuthor{
		Comment: *c,
		Profile: content.CommentAuthor{Email: author.Email, FullName: author.FullName},
	}, nil
}

func (s *commentService) Delete(ctx context.Context, caller *identity.Identity, id uuid.UUID) error {
	if caller == nil {
		return apierr.Unauthorized("Unauthorized")
	}
	if id == uuid.Nil {
		return apierr.Validation("invalid id")
	}
	c, err := s.commentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return storeError("comment_lookup_failed", err)
	}
	if c == nil {
		return nil
	}
	if c.UserID != caller.ID {
		isOwner, err := s.owners.IsOwner(ctx, caller)
		if err != nil {
			return err
		}
		if !isOwner {
			return apierr.Forbidden("Forbidden")
		}
	}
	if err := s.commentRepo.Delete(ctx, nil, id); err != nil {
		s.log.Error("delete comment failed", "id", id, "error", err)
		return storeError("comment_delete_failed", fmt.Errorf("delete comment: %w", err))
	}
	return nil
}

func categoryForItemType(itemType string) (types.Category, error) {
	c, ok := content.ParseCategory(itemType)
	if !ok || c.ItemType() != itemType {
		return "", apierr.Validation("item_type must be video, sheet_music, technique_drill or beginner_plan")
	}
	return c, nil
}
