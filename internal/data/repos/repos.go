package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/pianostudio-backend/internal/data/repos/content"
	"github.com/yungbote/pianostudio-backend/internal/data/repos/user"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
)

type ItemRepo = content.ItemRepo
type AssetRef = content.AssetRef
type SavedRepo = content.SavedRepo
type CommentRepo = content.CommentRepo
type UploadSlotRepo = content.UploadSlotRepo
type ProfileRepo = user.ProfileRepo

var (
	NewItemRepo       = content.NewItemRepo
	NewSavedRepo      = content.NewSavedRepo
	NewCommentRepo    = content.NewCommentRepo
	NewUploadSlotRepo = content.NewUploadSlotRepo
	NewProfileRepo    = user.NewProfileRepo
)

// Repos is the full set of stores backed by one database handle.
type Repos struct {
	Items       ItemRepo
	Saved       SavedRepo
	Comments    CommentRepo
	UploadSlots UploadSlotRepo
	Profiles    ProfileRepo
}

func New(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Items:       NewItemRepo(db, log),
		Saved:       NewSavedRepo(db, log),
		Comments:    NewCommentRepo(db, log),
		UploadSlots: NewUploadSlotRepo(db, log),
		Profiles:    NewProfileRepo(db, log),
	}
}
