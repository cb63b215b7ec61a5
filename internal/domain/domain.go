package domain

import (
	"github.com/yungbote/pianostudio-backend/internal/domain/content"
	"github.com/yungbote/pianostudio-backend/internal/domain/user"
)

type Category = content.Category
type Item = content.Item

type Video = content.Video
type SheetMusic = content.SheetMusic
type TechniqueDrill = content.TechniqueDrill
type BeginnerPlan = content.BeginnerPlan

type SavedVideo = content.SavedVideo
type SavedSheetMusic = content.SavedSheetMusic
type SavedTechniqueDrill = content.SavedTechniqueDrill

type Comment = content.Comment
type CommentWithAuthor = content.CommentWithAuthor
type UploadSlot = content.UploadSlot

type Profile = user.Profile

const RoleOwner = user.RoleOwner

// Models lists every table owned by this service, in migration order.
func Models() []interface{} {
	return []interface{}{
		&user.Profile{},
		&content.Video{},
		&content.SheetMusic{},
		&content.TechniqueDrill{},
		&content.BeginnerPlan{},
		&content.SavedVideo{},
		&content.SavedSheetMusic{},
		&content.SavedTechniqueDrill{},
		&content.Comment{},
		&content.UploadSlot{},
	}
}
