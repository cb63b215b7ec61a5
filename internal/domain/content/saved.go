package content

import (
	"time"

	"github.com/google/uuid"
)

type SavedVideo struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	VideoID   uuid.UUID `gorm:"type:uuid;primaryKey;index;column:video_id" json:"video_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`
}

func (SavedVideo) TableName() string { return "saved_videos" }

type SavedSheetMusic struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	SheetMusicID uuid.UUID `gorm:"type:uuid;primaryKey;index;column:sheet_music_id" json:"sheet_music_id"`
	CreatedAt    time.Time `gorm:"not null;column:created_at" json:"created_at"`
}

func (SavedSheetMusic) TableName() string { return "saved_sheet_music" }

type SavedTechniqueDrill struct {
	UserID           uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	TechniqueDrillID uuid.UUID `gorm:"type:uuid;primaryKey;index;column:technique_drill_id" json:"technique_drill_id"`
	CreatedAt        time.Time `gorm:"not null;column:created_at" json:"created_at"`
}

func (SavedTechniqueDrill) TableName() string { return "saved_technique_drills" }

// NewSavedRelation builds the relation row for a saveable category.
func NewSavedRelation(c Category, userID, itemID uuid.UUID) (interface{}, bool) {
	now := time.Now().UTC()
	switch c {
	case CategoryVideos:
		return &SavedVideo{UserID: userID, VideoID: itemID, CreatedAt: now}, true
	case CategorySheetMusic:
		return &SavedSheetMusic{UserID: userID, SheetMusicID: itemID, CreatedAt: now}, true
	case CategoryTechniqueDrills:
		return &SavedTechniqueDrill{UserID: userID, TechniqueDrillID: itemID, CreatedAt: now}, true
	}
	return nil, false
}
