package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SlotStatusPending   = "pending"
	SlotStatusConfirmed = "confirmed"
	SlotStatusExpired   = "expired"
)

// UploadSlot stages a signed upload until a content row references its object.
type UploadSlot struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Path        string     `gorm:"not null;uniqueIndex;column:path" json:"path"`
	PublicURL   string     `gorm:"not null;index;column:public_url" json:"public_url"`
	Prefix      string     `gorm:"not null;column:prefix" json:"prefix"`
	ContentType string     `gorm:"column:content_type" json:"content_type"`
	Status      string     `gorm:"not null;index;column:status" json:"status"`
	ItemID      *uuid.UUID `gorm:"type:uuid;column:item_id" json:"item_id"`
	ExpiresAt   time.Time  `gorm:"not null;index;column:expires_at" json:"expires_at"`
	ConfirmedAt *time.Time `gorm:"column:confirmed_at" json:"confirmed_at"`
	CreatedAt   time.Time  `gorm:"not null;column:created_at" json:"created_at"`
}

func (UploadSlot) TableName() string { return "upload_slots" }

func (s *UploadSlot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
