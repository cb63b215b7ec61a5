package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item is implemented by every content row. Callers resolve the concrete
// variant with a type switch.
type Item interface {
	ItemID() uuid.UUID
	ItemTitle() string
	ItemCreatedAt() time.Time
	Category() Category
	// AssetURLs lists the stored asset URLs referenced by the row.
	AssetURLs() []string
}

// Base carries the columns shared by all content tables.
type Base struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"not null;column:title" json:"title"`
	Description  *string   `gorm:"column:description" json:"description"`
	LearningTime string    `gorm:"not null;column:learning_time" json:"learning_time"`
	Plays        int64     `gorm:"not null;default:0;column:plays" json:"plays"`
	CreatedAt    time.Time `gorm:"not null;index;column:created_at" json:"created_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (b *Base) ItemID() uuid.UUID        { return b.ID }
func (b *Base) ItemTitle() string        { return b.Title }
func (b *Base) ItemCreatedAt() time.Time { return b.CreatedAt }

// SaveStats.SavesCount is read-only and only populated by catalog queries.
type SaveStats struct {
	SavesCount int64 `gorm:"->;-:migration;column:saves_count" json:"saves_count"`
}

const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"

	AspectRatioVideo    = "video"
	AspectRatioVertical = "vertical"
)

func ValidDifficulty(s string) bool {
	return s == DifficultyBeginner || s == DifficultyIntermediate || s == DifficultyAdvanced
}

func ValidAspectRatio(s string) bool {
	return s == AspectRatioVideo || s == AspectRatioVertical
}

func nonEmpty(urls ...*string) []string {
	out := []string{}
	for _, u := range urls {
		if u != nil && *u != "" {
			out = append(out, *u)
		}
	}
	return out
}
