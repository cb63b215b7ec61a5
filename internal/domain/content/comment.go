package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxCommentLength = 2000

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;index:idx_comments_item,priority:1;column:item_id" json:"item_id"`
	ItemType  string    `gorm:"not null;index:idx_comments_item,priority:2;column:item_type" json:"item_type"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Content   string    `gorm:"not null;column:content" json:"content"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`
}

func (Comment) TableName() string { return "comments" }

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CommentAuthor is the subset of the author's profile returned with a comment.
type CommentAuthor struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// CommentWithAuthor is the read shape of a comment joined with its author.
type CommentWithAuthor struct {
	Comment
	Profile CommentAuthor `json:"profiles"`
}
