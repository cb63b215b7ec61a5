package user

import (
	"time"

	"github.com/google/uuid"
)

const RoleOwner = "owner"

// Profile mirrors the identity provider's user; ID is the identity subject.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"index;column:email" json:"email"`
	FullName  string    `gorm:"column:full_name" json:"full_name"`
	Role      string    `gorm:"column:role" json:"role"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`
}

func (Profile) TableName() string { return "profiles" }

func (p *Profile) IsOwner() bool { return p != nil && p.Role == RoleOwner }
