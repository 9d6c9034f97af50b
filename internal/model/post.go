package model

import (
	"time"

	"github.com/google/uuid"
)

// Post is a photo feed entry. The image itself lives in external storage.
type Post struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Caption   string
	ImageURL  string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	User User `gorm:"foreignKey:UserID"`
}
