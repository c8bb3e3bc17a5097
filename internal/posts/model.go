package posts

import (
	"time"

	"github.com/sokrith/blogmesh-core/internal/users"
)

type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Body        string     `gorm:"not null" json:"body"`
	CreatedByID uint       `gorm:"not null" json:"-"`
	CreatedBy   users.User `gorm:"foreignKey:CreatedByID" json:"-"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
