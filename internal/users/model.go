package users

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Lname     string    `gorm:"size:50" json:"lname,omitempty"`
	Number    string    `gorm:"size:10;uniqueIndex;not null" json:"number"`
	Gname     string    `json:"gname,omitempty"`
	Password  string    `gorm:"not null" json:"-"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
