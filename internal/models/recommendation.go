// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Recommendation is a rating left on someone's CV. AuthorID is the
// recommender, not the CV's owner; only the author may change or delete it.
type Recommendation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CVID      uint      `gorm:"not null;index" json:"cv_id"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Rating    int       `gorm:"not null" json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
