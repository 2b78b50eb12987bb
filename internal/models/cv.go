// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Visibility controls who can read a CV.
type Visibility string

const (
	// VisibilityPublic makes a CV readable by anyone, authenticated or not.
	VisibilityPublic Visibility = "public"
	// VisibilityPrivate restricts reads to the CV's owner.
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is one of the known visibility values.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Experience is a single work experience entry on a CV.
// Dates are ISO dates (2006-01-02); EndDate is empty for a current position.
type Experience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
}

// Education is a single education entry on a CV.
type Education struct {
	School    string `json:"school"`
	Degree    string `json:"degree"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
}

// CV represents a curriculum vitae owned by a user. OwnerID is set from the
// authenticated user at creation time and never changes afterwards.
type CV struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	OwnerID     uint         `gorm:"not null;index" json:"owner_id"`
	Owner       *User        `gorm:"foreignKey:OwnerID" json:"-"`
	Title       string       `gorm:"not null" json:"title"`
	Summary     string       `gorm:"type:text" json:"summary"`
	Skills      []string     `gorm:"serializer:json" json:"skills"`
	Experiences []Experience `gorm:"serializer:json" json:"experiences"`
	Education   []Education  `gorm:"serializer:json" json:"education"`
	Visibility  Visibility   `gorm:"not null;default:public" json:"visibility"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
