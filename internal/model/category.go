package model

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a catalogue category.
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Image     string    `json:"image" db:"image"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CategoryRequest represents the payload for creating a category.
type CategoryRequest struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}
