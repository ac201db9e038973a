package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	GoogleID  *string   `json:"google_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ImageSrc  string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
