package models

import (
	"time"

	"github.com/google/uuid"
)

type Like struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	VideoID   uuid.UUID `json:"video_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Comment struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	VideoID   uuid.UUID `json:"video_id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Subscription struct {
	ID             uuid.UUID `json:"id"`
	SubscriberID   uuid.UUID `json:"subscriber_id"`
	SubscribedToID uuid.UUID `json:"subscribed_to_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type VideoView struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	VideoID  uuid.UUID `json:"video_id"`
	ViewedAt time.Time `json:"viewed_at"`
}
