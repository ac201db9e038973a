package models

import (
	"time"

	"github.com/google/uuid"
)

type VideoStatus string

const (
	VideoStatusUploading  VideoStatus = "UPLOADING"
	VideoStatusProcessing VideoStatus = "PROCESSING"
	VideoStatusReady      VideoStatus = "READY"
	VideoStatusErrored    VideoStatus = "ERRORED"
)

// rank orders the forward lifecycle. ERRORED sits outside it.
func (s VideoStatus) rank() int {
	switch s {
	case VideoStatusUploading:
		return 1
	case VideoStatusProcessing:
		return 2
	case VideoStatusReady:
		return 3
	}
	return 0
}

// CanAdvanceTo reports whether moving from s to next keeps the lifecycle
// monotonic. Repeating the current status is allowed.
func (s VideoStatus) CanAdvanceTo(next VideoStatus) bool {
	if s == VideoStatusErrored || next == VideoStatusErrored {
		return s == next || s == VideoStatusUploading
	}
	return next.rank() >= s.rank()
}

type Video struct {
	ID            uuid.UUID   `json:"id"`
	Title         string      `json:"title"`
	UserID        uuid.UUID   `json:"user_id"`
	Status        VideoStatus `json:"status"`
	MuxUploadID   *string     `json:"mux_upload_id"`
	MuxAssetID    *string     `json:"mux_asset_id"`
	MuxPlaybackID *string     `json:"mux_playback_id"`
	VideoLink     *string     `json:"video_link"`
	Duration      *float64    `json:"duration"`
	Resolution    *string     `json:"resolution"`
	LikeCount     int         `json:"like_count"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Playback is what a ready asset contributes to its Video.
type Playback struct {
	PlaybackID string
	VideoLink  string
	Duration   float64
	Resolution string
}
