package models

import "time"

// ClickhouseView is a row of the analytics video_views table.
type ClickhouseView struct {
	VideoID  string    `ch:"video_id"`
	UserID   string    `ch:"user_id"`
	ViewedAt time.Time `ch:"viewed_at"`
}
