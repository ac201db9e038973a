package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type Dashboard struct {
	Videos      int `json:"videos"`
	Ready       int `json:"ready"`
	Processing  int `json:"processing"`
	Likes       int `json:"likes"`
	Views       int `json:"views"`
	Subscribers int `json:"subscribers"`
}

type PostgresDashboardStore struct {
	db *sql.DB
}

func NewPostgresDashboardStore(db *sql.DB) *PostgresDashboardStore {
	return &PostgresDashboardStore{db: db}
}

type DashboardStore interface {
	GetDashboardMetricsByUserID(ctx context.Context, userID uuid.UUID) (*Dashboard, error)
}

func (pg *PostgresDashboardStore) GetDashboardMetricsByUserID(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {

	var dashboard Dashboard

	query := `
		SELECT
			(SELECT COUNT(*) FROM videos WHERE user_id = $1) AS videos,
			(SELECT COUNT(*) FROM videos WHERE user_id = $1 AND status = 'READY') AS ready,
			(SELECT COUNT(*) FROM videos WHERE user_id = $1 AND status IN ('UPLOADING', 'PROCESSING')) AS processing,
			(SELECT COALESCE(SUM(like_count), 0) FROM videos WHERE user_id = $1) AS likes,
			(SELECT COUNT(*) FROM video_views vv JOIN videos v ON v.id = vv.video_id WHERE v.user_id = $1) AS views,
			(SELECT COUNT(*) FROM subscriptions WHERE subscribed_to_id = $1) AS subscribers;
	`

	err := pg.db.QueryRowContext(ctx, query, userID).Scan(
		&dashboard.Videos,
		&dashboard.Ready,
		&dashboard.Processing,
		&dashboard.Likes,
		&dashboard.Views,
		&dashboard.Subscribers,
	)
	if err != nil {
		return nil, fmt.Errorf("error getting dashboard metrics: %w", err)
	}

	return &dashboard, nil
}
