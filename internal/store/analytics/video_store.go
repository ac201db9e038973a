package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"
	"github.com/grvbrk/vidhook_server/internal/models"
)

type ClickhouseViewStore struct {
	conn driver.Conn
}

func NewClickhouseViewStore(conn driver.Conn) *ClickhouseViewStore {
	return &ClickhouseViewStore{conn: conn}
}

type DailyViews struct {
	Day   time.Time `json:"day"`
	Views uint64    `json:"views"`
}

type AnalyticsViewStore interface {
	RecordView(ctx context.Context, view *models.VideoView) error
	GetDailyViewsByVideoID(ctx context.Context, videoID uuid.UUID, days int) ([]DailyViews, error)
}

func (c *ClickhouseViewStore) RecordView(ctx context.Context, view *models.VideoView) error {
	row := models.ClickhouseView{
		VideoID:  view.VideoID.String(),
		UserID:   view.UserID.String(),
		ViewedAt: view.ViewedAt.UTC(),
	}

	err := c.conn.Exec(ctx, `
		INSERT INTO video_views (video_id, user_id, viewed_at)
		VALUES (?, ?, ?)
	`, row.VideoID, row.UserID, row.ViewedAt)
	if err != nil {
		return fmt.Errorf("failed to record view: %w", err)
	}
	return nil
}

func (c *ClickhouseViewStore) GetDailyViewsByVideoID(ctx context.Context, videoID uuid.UUID, days int) ([]DailyViews, error) {

	query := `
		SELECT toStartOfDay(viewed_at) AS day, count() AS views
		FROM video_views
		WHERE video_id = ? AND viewed_at >= now() - toIntervalDay(?)
		GROUP BY day
		ORDER BY day DESC
	`

	rows, err := c.conn.Query(ctx, query, videoID.String(), days)
	if err != nil {
		return nil, fmt.Errorf("failed to get video analytics: %w", err)
	}
	defer rows.Close()

	daily := []DailyViews{}

	for rows.Next() {
		var d DailyViews

		err := rows.Scan(&d.Day, &d.Views)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily views: %w", err)
		}
		daily = append(daily, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily views: %w", err)
	}

	return daily, nil
}
