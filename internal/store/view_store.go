package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/grvbrk/vidhook_server/internal/models"
)

type PostgresViewStore struct {
	db *sql.DB
}

func NewPostgresViewStore(db *sql.DB) *PostgresViewStore {
	return &PostgresViewStore{db: db}
}

type ViewStore interface {
	CreateView(ctx context.Context, videoID uuid.UUID, userID uuid.UUID) (*models.VideoView, error)
}

// CreateView appends a view row. Views are not deduplicated.
func (p *PostgresViewStore) CreateView(ctx context.Context, videoID uuid.UUID, userID uuid.UUID) (*models.VideoView, error) {
	view := &models.VideoView{UserID: userID, VideoID: videoID}

	query := `
		INSERT INTO video_views (video_id, user_id)
		VALUES ($1, $2)
		RETURNING id, viewed_at
	`
	err := p.db.QueryRowContext(ctx, query, videoID, userID).Scan(&view.ID, &view.ViewedAt)
	if err != nil {
		err = translatePgError(err, "View already recorded", "Video not found")
		return nil, fmt.Errorf("failed to insert view: %w", err)
	}

	return view, nil
}
