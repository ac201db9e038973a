package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/grvbrk/vidhook_server/internal/errs"
	"github.com/grvbrk/vidhook_server/internal/models"
)

type PostgresLikeStore struct {
	db *sql.DB
}

func NewPostgresLikeStore(db *sql.DB) *PostgresLikeStore {
	return &PostgresLikeStore{db: db}
}

type LikeStore interface {
	CreateLike(ctx context.Context, videoID uuid.UUID, userID uuid.UUID) (*models.Like, error)
	DeleteLike(ctx context.Context, videoID uuid.UUID, userID uuid.UUID) error
}

// CreateLike stores the like and bumps the video's like_count in one
// transaction. A second like by the same user is an ECONFLICT and leaves the
// counter untouched.
func (p *PostgresLikeStore) CreateLike(ctx context.Context, videoID uuid.UUID, userID uuid.UUID) (*models.Like, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer tx.Rollback()

	like := &models.Like{UserID: userID, VideoID: videoID}

	query := `
		INSERT INTO likes (video_id, user_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err = tx.QueryRowContext(ctx, query, videoID, userID).Scan(&like.ID, &like.CreatedAt)
	if err != nil {
		err = translatePgError(err, "Video already liked", "Video not found")
		return nil, fmt.Errorf("failed to insert like: %w", err)
	}

	query = `
		UPDATE videos
		SET like_count = like_count + 1
		WHERE id = $1
	`
	res, err := tx.ExecContext(ctx, query, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to update like count: %w", err)
	}
	if ok, err := affected(res); err != nil {
		return nil, err
	} else if !ok {
		return nil, errs.Errorf(errs.ENOTFOUND, "Video not found")
	}

	err = tx.Commit()
	if err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return like, nil
}

// DeleteLike removes the like and decrements like_count only when a like was
// actually removed.
func (p *PostgresLikeStore) DeleteLike(ctx context.Context, videoID uuid.UUID, userID uuid.UUID) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer tx.Rollback()

	query := `
		DELETE FROM likes
		WHERE video_id = $1 AND user_id = $2
	`
	res, err := tx.ExecContext(ctx, query, videoID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	if ok, err := affected(res); err != nil {
		return err
	} else if !ok {
		return errs.Errorf(errs.ENOTFOUND, "Like not found")
	}

	query = `
		UPDATE videos
		SET like_count = GREATEST(like_count - 1, 0)
		WHERE id = $1
	`
	_, err = tx.ExecContext(ctx, query, videoID)
	if err != nil {
		return fmt.Errorf("failed to update like count: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
