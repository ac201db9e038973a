package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/grvbrk/vidhook_server/internal/errs"
	"github.com/grvbrk/vidhook_server/internal/models"
)

type PostgresCommentStore struct {
	db *sql.DB
}

func NewPostgresCommentStore(db *sql.DB) *PostgresCommentStore {
	return &PostgresCommentStore{db: db}
}

// Update and delete are scoped to the author: a comment owned by someone
// else is reported as ENOTFOUND.
type CommentStore interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	UpdateComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, commentID uuid.UUID, userID uuid.UUID) error
	GetCommentsByVideoID(ctx context.Context, videoID uuid.UUID) ([]models.Comment, error)
}

func (p *PostgresCommentStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (user_id, video_id, comment)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := p.db.QueryRowContext(ctx, query, comment.UserID, comment.VideoID, comment.Comment).
		Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		err = translatePgError(err, "Comment already exists", "Video not found")
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

func (p *PostgresCommentStore) UpdateComment(ctx context.Context, comment *models.Comment) error {
	query := `
		UPDATE comments
		SET comment = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2
		RETURNING video_id, created_at, updated_at
	`
	err := p.db.QueryRowContext(ctx, query, comment.ID, comment.UserID, comment.Comment).
		Scan(&comment.VideoID, &comment.CreatedAt, &comment.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.Errorf(errs.ENOTFOUND, "Comment not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return nil
}

func (p *PostgresCommentStore) DeleteComment(ctx context.Context, commentID uuid.UUID, userID uuid.UUID) error {
	query := `
		DELETE FROM comments
		WHERE id = $1 AND user_id = $2
	`
	res, err := p.db.ExecContext(ctx, query, commentID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if ok, err := affected(res); err != nil {
		return err
	} else if !ok {
		return errs.Errorf(errs.ENOTFOUND, "Comment not found")
	}
	return nil
}

func (p *PostgresCommentStore) GetCommentsByVideoID(ctx context.Context, videoID uuid.UUID) ([]models.Comment, error) {
	query := `
		SELECT id, user_id, video_id, comment, created_at, updated_at
		FROM comments
		WHERE video_id = $1
		ORDER BY created_at DESC
	`
	rows, err := p.db.QueryContext(ctx, query, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		err := rows.Scan(&c.ID, &c.UserID, &c.VideoID, &c.Comment, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, nil
}
