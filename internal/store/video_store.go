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

type GetVideosParams struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type VideosResponse struct {
	Videos  []models.Video `json:"videos"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
	Total   int            `json:"total"`
	HasMore bool           `json:"has_more"`
}

type PostgresVideoStore struct {
	db *sql.DB
}

func NewPostgresVideoStore(db *sql.DB) *PostgresVideoStore {
	if db == nil {
		panic("db cannot be nil for PostgresVideoStore")
	}
	return &PostgresVideoStore{db: db}
}

type VideoStore interface {
	CreateVideo(ctx context.Context, video *models.Video) error
	MarkVideoErrored(ctx context.Context, videoID uuid.UUID) error
	GetVideoByID(ctx context.Context, videoID uuid.UUID) (*models.Video, error)
	GetVideosByUserID(ctx context.Context, userID uuid.UUID) ([]models.Video, error)
	GetReadyVideos(ctx context.Context, params GetVideosParams) (*VideosResponse, error)

	MarkVideoProcessing(ctx context.Context, videoID uuid.UUID, assetID string) (bool, error)
	AttachMuxAsset(ctx context.Context, videoID uuid.UUID, uploadID, assetID string) (bool, error)
	GetVideoByMuxAssetID(ctx context.Context, assetID string) (*models.Video, error)
	MarkVideoReady(ctx context.Context, videoID uuid.UUID, playback models.Playback) (bool, error)
}

const videoColumns = `
	id, title, user_id, status,
	mux_upload_id, mux_asset_id, mux_playback_id,
	video_link, duration, resolution, like_count,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVideo(row rowScanner) (*models.Video, error) {
	var video models.Video
	err := row.Scan(
		&video.ID,
		&video.Title,
		&video.UserID,
		&video.Status,
		&video.MuxUploadID,
		&video.MuxAssetID,
		&video.MuxPlaybackID,
		&video.VideoLink,
		&video.Duration,
		&video.Resolution,
		&video.LikeCount,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (pg *PostgresVideoStore) CreateVideo(ctx context.Context, video *models.Video) error {
	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}
	if video.Status == "" {
		video.Status = models.VideoStatusUploading
	}

	query := `
		INSERT INTO videos (id, title, user_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING like_count, created_at, updated_at
	`

	err := pg.db.QueryRowContext(ctx, query, video.ID, video.Title, video.UserID, string(video.Status)).
		Scan(&video.LikeCount, &video.CreatedAt, &video.UpdatedAt)
	if err != nil {
		err = translatePgError(err, "Video already exists", "User does not exist")
		return fmt.Errorf("failed to insert video: %w", err)
	}

	return nil
}

func (pg *PostgresVideoStore) MarkVideoErrored(ctx context.Context, videoID uuid.UUID) error {
	query := `
		UPDATE videos
		SET status = 'ERRORED', updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND status = 'UPLOADING'
	`

	_, err := pg.db.ExecContext(ctx, query, videoID)
	if err != nil {
		return fmt.Errorf("failed to mark video errored: %w", err)
	}
	return nil
}

func (pg *PostgresVideoStore) GetVideoByID(ctx context.Context, videoID uuid.UUID) (*models.Video, error) {
	query := `SELECT` + videoColumns + `
		FROM videos
		WHERE id = $1
	`

	video, err := scanVideo(pg.db.QueryRowContext(ctx, query, videoID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.Errorf(errs.ENOTFOUND, "Video not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan video: %w", err)
	}

	return video, nil
}

func (pg *PostgresVideoStore) GetVideosByUserID(ctx context.Context, userID uuid.UUID) ([]models.Video, error) {
	query := `SELECT` + videoColumns + `
		FROM videos
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := pg.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	videos := []models.Video{}
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, *video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}

	return videos, nil
}

func (pg *PostgresVideoStore) GetReadyVideos(ctx context.Context, params GetVideosParams) (*VideosResponse, error) {
	offset := (params.Page - 1) * params.Limit

	var total int
	err := pg.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos WHERE status = 'READY'`).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to get total video count: %w", err)
	}

	query := `SELECT` + videoColumns + `
		FROM videos
		WHERE status = 'READY'
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := pg.db.QueryContext(ctx, query, params.Limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	videos := []models.Video{}
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, *video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}

	return &VideosResponse{
		Videos:  videos,
		Page:    params.Page,
		Limit:   params.Limit,
		Total:   total,
		HasMore: offset+len(videos) < total,
	}, nil
}

// MarkVideoProcessing moves an UPLOADING video to PROCESSING and records the
// asset id if none is known yet. Later statuses are left alone. It reports
// false when no video has the given id.
func (pg *PostgresVideoStore) MarkVideoProcessing(ctx context.Context, videoID uuid.UUID, assetID string) (bool, error) {
	query := `
		UPDATE videos
		SET status = CASE WHEN status = 'UPLOADING' THEN 'PROCESSING' ELSE status END,
			mux_asset_id = COALESCE(mux_asset_id, NULLIF($2, '')),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	res, err := pg.db.ExecContext(ctx, query, videoID, assetID)
	if err != nil {
		return false, fmt.Errorf("failed to mark video processing: %w", err)
	}
	return affected(res)
}

func (pg *PostgresVideoStore) AttachMuxAsset(ctx context.Context, videoID uuid.UUID, uploadID, assetID string) (bool, error) {
	query := `
		UPDATE videos
		SET mux_upload_id = $2, mux_asset_id = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	res, err := pg.db.ExecContext(ctx, query, videoID, uploadID, assetID)
	if err != nil {
		return false, fmt.Errorf("failed to attach mux asset: %w", err)
	}
	return affected(res)
}

func (pg *PostgresVideoStore) GetVideoByMuxAssetID(ctx context.Context, assetID string) (*models.Video, error) {
	query := `SELECT` + videoColumns + `
		FROM videos
		WHERE mux_asset_id = $1
		LIMIT 1
	`

	video, err := scanVideo(pg.db.QueryRowContext(ctx, query, assetID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.Errorf(errs.ENOTFOUND, "No video for asset %s", assetID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan video: %w", err)
	}

	return video, nil
}

// MarkVideoReady sets READY and fills in the playback details. Details already
// written by an earlier ready event are kept. Errored videos are not revived.
func (pg *PostgresVideoStore) MarkVideoReady(ctx context.Context, videoID uuid.UUID, playback models.Playback) (bool, error) {
	query := `
		UPDATE videos
		SET status = 'READY',
			video_link = COALESCE(video_link, $2),
			mux_playback_id = COALESCE(mux_playback_id, $3),
			duration = COALESCE(duration, $4),
			resolution = COALESCE(resolution, NULLIF($5, '')),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND status <> 'ERRORED'
	`

	res, err := pg.db.ExecContext(ctx, query,
		videoID,
		playback.VideoLink,
		playback.PlaybackID,
		playback.Duration,
		playback.Resolution,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark video ready: %w", err)
	}
	return affected(res)
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}
