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

type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	SyncUser(ctx context.Context, user *models.User) (bool, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByGoogleID(ctx context.Context, id string) (*models.User, error)
}

func (pg *PostgresUserStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
	INSERT INTO users (google_id, name, email, image)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at, updated_at;
	`
	err := pg.db.QueryRowContext(ctx, query, user.GoogleID, user.Name, user.Email, user.ImageSrc).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		err = translatePgError(err, "User already exists", "User not found")
		return fmt.Errorf("error running create user query: %w", err)
	}

	return nil
}

// SyncUser makes sure a row exists for user.ID. It reports whether the row
// was created by this call; an existing row is left as is.
func (pg *PostgresUserStore) SyncUser(ctx context.Context, user *models.User) (bool, error) {
	query := `
	INSERT INTO users (id, name, email, image)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO NOTHING
	`
	res, err := pg.db.ExecContext(ctx, query, user.ID, user.Name, user.Email, user.ImageSrc)
	if err != nil {
		return false, fmt.Errorf("error running sync user query: %w", err)
	}
	return affected(res)
}

const userColumns = `id, google_id, name, email, image, created_at, updated_at`

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.GoogleID,
		&user.Name,
		&user.Email,
		&user.ImageSrc,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (pg *PostgresUserStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(pg.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.Errorf(errs.ENOTFOUND, "User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("error running get user by id query: %w", err)
	}

	return user, nil
}

func (pg *PostgresUserStore) GetUserByGoogleID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`

	user, err := scanUser(pg.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.Errorf(errs.ENOTFOUND, "No user found with google id: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("error running get user by google id query: %w", err)
	}

	return user, nil
}
