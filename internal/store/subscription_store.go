package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/grvbrk/vidhook_server/internal/errs"
	"github.com/grvbrk/vidhook_server/internal/models"
)

type PostgresSubscriptionStore struct {
	db *sql.DB
}

func NewPostgresSubscriptionStore(db *sql.DB) *PostgresSubscriptionStore {
	return &PostgresSubscriptionStore{db: db}
}

type SubscriptionStore interface {
	CreateSubscription(ctx context.Context, subscriberID uuid.UUID, subscribedToID uuid.UUID) (*models.Subscription, error)
	DeleteSubscription(ctx context.Context, subscriberID uuid.UUID, subscribedToID uuid.UUID) error
}

func (p *PostgresSubscriptionStore) CreateSubscription(ctx context.Context, subscriberID uuid.UUID, subscribedToID uuid.UUID) (*models.Subscription, error) {
	if subscriberID == subscribedToID {
		return nil, errs.Errorf(errs.EINVALID, "You cannot subscribe to yourself")
	}

	sub := &models.Subscription{SubscriberID: subscriberID, SubscribedToID: subscribedToID}

	query := `
		INSERT INTO subscriptions (subscriber_id, subscribed_to_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := p.db.QueryRowContext(ctx, query, subscriberID, subscribedToID).Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		err = translatePgError(err, "Already subscribed", "User not found")
		return nil, fmt.Errorf("failed to insert subscription: %w", err)
	}

	return sub, nil
}

func (p *PostgresSubscriptionStore) DeleteSubscription(ctx context.Context, subscriberID uuid.UUID, subscribedToID uuid.UUID) error {
	query := `
		DELETE FROM subscriptions
		WHERE subscriber_id = $1 AND subscribed_to_id = $2
	`
	res, err := p.db.ExecContext(ctx, query, subscriberID, subscribedToID)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	if ok, err := affected(res); err != nil {
		return err
	} else if !ok {
		return errs.Errorf(errs.ENOTFOUND, "Subscription not found")
	}
	return nil
}
