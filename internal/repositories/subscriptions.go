package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/models"
)

// PostgresSubscriptionRepository persists channel subscriptions.
type PostgresSubscriptionRepository struct {
	pool db.Pool
	now  func() time.Time
}

// NewPostgresSubscriptionRepository constructs a subscription repository backed by PostgreSQL.
func NewPostgresSubscriptionRepository(pool db.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool, now: time.Now}
}

// ToggleSubscription removes the subscription of subscriberID to channelID when
// it exists and creates it otherwise. It reports whether the subscription
// exists afterwards.
func (r *PostgresSubscriptionRepository) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error) {
	var active bool
	err := runInTx(ctx, r.pool, func(tx pgx.Tx) error {
		const remove = `DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`

		tag, err := tx.Exec(ctx, remove, subscriberID, channelID)
		if err != nil {
			return fmt.Errorf("delete subscription: %w", err)
		}
		if tag.RowsAffected() > 0 {
			active = false
			return nil
		}

		tag, err = tx.Exec(ctx, `
            INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at)
            VALUES ($3, $1, $2, $4)
            ON CONFLICT (subscriber_id, channel_id) DO NOTHING
        `, subscriberID, channelID, uuid.NewString(), r.now().UTC())
		if err != nil {
			return fmt.Errorf("insert subscription: %w", err)
		}
		if tag.RowsAffected() > 0 {
			active = true
			return nil
		}

		// A concurrent toggle subscribed first; this toggle undoes it.
		if _, err := tx.Exec(ctx, remove, subscriberID, channelID); err != nil {
			return fmt.Errorf("delete subscription: %w", err)
		}
		active = false
		return nil
	})
	if err != nil {
		return false, err
	}

	return active, nil
}

// ListSubscribers returns the subscriptions whose channel is channelID, each
// with the subscriber's contact.
func (r *PostgresSubscriptionRepository) ListSubscribers(ctx context.Context, channelID string) ([]models.SubscriberEntry, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT s.id, s.subscriber_id, s.channel_id, s.created_at,
               u.id, u.full_name, u.email
        FROM subscriptions s
        LEFT JOIN users u ON u.id = s.subscriber_id
        WHERE s.channel_id = $1
        ORDER BY s.created_at DESC, s.id DESC
    `, channelID)
	if err != nil {
		return nil, fmt.Errorf("query subscribers: %w", err)
	}
	defer rows.Close()

	entries := []models.SubscriberEntry{}
	for rows.Next() {
		var (
			entry   models.SubscriberEntry
			contact contactColumns
		)
		dest := append(subscriptionDest(&entry.Subscription), contact.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		entry.Subscriber = contact.contact()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscribers: %w", err)
	}

	return entries, nil
}

// ListSubscriptions returns the subscriptions held by subscriberID, each with
// the channel's contact.
func (r *PostgresSubscriptionRepository) ListSubscriptions(ctx context.Context, subscriberID string) ([]models.SubscribedChannelEntry, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT s.id, s.subscriber_id, s.channel_id, s.created_at,
               u.id, u.full_name, u.email
        FROM subscriptions s
        LEFT JOIN users u ON u.id = s.channel_id
        WHERE s.subscriber_id = $1
        ORDER BY s.created_at DESC, s.id DESC
    `, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer rows.Close()

	entries := []models.SubscribedChannelEntry{}
	for rows.Next() {
		var (
			entry   models.SubscribedChannelEntry
			contact contactColumns
		)
		dest := append(subscriptionDest(&entry.Subscription), contact.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		entry.Channel = contact.contact()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriptions: %w", err)
	}

	return entries, nil
}

func subscriptionDest(s *models.Subscription) []any {
	return []any{&s.ID, &s.SubscriberID, &s.ChannelID, &s.CreatedAt}
}
