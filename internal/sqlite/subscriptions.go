package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"

	"tubefeed/internal/tubefeed"
)

func (r Repo) Subscription(ctx context.Context, id string) (tubefeed.Subscription, error) {
	const q = `SELECT * FROM subscriptions WHERE id = ?;`

	var sub tubefeed.Subscription
	err := r.db.GetContext(ctx, &sub, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return tubefeed.Subscription{}, tubefeed.ErrNotFound
	}
	if err != nil {
		return tubefeed.Subscription{}, fmt.Errorf("error fetching subscription: %s", err)
	}

	return sub, nil
}

// AllSubscriptions retrieves _all_ subscriptions from the database.
func (r Repo) AllSubscriptions(ctx context.Context) ([]tubefeed.Subscription, error) {
	const q = `SELECT * FROM subscriptions;`

	var subs []tubefeed.Subscription
	if err := r.db.SelectContext(ctx, &subs, q); err != nil {
		return nil, fmt.Errorf("error selecting all subscriptions: %s", err)
	}

	return subs, nil
}

func (r Repo) InsertSubscription(ctx context.Context, sub tubefeed.Subscription) (tubefeed.Subscription, error) {
	const q = `INSERT INTO subscriptions (id, created_by, service_handler, subscription_handler, url, created_at, updated_at)
	VALUES (:id, :created_by, :service_handler, :subscription_handler, :url, :created_at, :updated_at);`

	_, err := r.db.NamedExecContext(ctx, q, sub)
	if sqliteErr := (&sqlite.Error{}); errors.As(err, &sqliteErr) && sqliteErr.Code() == 2067 {
		return tubefeed.Subscription{}, fmt.Errorf("subscription already exists: %w", tubefeed.ErrConflict)
	}
	if err != nil {
		return tubefeed.Subscription{}, fmt.Errorf("error inserting subscription: %s", err)
	}

	return r.Subscription(ctx, sub.ID)
}

func (r Repo) DeleteSubscription(ctx context.Context, id string) error {
	const q = `DELETE FROM subscriptions WHERE id = ?;`

	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("error deleting subscription: %s", err)
	}

	return nil
}
