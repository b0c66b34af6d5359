package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"

	"tubefeed/internal/tubefeed"
)

func (r Repo) Filter(ctx context.Context, id string) (tubefeed.Filter, error) {
	const q = `SELECT * FROM filters WHERE id = ?;`

	var f tubefeed.Filter
	err := r.db.GetContext(ctx, &f, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return tubefeed.Filter{}, tubefeed.ErrNotFound
	}
	if err != nil {
		return tubefeed.Filter{}, fmt.Errorf("error fetching filter: %s", err)
	}

	return f, nil
}

// AllFilters retrieves _all_ filters from the database.
func (r Repo) AllFilters(ctx context.Context) ([]tubefeed.Filter, error) {
	const q = `SELECT * FROM filters;`

	var filters []tubefeed.Filter
	if err := r.db.SelectContext(ctx, &filters, q); err != nil {
		return nil, fmt.Errorf("error selecting all filters: %s", err)
	}

	return filters, nil
}

func (r Repo) InsertFilter(ctx context.Context, f tubefeed.Filter) (tubefeed.Filter, error) {
	const q = `INSERT INTO filters (id, name, ordered_by, reverse_order, read_status, show_hidden_channels, created_at, updated_at)
	VALUES (:id, :name, :ordered_by, :reverse_order, :read_status, :show_hidden_channels, :created_at, :updated_at);`

	_, err := r.db.NamedExecContext(ctx, q, f)
	if sqliteErr := (&sqlite.Error{}); errors.As(err, &sqliteErr) && sqliteErr.Code() == 2067 {
		return tubefeed.Filter{}, fmt.Errorf("filter already exists: %w", tubefeed.ErrConflict)
	}
	if err != nil {
		return tubefeed.Filter{}, fmt.Errorf("error inserting filter: %s", err)
	}

	return r.Filter(ctx, f.ID)
}

func (r Repo) DeleteFilter(ctx context.Context, id string) error {
	const q = `DELETE FROM filters WHERE id = ?;`

	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("error deleting filter: %s", err)
	}

	return nil
}

func (r Repo) CriteriaForFilter(ctx context.Context, filterID string) ([]tubefeed.Criteria, error) {
	const q = `SELECT * FROM criterias WHERE filter_id = ? ORDER BY created_at;`

	var criterias []tubefeed.Criteria
	if err := r.db.SelectContext(ctx, &criterias, q, filterID); err != nil {
		return nil, fmt.Errorf("error fetching filter criterias: %s", err)
	}

	return criterias, nil
}

func (r Repo) InsertCriteria(ctx context.Context, c tubefeed.Criteria) (tubefeed.Criteria, error) {
	const q = `INSERT INTO criterias (id, filter_id, field, operator, value, unit_of_measure, created_at)
	VALUES (:id, :filter_id, :field, :operator, :value, :unit_of_measure, :created_at);`

	_, err := r.db.NamedExecContext(ctx, q, c)
	if sqliteErr := (&sqlite.Error{}); errors.As(err, &sqliteErr) && sqliteErr.Code() == 2067 {
		return tubefeed.Criteria{}, fmt.Errorf("criteria already exists: %w", tubefeed.ErrConflict)
	}
	if err != nil {
		return tubefeed.Criteria{}, fmt.Errorf("error inserting criteria: %s", err)
	}

	var got tubefeed.Criteria
	if err := r.db.GetContext(ctx, &got, `SELECT * FROM criterias WHERE id = ?;`, c.ID); err != nil {
		return tubefeed.Criteria{}, fmt.Errorf("error fetching criteria: %s", err)
	}

	return got, nil
}

func (r Repo) DeleteCriteria(ctx context.Context, id string) error {
	const q = `DELETE FROM criterias WHERE id = ?;`

	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("error deleting criteria: %s", err)
	}

	return nil
}

func (r Repo) SubscriptionsForFilter(ctx context.Context, filterID string) ([]tubefeed.Subscription, error) {
	const q = `SELECT subscriptions.* FROM subscriptions
	JOIN subscription_filters ON subscription_filters.subscription_id = subscriptions.id
	WHERE subscription_filters.filter_id = ?;`

	var subs []tubefeed.Subscription
	if err := r.db.SelectContext(ctx, &subs, q, filterID); err != nil {
		return nil, fmt.Errorf("error fetching filter subscriptions: %s", err)
	}

	return subs, nil
}

// AttachSubscriptionToFilter links a subscription to a filter. Attaching
// twice is a no-op.
func (r Repo) AttachSubscriptionToFilter(ctx context.Context, filterID, subscriptionID string) error {
	const q = `INSERT INTO subscription_filters (filter_id, subscription_id)
	VALUES (?, ?)
	ON CONFLICT (filter_id, subscription_id) DO NOTHING;`

	if _, err := r.db.ExecContext(ctx, q, filterID, subscriptionID); err != nil {
		return fmt.Errorf("error attaching subscription to filter: %s", err)
	}

	return nil
}
