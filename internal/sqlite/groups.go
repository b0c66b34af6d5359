package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"

	"tubefeed/internal/tubefeed"
)

func (r Repo) FilterGroup(ctx context.Context, id string) (tubefeed.FilterGroup, error) {
	const q = `SELECT * FROM filter_groups WHERE id = ?;`

	var g tubefeed.FilterGroup
	err := r.db.GetContext(ctx, &g, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return tubefeed.FilterGroup{}, tubefeed.ErrNotFound
	}
	if err != nil {
		return tubefeed.FilterGroup{}, fmt.Errorf("error fetching filter group: %s", err)
	}

	return g, nil
}

// AllFilterGroups retrieves _all_ filter groups from the database.
func (r Repo) AllFilterGroups(ctx context.Context) ([]tubefeed.FilterGroup, error) {
	const q = `SELECT * FROM filter_groups;`

	var groups []tubefeed.FilterGroup
	if err := r.db.SelectContext(ctx, &groups, q); err != nil {
		return nil, fmt.Errorf("error selecting all filter groups: %s", err)
	}

	return groups, nil
}

func (r Repo) InsertFilterGroup(ctx context.Context, g tubefeed.FilterGroup) (tubefeed.FilterGroup, error) {
	const q = `INSERT INTO filter_groups (id, name, ordered_filter_ids, created_at, updated_at)
	VALUES (:id, :name, :ordered_filter_ids, :created_at, :updated_at);`

	_, err := r.db.NamedExecContext(ctx, q, g)
	if sqliteErr := (&sqlite.Error{}); errors.As(err, &sqliteErr) && sqliteErr.Code() == 2067 {
		return tubefeed.FilterGroup{}, fmt.Errorf("filter group already exists: %w", tubefeed.ErrConflict)
	}
	if err != nil {
		return tubefeed.FilterGroup{}, fmt.Errorf("error inserting filter group: %s", err)
	}

	return r.FilterGroup(ctx, g.ID)
}

func (r Repo) DeleteFilterGroup(ctx context.Context, id string) error {
	const q = `DELETE FROM filter_groups WHERE id = ?;`

	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("error deleting filter group: %s", err)
	}

	return nil
}

func (r Repo) FiltersForGroup(ctx context.Context, groupID string) ([]tubefeed.Filter, error) {
	const q = `SELECT filters.* FROM filters
	JOIN filter_group_filters ON filter_group_filters.filter_id = filters.id
	WHERE filter_group_filters.filter_group_id = ?;`

	var filters []tubefeed.Filter
	if err := r.db.SelectContext(ctx, &filters, q, groupID); err != nil {
		return nil, fmt.Errorf("error fetching group filters: %s", err)
	}

	return filters, nil
}

// AttachFilterToGroup links a filter to a group. Attaching twice is a no-op.
func (r Repo) AttachFilterToGroup(ctx context.Context, groupID, filterID string) error {
	const q = `INSERT INTO filter_group_filters (filter_group_id, filter_id)
	VALUES (?, ?)
	ON CONFLICT (filter_group_id, filter_id) DO NOTHING;`

	if _, err := r.db.ExecContext(ctx, q, groupID, filterID); err != nil {
		return fmt.Errorf("error attaching filter to group: %s", err)
	}

	return nil
}
