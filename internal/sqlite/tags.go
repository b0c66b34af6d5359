package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"modernc.org/sqlite"

	"tubefeed/internal/tubefeed"
)

// AllTags retrieves _all_ tags from the database.
func (r Repo) AllTags(ctx context.Context) ([]tubefeed.Tag, error) {
	const q = `SELECT * FROM tags;`

	var tags []tubefeed.Tag
	if err := r.db.SelectContext(ctx, &tags, q); err != nil {
		return nil, fmt.Errorf("error selecting all tags: %s", err)
	}

	return tags, nil
}

func (r Repo) InsertTag(ctx context.Context, name string) (tubefeed.Tag, error) {
	const q = `INSERT INTO tags (id, name) VALUES (:id, :name);`

	t := tubefeed.Tag{
		ID:   uuid.NewString(),
		Name: name,
	}
	_, err := r.db.NamedExecContext(ctx, q, t)
	if sqliteErr := (&sqlite.Error{}); errors.As(err, &sqliteErr) && sqliteErr.Code() == 2067 {
		return tubefeed.Tag{}, fmt.Errorf("tag already exists: %w", tubefeed.ErrConflict)
	}
	if err != nil {
		return tubefeed.Tag{}, fmt.Errorf("error inserting tag: %s", err)
	}

	return t, nil
}

// TagChannel applies a tag to a channel. Tagging twice is a no-op.
func (r Repo) TagChannel(ctx context.Context, channelID, tagID string) error {
	const q = `INSERT INTO channel_tags (channel_id, tag_id)
	VALUES (?, ?)
	ON CONFLICT (channel_id, tag_id) DO NOTHING;`

	if _, err := r.db.ExecContext(ctx, q, channelID, tagID); err != nil {
		return fmt.Errorf("error tagging channel: %s", err)
	}

	return nil
}

func (r Repo) UntagChannel(ctx context.Context, channelID, tagID string) error {
	const q = `DELETE FROM channel_tags WHERE channel_id = ? AND tag_id = ?;`

	if _, err := r.db.ExecContext(ctx, q, channelID, tagID); err != nil {
		return fmt.Errorf("error untagging channel: %s", err)
	}

	return nil
}
