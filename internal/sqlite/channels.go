package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"modernc.org/sqlite"

	"tubefeed/internal/tubefeed"
)

func (r Repo) Channel(ctx context.Context, id string) (tubefeed.Channel, error) {
	const q = `SELECT * FROM channels WHERE id = ?;`

	var ch tubefeed.Channel
	err := r.db.GetContext(ctx, &ch, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return tubefeed.Channel{}, tubefeed.ErrNotFound
	}
	if err != nil {
		return tubefeed.Channel{}, fmt.Errorf("error fetching channel: %s", err)
	}

	return ch, nil
}

func (r Repo) ChannelByRemoteID(ctx context.Context, serviceHandler, remoteChannelID string) (tubefeed.Channel, error) {
	const q = `SELECT * FROM channels WHERE service_handler = ? AND remote_channel_id = ?;`

	var ch tubefeed.Channel
	err := r.db.GetContext(ctx, &ch, q, serviceHandler, remoteChannelID)
	if errors.Is(err, sql.ErrNoRows) {
		return tubefeed.Channel{}, tubefeed.ErrNotFound
	}
	if err != nil {
		return tubefeed.Channel{}, fmt.Errorf("error fetching channel: %s", err)
	}

	return ch, nil
}

// AllChannels retrieves _all_ channels from the database.
func (r Repo) AllChannels(ctx context.Context) ([]tubefeed.Channel, error) {
	const q = `SELECT * FROM channels;`

	var channels []tubefeed.Channel
	if err := r.db.SelectContext(ctx, &channels, q); err != nil {
		return nil, fmt.Errorf("error selecting all channels: %s", err)
	}

	return channels, nil
}

func (r Repo) InsertChannel(ctx context.Context, ch tubefeed.Channel) (tubefeed.Channel, error) {
	const q = `INSERT INTO channels (id, service_handler, remote_channel_id, name, logo, is_hidden, is_subscribed, created_at, updated_at)
	VALUES (:id, :service_handler, :remote_channel_id, :name, :logo, :is_hidden, :is_subscribed, :created_at, :updated_at);`

	_, err := r.db.NamedExecContext(ctx, q, ch)
	if sqliteErr := (&sqlite.Error{}); errors.As(err, &sqliteErr) && sqliteErr.Code() == 2067 {
		return tubefeed.Channel{}, fmt.Errorf("channel already exists: %w", tubefeed.ErrConflict)
	}
	if err != nil {
		return tubefeed.Channel{}, fmt.Errorf("error inserting channel: %s", err)
	}

	return r.Channel(ctx, ch.ID)
}

func (r Repo) UpdateChannel(ctx context.Context, id string, args tubefeed.UpdateChannelArgs) error {
	q := sq.Update("channels")
	if args.Logo != nil {
		q = q.Set("logo", *args.Logo)
	}
	if args.IsSubscribed != nil {
		q = q.Set("is_subscribed", *args.IsSubscribed)
	}
	if args.IsHidden != nil {
		q = q.Set("is_hidden", *args.IsHidden)
	}
	q = q.Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).Where(sq.Eq{"id": id})

	query, qArgs, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("error constructing sql: %s", err)
	}
	if _, err := r.db.ExecContext(ctx, query, qArgs...); err != nil {
		return fmt.Errorf("error executing channel update: %s", err)
	}

	return nil
}

// DeleteChannel removes the channel and every video it produced, returning
// the number of videos deleted.
func (r Repo) DeleteChannel(ctx context.Context, id string) (int, error) {
	ch, err := r.Channel(ctx, id)
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE remote_channel_id = ?;`, ch.RemoteChannelID)
	if err != nil {
		return 0, fmt.Errorf("error deleting channel videos: %s", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error counting deleted videos: %s", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM channels WHERE id = ?;`, id); err != nil {
		return 0, fmt.Errorf("error deleting channel: %s", err)
	}

	return int(deleted), nil
}

func (r Repo) TagsForChannel(ctx context.Context, channelID string) ([]tubefeed.Tag, error) {
	const q = `SELECT tags.* FROM tags
	JOIN channel_tags ON channel_tags.tag_id = tags.id
	WHERE channel_tags.channel_id = ?;`

	var tags []tubefeed.Tag
	if err := r.db.SelectContext(ctx, &tags, q, channelID); err != nil {
		return nil, fmt.Errorf("error fetching channel tags: %s", err)
	}

	return tags, nil
}
