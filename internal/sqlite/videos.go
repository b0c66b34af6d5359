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

func (r Repo) Video(ctx context.Context, id string) (tubefeed.Video, error) {
	const q = `SELECT * FROM videos WHERE id = ?;`

	var v tubefeed.Video
	err := r.db.GetContext(ctx, &v, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return tubefeed.Video{}, tubefeed.ErrNotFound
	}
	if err != nil {
		return tubefeed.Video{}, fmt.Errorf("error fetching video: %s", err)
	}

	return v, nil
}

func (r Repo) InsertVideo(ctx context.Context, v tubefeed.Video) (tubefeed.Video, error) {
	const q = `INSERT INTO videos (id, service_handler, title, description, duration, thumbnail, url, released_at, remote_channel_id, remote_channel_name, remote_video_id, is_read, created_at, updated_at)
	VALUES (:id, :service_handler, :title, :description, :duration, :thumbnail, :url, :released_at, :remote_channel_id, :remote_channel_name, :remote_video_id, :is_read, :created_at, :updated_at);`

	_, err := r.db.NamedExecContext(ctx, q, v)
	if sqliteErr := (&sqlite.Error{}); errors.As(err, &sqliteErr) && sqliteErr.Code() == 2067 {
		return tubefeed.Video{}, fmt.Errorf("video already exists: %w", tubefeed.ErrConflict)
	}
	if err != nil {
		return tubefeed.Video{}, fmt.Errorf("error inserting video: %s", err)
	}

	return r.Video(ctx, v.ID)
}

func (r Repo) MarkVideosRead(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sq.Update("videos").
		Set("is_read", true).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error constructing sql: %s", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("error marking videos read: %s", err)
	}

	return nil
}

func (r Repo) VideosForSubscription(ctx context.Context, subscriptionID string) ([]tubefeed.Video, error) {
	const q = `SELECT videos.* FROM videos
	JOIN subscription_videos ON subscription_videos.video_id = videos.id
	WHERE subscription_videos.subscription_id = ?;`

	var videos []tubefeed.Video
	if err := r.db.SelectContext(ctx, &videos, q, subscriptionID); err != nil {
		return nil, fmt.Errorf("error fetching subscription videos: %s", err)
	}

	return videos, nil
}

func (r Repo) VideoIDsForSubscription(ctx context.Context, subscriptionID string) ([]string, error) {
	const q = `SELECT video_id FROM subscription_videos WHERE subscription_id = ?;`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, q, subscriptionID); err != nil {
		return nil, fmt.Errorf("error fetching subscription video ids: %s", err)
	}

	return ids, nil
}

// AttachVideo links a video to a subscription. Attaching twice is a no-op.
func (r Repo) AttachVideo(ctx context.Context, subscriptionID, videoID string) error {
	const q = `INSERT INTO subscription_videos (subscription_id, video_id)
	VALUES (?, ?)
	ON CONFLICT (subscription_id, video_id) DO NOTHING;`

	if _, err := r.db.ExecContext(ctx, q, subscriptionID, videoID); err != nil {
		return fmt.Errorf("error attaching video: %s", err)
	}

	return nil
}

func (r Repo) CountUnreadVideos(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM videos WHERE is_read = FALSE;`

	var count int
	if err := r.db.GetContext(ctx, &count, q); err != nil {
		return 0, fmt.Errorf("error counting unread videos: %s", err)
	}

	return count, nil
}
