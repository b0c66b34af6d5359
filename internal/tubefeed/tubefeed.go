// Package tubefeed holds the core domain types for the video-subscription
// aggregator: channels, videos, subscriptions, filters, and the repository
// surface everything else is written against.
package tubefeed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConflict = errors.New("resource already exists")
	ErrNotFound = errors.New("resource not found")
)

type (
	// Channel is a content creator tracked within a provider. Channels are
	// created lazily the first time a video from an unseen channel is
	// ingested, never by the filtering path.
	Channel struct {
		ID              string    `db:"id"`
		ServiceHandler  string    `db:"service_handler"`
		RemoteChannelID string    `db:"remote_channel_id"`
		Name            string    `db:"name"`
		Logo            *string   `db:"logo"`
		IsHidden        bool      `db:"is_hidden"`
		IsSubscribed    bool      `db:"is_subscribed"`
		CreatedAt       time.Time `db:"created_at"`
		UpdatedAt       time.Time `db:"updated_at"`
	}

	// Video is one piece of content metadata pulled from a provider feed.
	// Its id is a pure function of the canonical URL, so re-ingesting the
	// same URL never creates a duplicate row.
	Video struct {
		ID                string     `db:"id"`
		ServiceHandler    string     `db:"service_handler"`
		Title             string     `db:"title"`
		Description       string     `db:"description"`
		Duration          *int64     `db:"duration"` // seconds; nil when the provider didn't report one
		Thumbnail         string     `db:"thumbnail"`
		URL               string     `db:"url"`
		ReleasedAt        *time.Time `db:"released_at"`
		RemoteChannelID   string     `db:"remote_channel_id"`
		RemoteChannelName string     `db:"remote_channel_name"`
		RemoteVideoID     string     `db:"remote_video_id"`
		IsRead            bool       `db:"is_read"`
		CreatedAt         time.Time  `db:"created_at"`
		UpdatedAt         time.Time  `db:"updated_at"`
	}

	// Subscription is a user's registration to a provider feed. URL is
	// optional: when empty the subscription handler's fixed feed URL is
	// used, when set it points at a single channel's feed.
	Subscription struct {
		ID                  string    `db:"id"`
		CreatedBy           string    `db:"created_by"`
		ServiceHandler      string    `db:"service_handler"`
		SubscriptionHandler string    `db:"subscription_handler"`
		URL                 *string   `db:"url"`
		CreatedAt           time.Time `db:"created_at"`
		UpdatedAt           time.Time `db:"updated_at"`
	}

	// Tag is a user-assigned label on a channel, referenced by channel-tag
	// criteria.
	Tag struct {
		ID   string `db:"id"`
		Name string `db:"name"`
	}

	// FetchResults aggregates counts across one or more ingestion runs.
	FetchResults struct {
		Subscriptions int `json:"subscriptions"`
		AddedVideos   int `json:"added_videos"`
		DeletedVideos int `json:"deleted_videos"`
	}
)

// Add combines two result sets with simple addition.
func (r FetchResults) Add(other FetchResults) FetchResults {
	return FetchResults{
		Subscriptions: r.Subscriptions + other.Subscriptions,
		AddedVideos:   r.AddedVideos + other.AddedVideos,
		DeletedVideos: r.DeletedVideos + other.DeletedVideos,
	}
}

// VideoID derives the deterministic id for a canonicalized video URL.
func VideoID(canonicalURL string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(canonicalURL)).String()
}

// ChannelID derives the deterministic id for a provider's remote channel id.
func ChannelID(remoteChannelID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(remoteChannelID)).String()
}

// SubscriptionID derives the deterministic id for a provider + subscription
// handler + owner triple, so registering the same feed twice collides.
func SubscriptionID(serviceHandler, subscriptionHandler, createdBy string) string {
	key := fmt.Sprintf("%s-%s-%s", serviceHandler, subscriptionHandler, createdBy)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

type (
	// UpdateChannelArgs holds the optional fields for updating a channel.
	// Zero values are left untouched.
	UpdateChannelArgs struct {
		Logo         *string
		IsSubscribed *bool
		IsHidden     *bool
	}

	ChannelRepo interface {
		Channel(ctx context.Context, id string) (Channel, error)
		ChannelByRemoteID(ctx context.Context, serviceHandler, remoteChannelID string) (Channel, error)
		AllChannels(ctx context.Context) ([]Channel, error)
		InsertChannel(ctx context.Context, ch Channel) (Channel, error)
		UpdateChannel(ctx context.Context, id string, args UpdateChannelArgs) error
		// DeleteChannel removes the channel and its videos, reporting how
		// many videos went with it.
		DeleteChannel(ctx context.Context, id string) (int, error)
		TagsForChannel(ctx context.Context, channelID string) ([]Tag, error)
		AllTags(ctx context.Context) ([]Tag, error)
		InsertTag(ctx context.Context, name string) (Tag, error)
		TagChannel(ctx context.Context, channelID, tagID string) error
		UntagChannel(ctx context.Context, channelID, tagID string) error
	}

	VideoRepo interface {
		Video(ctx context.Context, id string) (Video, error)
		InsertVideo(ctx context.Context, v Video) (Video, error)
		MarkVideosRead(ctx context.Context, ids []string) error
		VideosForSubscription(ctx context.Context, subscriptionID string) ([]Video, error)
		VideoIDsForSubscription(ctx context.Context, subscriptionID string) ([]string, error)
		AttachVideo(ctx context.Context, subscriptionID, videoID string) error
		CountUnreadVideos(ctx context.Context) (int, error)
	}

	SubscriptionRepo interface {
		Subscription(ctx context.Context, id string) (Subscription, error)
		AllSubscriptions(ctx context.Context) ([]Subscription, error)
		InsertSubscription(ctx context.Context, sub Subscription) (Subscription, error)
		DeleteSubscription(ctx context.Context, id string) error
	}

	FilterRepo interface {
		Filter(ctx context.Context, id string) (Filter, error)
		AllFilters(ctx context.Context) ([]Filter, error)
		InsertFilter(ctx context.Context, f Filter) (Filter, error)
		DeleteFilter(ctx context.Context, id string) error
		CriteriaForFilter(ctx context.Context, filterID string) ([]Criteria, error)
		InsertCriteria(ctx context.Context, c Criteria) (Criteria, error)
		DeleteCriteria(ctx context.Context, id string) error
		SubscriptionsForFilter(ctx context.Context, filterID string) ([]Subscription, error)
		AttachSubscriptionToFilter(ctx context.Context, filterID, subscriptionID string) error

		FilterGroup(ctx context.Context, id string) (FilterGroup, error)
		AllFilterGroups(ctx context.Context) ([]FilterGroup, error)
		InsertFilterGroup(ctx context.Context, g FilterGroup) (FilterGroup, error)
		DeleteFilterGroup(ctx context.Context, id string) error
		FiltersForGroup(ctx context.Context, groupID string) ([]Filter, error)
		AttachFilterToGroup(ctx context.Context, groupID, filterID string) error
	}

	// Repository is the full storage surface. The ingestion and filtering
	// paths only ever touch storage through it, so the technology behind it
	// is swappable.
	Repository interface {
		ChannelRepo
		VideoRepo
		SubscriptionRepo
		FilterRepo
	}
)
