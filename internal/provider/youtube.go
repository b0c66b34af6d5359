package provider

import (
	"fmt"
	"regexp"
	"time"

	"tubefeed/internal/extractor"
	"tubefeed/internal/tubefeed"
)

// YouTube is the adapter for youtube.com content.
type YouTube struct{}

func (YouTube) Name() string      { return "Youtube" }
func (YouTube) Domains() []string { return []string{"youtube.com", "youtu.be"} }

var (
	shortsIDRe = regexp.MustCompile(`shorts/([A-Za-z0-9_-]+)`)
	watchIDRe  = regexp.MustCompile(`watch\?v=([A-Za-z0-9_-]+)`)
	youtuBeRe  = regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]+)`)
)

// SanitizeVideoURL rewrites "shorts", "watch" and short-link variants to the
// one canonical "watch?v=" form, so every variant of a video collapses to
// the same id.
func (YouTube) SanitizeVideoURL(raw string) (string, error) {
	for _, re := range []*regexp.Regexp{shortsIDRe, watchIDRe, youtuBeRe} {
		if m := re.FindStringSubmatch(raw); m != nil {
			return fmt.Sprintf("https://www.youtube.com/watch?v=%s", m[1]), nil
		}
	}
	return "", fmt.Errorf("invalid youtube video url: %q", raw)
}

func (y YouTube) MapEntry(subscriptionID string, e extractor.Entry) (tubefeed.Video, error) {
	rawURL := e.WebpageURL
	if rawURL == "" {
		rawURL = e.URL
	}
	canonical, err := y.SanitizeVideoURL(rawURL)
	if err != nil {
		return tubefeed.Video{}, fmt.Errorf("error mapping entry %q: %w", e.ID, err)
	}

	var released *time.Time
	if e.UploadDate != "" {
		t, err := time.ParseInLocation("20060102", e.UploadDate, time.UTC)
		if err != nil {
			return tubefeed.Video{}, fmt.Errorf("error parsing upload date %q: %w", e.UploadDate, err)
		}
		released = &t
	}

	var duration *int64
	if e.Duration != nil {
		d := int64(*e.Duration)
		duration = &d
	}

	return tubefeed.Video{
		ID:                tubefeed.VideoID(canonical),
		ServiceHandler:    y.Name(),
		Title:             e.Title,
		Description:       e.Description,
		Duration:          duration,
		Thumbnail:         e.BestThumbnail(),
		URL:               canonical,
		ReleasedAt:        released,
		RemoteChannelID:   e.ChannelID,
		RemoteChannelName: e.Channel,
		RemoteVideoID:     e.ID,
	}, nil
}

func (YouTube) ChannelOptions() extractor.Options {
	return extractor.Options{
		ExtractFlat:   true,
		PlaylistStart: 0,
		PlaylistEnd:   0,
	}
}

func (YouTube) ChannelURL(remoteChannelID string) string {
	return fmt.Sprintf("https://www.youtube.com/channel/%s", remoteChannelID)
}

// YouTubeSubscription is a user's own subscriptions feed: every channel in
// it is one the user is already subscribed to.
type YouTubeSubscription struct{}

func (YouTubeSubscription) Name() string                 { return "YoutubeSubscription" }
func (YouTubeSubscription) Service() string              { return YouTube{}.Name() }
func (YouTubeSubscription) FeedURL() string              { return "https://www.youtube.com/feed/subscriptions" }
func (YouTubeSubscription) ImpliesFullySubscribed() bool { return true }

func (YouTubeSubscription) SubscriptionOptions(playlistEnd int, reverse bool) extractor.Options {
	return extractor.Options{
		ExtractFlat:     true,
		PlaylistStart:   0,
		PlaylistEnd:     playlistEnd,
		PlaylistReverse: reverse,
	}
}

// YouTubeRecommended is the recommendations feed. Discovered channels are
// not necessarily subscribed, and anything over an hour is skipped.
type YouTubeRecommended struct{}

func (YouTubeRecommended) Name() string                 { return "YoutubeRecommended" }
func (YouTubeRecommended) Service() string              { return YouTube{}.Name() }
func (YouTubeRecommended) FeedURL() string              { return "https://www.youtube.com/feed/recommended" }
func (YouTubeRecommended) ImpliesFullySubscribed() bool { return false }

func (YouTubeRecommended) SubscriptionOptions(playlistEnd int, reverse bool) extractor.Options {
	return extractor.Options{
		ExtractFlat:     true,
		PlaylistStart:   0,
		PlaylistEnd:     playlistEnd,
		PlaylistReverse: reverse,
		MaxDuration:     time.Hour,
	}
}

// YouTubeChannel is a single channel's uploads feed; the subscription
// carries the channel URL itself.
type YouTubeChannel struct{}

func (YouTubeChannel) Name() string                 { return "YoutubeChannel" }
func (YouTubeChannel) Service() string              { return YouTube{}.Name() }
func (YouTubeChannel) FeedURL() string              { return "" }
func (YouTubeChannel) ImpliesFullySubscribed() bool { return true }

func (YouTubeChannel) SubscriptionOptions(playlistEnd int, reverse bool) extractor.Options {
	return extractor.Options{
		ExtractFlat:     true,
		PlaylistStart:   0,
		PlaylistEnd:     playlistEnd,
		PlaylistReverse: reverse,
	}
}
