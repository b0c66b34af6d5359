// Package ingest pulls provider feeds and folds their entries into the
// store: new videos are created with deterministic ids, known ones are
// skipped, and channels are provisioned lazily as their videos arrive.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"tubefeed/internal/extractor"
	"tubefeed/internal/provider"
	"tubefeed/internal/tubefeed"
)

// ErrFetchCanceled wraps any extractor failure so callers can tell a
// canceled fetch apart from repository errors.
var ErrFetchCanceled = fmt.Errorf("fetch canceled")

// Pipeline ingests subscription feeds.
type Pipeline struct {
	repo        tubefeed.Repository
	client      extractor.Client
	log         *slog.Logger
	playlistEnd int
}

func NewPipeline(repo tubefeed.Repository, client extractor.Client, log *slog.Logger, playlistEnd int) *Pipeline {
	if playlistEnd <= 0 {
		playlistEnd = 400
	}

	return &Pipeline{
		repo:        repo,
		client:      client,
		log:         log,
		playlistEnd: playlistEnd,
	}
}

// FetchSubscription pulls one subscription's feed and stores whatever is
// new. Any extractor error is returned wrapped in ErrFetchCanceled.
func (p *Pipeline) FetchSubscription(ctx context.Context, subID string) (tubefeed.FetchResults, error) {
	sub, err := p.repo.Subscription(ctx, subID)
	if err != nil {
		return tubefeed.FetchResults{}, fmt.Errorf("error fetching subscription: %w", err)
	}

	handler, err := provider.SubscriptionHandlerForName(sub.SubscriptionHandler)
	if err != nil {
		return tubefeed.FetchResults{}, err
	}

	feedURL := handler.FeedURL()
	if sub.URL != nil && *sub.URL != "" {
		feedURL = *sub.URL
	}

	opts := handler.SubscriptionOptions(p.playlistEnd, true)
	payload, err := p.client.Extract(ctx, feedURL, opts)
	if err != nil {
		return tubefeed.FetchResults{}, fmt.Errorf("%w: %w", ErrFetchCanceled, err)
	}

	adapter, err := provider.ForName(handler.Service())
	if err != nil {
		return tubefeed.FetchResults{}, err
	}

	added, err := p.ingestEntries(ctx, sub, adapter, handler, payload.Entries)
	if err != nil {
		return tubefeed.FetchResults{}, err
	}

	p.log.InfoContext(ctx, "fetched subscription",
		"subscription_id", sub.ID,
		"handler", sub.SubscriptionHandler,
		"added", added,
	)

	return tubefeed.FetchResults{
		Subscriptions: 1,
		AddedVideos:   added,
	}, nil
}

// ingestEntries flattens the payload into playlists and stores each new
// video, provisioning channels on the way.
func (p *Pipeline) ingestEntries(ctx context.Context, sub tubefeed.Subscription, adapter provider.Adapter, handler provider.SubscriptionHandler, entries []extractor.Entry) (int, error) {
	knownIDs, err := p.repo.VideoIDsForSubscription(ctx, sub.ID)
	if err != nil {
		return 0, err
	}
	known := make(map[string]bool, len(knownIDs))
	for _, id := range knownIDs {
		known[id] = true
	}

	added := 0
	for _, playlist := range flatten(entries) {
		for _, entry := range playlist {
			if skipEntry(entry) {
				continue
			}

			video, err := adapter.MapEntry(sub.ID, entry)
			if err != nil {
				p.log.WarnContext(ctx, "skipping unmappable entry",
					"subscription_id", sub.ID,
					"entry_id", entry.ID,
					"err", err,
				)
				continue
			}
			video.Description = sanitize(video.Description)
			now := time.Now().UTC()
			video.CreatedAt = now
			video.UpdatedAt = now

			if known[video.ID] {
				continue
			}

			created, err := p.storeVideo(ctx, sub, adapter, handler, video)
			if err != nil {
				return added, err
			}
			known[video.ID] = true
			if created {
				added++
			}
		}
	}

	return added, nil
}

// flatten normalizes the extractor payload into a list of playlists. A
// payload whose first entry is itself a playlist is a list of playlists;
// anything else is treated as a single playlist.
func flatten(entries []extractor.Entry) [][]extractor.Entry {
	if len(entries) == 0 {
		return nil
	}

	if entries[0].Type == "playlist" {
		playlists := make([][]extractor.Entry, 0, len(entries))
		for _, e := range entries {
			playlists = append(playlists, e.Entries)
		}
		return playlists
	}

	return [][]extractor.Entry{entries}
}

// skipEntry rejects entries that cannot become stored videos: anything
// currently or upcoming live, and placeholders for private or deleted
// videos.
func skipEntry(entry extractor.Entry) bool {
	if entry.LiveStatus != "" && entry.LiveStatus != "was_live" {
		return true
	}

	title := strings.ToLower(entry.Title)
	if strings.Contains(title, "[private video]") || strings.Contains(title, "[deleted video]") {
		return true
	}

	return false
}

// storeVideo inserts the video (or attaches the existing row to this
// subscription on conflict) and provisions its channel. Reports whether a
// new video row was created.
func (p *Pipeline) storeVideo(ctx context.Context, sub tubefeed.Subscription, adapter provider.Adapter, handler provider.SubscriptionHandler, video tubefeed.Video) (bool, error) {
	if err := p.ensureChannel(ctx, adapter, handler, video); err != nil {
		return false, err
	}

	_, err := p.repo.InsertVideo(ctx, video)
	if err == nil {
		if err := p.repo.AttachVideo(ctx, sub.ID, video.ID); err != nil {
			return false, err
		}
		return true, nil
	}
	if !errors.Is(err, tubefeed.ErrConflict) {
		return false, fmt.Errorf("error inserting video: %w", err)
	}

	// Another subscription already holds this video; just link it.
	if err := p.repo.AttachVideo(ctx, sub.ID, video.ID); err != nil {
		return false, err
	}
	return false, nil
}

// ensureChannel gets or creates the channel for the video, and flips an
// existing channel to subscribed when this feed implies a full
// subscription.
func (p *Pipeline) ensureChannel(ctx context.Context, adapter provider.Adapter, handler provider.SubscriptionHandler, video tubefeed.Video) error {
	ch, err := p.repo.ChannelByRemoteID(ctx, video.ServiceHandler, video.RemoteChannelID)
	if errors.Is(err, tubefeed.ErrNotFound) {
		now := time.Now().UTC()
		_, err := p.repo.InsertChannel(ctx, tubefeed.Channel{
			ID:              tubefeed.ChannelID(video.RemoteChannelID),
			ServiceHandler:  adapter.Name(),
			RemoteChannelID: video.RemoteChannelID,
			Name:            video.RemoteChannelName,
			IsSubscribed:    handler.ImpliesFullySubscribed(),
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			return fmt.Errorf("error creating channel: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("error fetching channel: %w", err)
	}

	if handler.ImpliesFullySubscribed() && !ch.IsSubscribed {
		subscribed := true
		if err := p.repo.UpdateChannel(ctx, ch.ID, tubefeed.UpdateChannelArgs{IsSubscribed: &subscribed}); err != nil {
			return fmt.Errorf("error subscribing channel: %w", err)
		}
	}

	return nil
}

var stripPolicy = bluemonday.StrictPolicy()

// Removes all html tags from the string and caps its length so feed
// descriptions don't balloon the store.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = stripPolicy.Sanitize(s)
	if len(s) > 2048 {
		s = s[:2048]
	}

	return s
}
