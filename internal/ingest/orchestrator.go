package ingest

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"tubefeed/internal/extractor"
	"tubefeed/internal/provider"
	"tubefeed/internal/tubefeed"
)

// FetchAll runs the pipeline over every subscription, one at a time. A
// canceled fetch is logged and skipped; the run keeps going so one broken
// feed cannot starve the rest. Afterwards it backfills channel logos.
func (p *Pipeline) FetchAll(ctx context.Context) (tubefeed.FetchResults, error) {
	subs, err := p.repo.AllSubscriptions(ctx)
	if err != nil {
		return tubefeed.FetchResults{}, fmt.Errorf("error listing subscriptions: %w", err)
	}

	var results tubefeed.FetchResults
	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := p.FetchSubscription(ctx, sub.ID)
		if errors.Is(err, ErrFetchCanceled) {
			p.log.WarnContext(ctx, "skipping subscription",
				"subscription_id", sub.ID,
				"err", err,
			)
			continue
		}
		if err != nil {
			return results, err
		}
		results = results.Add(res)

		// Yield between feeds so a long run doesn't hog the scheduler.
		runtime.Gosched()
	}

	deleted, err := p.backfillLogos(ctx)
	if err != nil {
		return results, err
	}
	results.DeletedVideos += deleted

	p.log.InfoContext(ctx, "fetch run complete",
		"subscriptions", results.Subscriptions,
		"added", results.AddedVideos,
		"deleted", results.DeletedVideos,
	)

	return results, nil
}

// logoSuffix requests a small square crop from the thumbnail CDN.
const logoSuffix = "=s68-c-k-c0x00ffffff-no-rj"

// backfillLogos fills in logos for channels that don't have one yet. A
// channel whose remote account is gone is deleted along with its videos;
// the count of deleted videos is returned.
func (p *Pipeline) backfillLogos(ctx context.Context) (int, error) {
	channels, err := p.repo.AllChannels(ctx)
	if err != nil {
		return 0, fmt.Errorf("error listing channels: %w", err)
	}

	deleted := 0
	for _, ch := range channels {
		if ch.Logo != nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return deleted, err
		}

		adapter, err := provider.ForName(ch.ServiceHandler)
		if err != nil {
			p.log.WarnContext(ctx, "channel has unknown service", "channel_id", ch.ID, "err", err)
			continue
		}

		payload, err := p.client.Extract(ctx, adapter.ChannelURL(ch.RemoteChannelID), adapter.ChannelOptions())
		if errors.Is(err, extractor.ErrAccountTerminated) {
			n, err := p.repo.DeleteChannel(ctx, ch.ID)
			if err != nil {
				return deleted, fmt.Errorf("error deleting terminated channel: %w", err)
			}
			deleted += n
			p.log.InfoContext(ctx, "deleted terminated channel", "channel_id", ch.ID, "videos", n)
			continue
		}
		if err != nil {
			p.log.WarnContext(ctx, "skipping channel logo", "channel_id", ch.ID, "err", err)
			continue
		}

		logo := logoFromThumbnails(payload.Thumbnails)
		if logo == "" {
			continue
		}
		if err := p.repo.UpdateChannel(ctx, ch.ID, tubefeed.UpdateChannelArgs{Logo: &logo}); err != nil {
			return deleted, fmt.Errorf("error updating channel logo: %w", err)
		}
	}

	return deleted, nil
}

// logoFromThumbnails picks the last (largest) thumbnail and rewrites its
// CDN sizing parameters to a small avatar crop.
func logoFromThumbnails(thumbs []extractor.Thumbnail) string {
	if len(thumbs) == 0 {
		return ""
	}

	url := thumbs[len(thumbs)-1].URL
	base, _, _ := strings.Cut(url, "=")
	return base + logoSuffix
}
