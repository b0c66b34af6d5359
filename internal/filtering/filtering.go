// Package filtering evaluates filters and filter groups over the stored
// video set. Evaluation is read-only: it never mutates stored entities, so
// concurrent evaluations are safe against each other.
package filtering

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"tubefeed/internal/rules"
	"tubefeed/internal/tubefeed"
)

// Evaluator runs filter queries against the repository.
type Evaluator struct {
	repo tubefeed.Repository

	// Per-filter page size used during group evaluation.
	groupPageSize int
}

func NewEvaluator(repo tubefeed.Repository, groupPageSize int) *Evaluator {
	if groupPageSize <= 0 {
		groupPageSize = 20
	}

	return &Evaluator{repo: repo, groupPageSize: groupPageSize}
}

// Evaluate runs one filter: union of its subscriptions' videos, read-status
// scope, hidden-channel removal, criteria rules, sort, and limit. A limit
// of zero or less means unlimited.
func (e *Evaluator) Evaluate(ctx context.Context, filterID string, limit int) (tubefeed.FilteredVideos, error) {
	filter, err := e.repo.Filter(ctx, filterID)
	if err != nil {
		return tubefeed.FilteredVideos{}, fmt.Errorf("error fetching filter to evaluate: %w", err)
	}

	subs, err := e.repo.SubscriptionsForFilter(ctx, filter.ID)
	if err != nil {
		return tubefeed.FilteredVideos{}, err
	}

	// Union across subscriptions, keeping subscription iteration order and
	// each subscription's own video order.
	var videos []tubefeed.Video
	for _, sub := range subs {
		subVideos, err := e.repo.VideosForSubscription(ctx, sub.ID)
		if err != nil {
			return tubefeed.FilteredVideos{}, err
		}
		videos = append(videos, subVideos...)
	}

	videos = filterByReadStatus(videos, filter.ReadStatus)

	videos, err = e.dropHiddenChannels(ctx, videos)
	if err != nil {
		return tubefeed.FilteredVideos{}, err
	}

	criterias, err := e.repo.CriteriaForFilter(ctx, filter.ID)
	if err != nil {
		return tubefeed.FilteredVideos{}, err
	}
	tagsByChannel, err := e.tagsByChannel(ctx, videos)
	if err != nil {
		return tubefeed.FilteredVideos{}, err
	}
	videos = rules.FilterVideos(videos, criterias, tagsByChannel)

	sortVideos(videos, filter.OrderedBy, filter.ReverseOrder)

	notLimited := len(videos)
	if limit > 0 && len(videos) > limit {
		videos = videos[:limit]
	}

	return tubefeed.FilteredVideos{
		Filter:                filter,
		Videos:                videos,
		VideosLimitedCount:    len(videos),
		VideosNotLimitedCount: notLimited,
		Limit:                 limit,
	}, nil
}

func filterByReadStatus(videos []tubefeed.Video, status tubefeed.FilterReadStatus) []tubefeed.Video {
	if status == tubefeed.FilterReadStatusAll || status == "" {
		return videos
	}

	wantRead := status == tubefeed.FilterReadStatusRead
	kept := make([]tubefeed.Video, 0, len(videos))
	for _, v := range videos {
		if v.IsRead == wantRead {
			kept = append(kept, v)
		}
	}
	return kept
}

// dropHiddenChannels removes videos whose channel is hidden. The filter's
// stored show_hidden_channels flag is intentionally not consulted here; the
// stored behavior matches what users currently see.
func (e *Evaluator) dropHiddenChannels(ctx context.Context, videos []tubefeed.Video) ([]tubefeed.Video, error) {
	channels, err := e.repo.AllChannels(ctx)
	if err != nil {
		return nil, err
	}

	hidden := make(map[string]bool, len(channels))
	for _, ch := range channels {
		if ch.IsHidden {
			hidden[ch.RemoteChannelID] = true
		}
	}

	kept := make([]tubefeed.Video, 0, len(videos))
	for _, v := range videos {
		if !hidden[v.RemoteChannelID] {
			kept = append(kept, v)
		}
	}
	return kept, nil
}

func (e *Evaluator) tagsByChannel(ctx context.Context, videos []tubefeed.Video) (map[string][]string, error) {
	tags := make(map[string][]string)
	for _, v := range videos {
		if _, done := tags[v.RemoteChannelID]; done {
			continue
		}
		tags[v.RemoteChannelID] = []string{}

		ch, err := e.repo.ChannelByRemoteID(ctx, v.ServiceHandler, v.RemoteChannelID)
		if errors.Is(err, tubefeed.ErrNotFound) {
			// A video whose channel record is gone simply has no tags.
			continue
		}
		if err != nil {
			return nil, err
		}
		channelTags, err := e.repo.TagsForChannel(ctx, ch.ID)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(channelTags))
		for _, t := range channelTags {
			names = append(names, t.Name)
		}
		tags[v.RemoteChannelID] = names
	}

	return tags, nil
}

// sortVideos orders by the filter's sort key. The sort must be stable so
// ties keep their encounter order.
func sortVideos(videos []tubefeed.Video, orderedBy tubefeed.FilterOrderedBy, reverse bool) {
	// created_at is the only sort key currently recognized.
	less := func(i, j int) bool {
		return videos[i].CreatedAt.Before(videos[j].CreatedAt)
	}
	if reverse {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}

	sort.SliceStable(videos, less)
}
