package filtering

import (
	"context"
	"fmt"

	"tubefeed/internal/tubefeed"
)

// GroupPage is one page of a filter group evaluation.
type GroupPage struct {
	Group tubefeed.FilterGroup

	// Results holds one entry per filter that contributed videos, in the
	// group's configured order.
	Results []tubefeed.FilteredVideos

	// ResumeIndex is the filter index to pass back for the next page.
	ResumeIndex int

	// TotalUnread counts unread videos across the whole store, not just
	// this group.
	TotalUnread int

	// Empty reports that no filter in range produced any videos.
	Empty bool
}

// EvaluateGroup walks the group's ordered filters starting at startIndex,
// evaluating each with the configured page size and deduplicating videos
// across filters: a video surfaced by an earlier filter is dropped from
// later ones. Evaluation stops once maxVideos have been collected, and the
// index of the filter being processed at that point becomes the resume
// index for the next page.
func (e *Evaluator) EvaluateGroup(ctx context.Context, groupID string, startIndex, maxVideos int) (GroupPage, error) {
	group, err := e.repo.FilterGroup(ctx, groupID)
	if err != nil {
		return GroupPage{}, fmt.Errorf("error fetching filter group to evaluate: %w", err)
	}

	attached, err := e.repo.FiltersForGroup(ctx, group.ID)
	if err != nil {
		return GroupPage{}, err
	}
	ordered := group.OrderedFilters(attached)

	if startIndex < 0 {
		startIndex = 0
	}

	page := GroupPage{
		Group:       group,
		ResumeIndex: startIndex,
	}

	seen := make(map[string]bool)
	total := 0

	for i := startIndex; i < len(ordered); i++ {
		page.ResumeIndex = i

		fv, err := e.Evaluate(ctx, ordered[i].ID, e.groupPageSize)
		if err != nil {
			return GroupPage{}, err
		}
		if fv.VideosNotLimitedCount == 0 {
			continue
		}

		// Drop videos an earlier filter already surfaced.
		deduped := make([]tubefeed.Video, 0, len(fv.Videos))
		for _, v := range fv.Videos {
			if seen[v.ID] {
				continue
			}
			deduped = append(deduped, v)
		}

		if remaining := maxVideos - total; maxVideos > 0 && len(deduped) > remaining {
			deduped = deduped[:remaining]
		}
		if len(deduped) == 0 {
			continue
		}

		for _, v := range deduped {
			seen[v.ID] = true
		}

		fv.Videos = deduped
		fv.VideosLimitedCount = len(deduped)
		page.Results = append(page.Results, fv)

		total += len(deduped)
		if maxVideos > 0 && total >= maxVideos {
			break
		}
	}

	page.Empty = total == 0

	unread, err := e.repo.CountUnreadVideos(ctx)
	if err != nil {
		return GroupPage{}, err
	}
	page.TotalUnread = unread

	return page, nil
}
