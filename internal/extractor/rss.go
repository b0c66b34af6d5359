package extractor

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

// RSS extracts payloads from a channel's public RSS feed. It is a
// lightweight alternative to the binary-backed client for plain channel
// subscriptions: no cookies, no pagination past the feed window, and no
// duration metadata.
type RSS struct {
	parser *gofeed.Parser
}

// NewRSS builds a feed-backed client with a bounded HTTP timeout.
func NewRSS() *RSS {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 10 * time.Second}

	return &RSS{parser: parser}
}

func (r *RSS) Extract(ctx context.Context, url string, opts Options) (Payload, error) {
	feed, err := r.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return Payload{}, fmt.Errorf("provider error extracting %q: %w", url, err)
	}

	items := feed.Items
	if opts.PlaylistEnd > 0 && len(items) > opts.PlaylistEnd {
		items = items[:opts.PlaylistEnd]
	}
	if opts.PlaylistReverse {
		reversed := make([]*gofeed.Item, len(items))
		for i, item := range items {
			reversed[len(items)-1-i] = item
		}
		items = reversed
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, entryFromItem(item, feed))
	}

	return Payload{
		ID:      feed.FeedLink,
		Title:   feed.Title,
		Entries: entries,
	}, nil
}

func entryFromItem(item *gofeed.Item, feed *gofeed.Feed) Entry {
	e := Entry{
		Title:      item.Title,
		URL:        item.Link,
		WebpageURL: item.Link,
		Channel:    feed.Title,
	}

	if item.PublishedParsed != nil {
		e.UploadDate = item.PublishedParsed.UTC().Format("20060102")
	}
	if ext, ok := item.Extensions["yt"]; ok {
		if ids := ext["videoId"]; len(ids) > 0 {
			e.ID = ids[0].Value
		}
		if ids := ext["channelId"]; len(ids) > 0 {
			e.ChannelID = ids[0].Value
		}
	}
	if ext, ok := item.Extensions["media"]; ok {
		if groups := ext["group"]; len(groups) > 0 {
			if thumbs := groups[0].Children["thumbnail"]; len(thumbs) > 0 {
				e.Thumbnails = append(e.Thumbnails, Thumbnail{URL: thumbs[0].Attrs["url"]})
			}
			if descs := groups[0].Children["description"]; len(descs) > 0 {
				e.Description = descs[0].Value
			}
		}
	}

	return e
}
