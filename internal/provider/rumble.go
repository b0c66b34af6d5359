package provider

import (
	"fmt"
	"net/url"
	"time"

	"tubefeed/internal/extractor"
	"tubefeed/internal/tubefeed"
)

// Rumble is the adapter for rumble.com content. Rumble URLs are already in
// their canonical form, so sanitizing only strips query noise and fragments.
type Rumble struct{}

func (Rumble) Name() string      { return "Rumble" }
func (Rumble) Domains() []string { return []string{"rumble.com"} }

func (Rumble) SanitizeVideoURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid rumble video url: %q", raw)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

func (r Rumble) MapEntry(subscriptionID string, e extractor.Entry) (tubefeed.Video, error) {
	rawURL := e.WebpageURL
	if rawURL == "" {
		rawURL = e.URL
	}
	canonical, err := r.SanitizeVideoURL(rawURL)
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
		ServiceHandler:    r.Name(),
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

func (Rumble) ChannelOptions() extractor.Options {
	return extractor.Options{
		ExtractFlat:   true,
		PlaylistStart: 0,
		PlaylistEnd:   0,
	}
}

func (Rumble) ChannelURL(remoteChannelID string) string {
	return fmt.Sprintf("https://rumble.com/c/%s", remoteChannelID)
}
