// Package extractor defines the contract with the provider wire client: the
// option set a caller hands in, the nested payload of entries it gets back,
// and the closed set of typed provider errors the ingestion pipeline must
// distinguish.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

type (
	// Options encodes the provider-specific fetch knobs a handler supplies:
	// pagination bounds, ordering, cookies, and an optional duration cap.
	Options struct {
		ExtractFlat     bool
		PlaylistStart   int
		PlaylistEnd     int
		PlaylistReverse bool
		CookiesFile     string
		MaxDuration     time.Duration // 0 means no cap
	}

	Thumbnail struct {
		URL string `json:"url"`
	}

	// Entry is one element of a payload: either a leaf video record or a
	// nested sub-playlist carrying its own entries (one level deep).
	Entry struct {
		Type        string      `json:"_type"`
		ID          string      `json:"id"`
		Title       string      `json:"title"`
		Description string      `json:"description"`
		Duration    *float64    `json:"duration"`
		Thumbnails  []Thumbnail `json:"thumbnails"`
		UploadDate  string      `json:"upload_date"` // YYYYMMDD
		URL         string      `json:"url"`
		WebpageURL  string      `json:"webpage_url"`
		ChannelID   string      `json:"channel_id"`
		Channel     string      `json:"channel"`
		LiveStatus  string      `json:"live_status"`
		Entries     []Entry     `json:"entries"`
	}

	// Payload is the top level of an extraction result.
	Payload struct {
		ID         string      `json:"id"`
		Title      string      `json:"title"`
		Entries    []Entry     `json:"entries"`
		Thumbnails []Thumbnail `json:"thumbnails"`
		IsLive     bool        `json:"is_live"`
	}

	// Client pulls a structured payload for a URL. Implementations block on
	// network I/O and must respect ctx.
	Client interface {
		Extract(ctx context.Context, url string, opts Options) (Payload, error)
	}
)

// IsVideo reports whether the entry is a leaf video record rather than a
// nested playlist.
func (e Entry) IsVideo() bool {
	return e.Type != "playlist"
}

// BestThumbnail returns the last (highest resolution) thumbnail URL, or "".
func (e Entry) BestThumbnail() string {
	if len(e.Thumbnails) == 0 {
		return ""
	}
	return e.Thumbnails[len(e.Thumbnails)-1].URL
}

// The closed set of provider failure conditions the pipeline distinguishes.
var (
	ErrNoUploads         = errors.New("channel has no uploads")
	ErrAccountTerminated = errors.New("account has been terminated")
	ErrPrivateVideo      = errors.New("video is private")
	ErrDeletedVideo      = errors.New("video is deleted")
	ErrPlaylistNotFound  = errors.New("playlist does not exist")
	ErrLiveEvent         = errors.New("video is a live event")
	ErrFormatNotFound    = errors.New("requested format is not available")
	ErrVideoUnavailable  = errors.New("video is unavailable")
)

// classifiers maps provider error-message fragments to typed conditions.
// Order matters: the first match wins.
var classifiers = []struct {
	fragment string
	err      error
}{
	{"this account has been terminated", ErrAccountTerminated},
	{"this channel has no uploads", ErrNoUploads},
	{"the playlist does not exist", ErrPlaylistNotFound},
	{"no video formats found", ErrLiveEvent},
	{"this live event will begin in", ErrLiveEvent},
	{"[private video]", ErrPrivateVideo},
	{"[deleted video]", ErrDeletedVideo},
	{"requested format is not available", ErrFormatNotFound},
	{"video unavailable", ErrVideoUnavailable},
	{"internal server error", ErrVideoUnavailable},
}

// ClassifyError maps a free-text provider error message onto the typed
// condition set. Unrecognized messages come back as nil so the caller can
// fall back to a generic provider error (and an operator alert).
func ClassifyError(msg string) error {
	lower := strings.ToLower(msg)
	for _, c := range classifiers {
		if strings.Contains(lower, c.fragment) {
			return fmt.Errorf("%w: %s", c.err, strings.TrimSpace(msg))
		}
	}
	return nil
}
