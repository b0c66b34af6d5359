package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubefeed/internal/extractor"
	"tubefeed/internal/tubefeed"
)

func TestForURL(t *testing.T) {
	for raw, want := range map[string]string{
		"https://www.youtube.com/watch?v=abc":       "Youtube",
		"https://m.youtube.com/watch?v=abc":         "Youtube",
		"https://youtu.be/abc":                      "Youtube",
		"https://rumble.com/v123-something.html":    "Rumble",
		"https://www.rumble.com/v123-anything.html": "Rumble",
	} {
		a, err := ForURL(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, a.Name(), raw)
	}
}

func TestForURL_Unknown(t *testing.T) {
	_, err := ForURL("https://vimeo.com/12345")
	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

func TestForName(t *testing.T) {
	a, err := ForName("Youtube")
	require.NoError(t, err)
	assert.Equal(t, "Youtube", a.Name())

	_, err = ForName("Dailymotion")
	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

func TestSubscriptionHandlerForName(t *testing.T) {
	h, err := SubscriptionHandlerForName("YoutubeChannel")
	require.NoError(t, err)
	assert.Equal(t, "Youtube", h.Service())
	assert.True(t, h.ImpliesFullySubscribed())

	h, err = SubscriptionHandlerForName("YoutubeRecommended")
	require.NoError(t, err)
	assert.False(t, h.ImpliesFullySubscribed())

	_, err = SubscriptionHandlerForName("nope")
	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

func TestYouTubeSanitizeVideoURL(t *testing.T) {
	yt := YouTube{}
	const want = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

	// Every URL variant collapses to the same canonical form, and therefore
	// the same deterministic id.
	variants := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
	}
	for _, raw := range variants {
		got, err := yt.SanitizeVideoURL(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	assert.Equal(t, tubefeed.VideoID(want), tubefeed.VideoID(want))

	_, err := yt.SanitizeVideoURL("https://www.youtube.com/feed/subscriptions")
	assert.Error(t, err)
}

func TestYouTubeMapEntry(t *testing.T) {
	duration := 314.9
	entry := extractor.Entry{
		ID:         "dQw4w9WgXcQ",
		Title:      "A Video",
		WebpageURL: "https://www.youtube.com/shorts/dQw4w9WgXcQ",
		UploadDate: "20260215",
		Duration:   &duration,
		ChannelID:  "UCtest",
		Channel:    "Test Channel",
		Thumbnails: []extractor.Thumbnail{{URL: "small"}, {URL: "large"}},
	}

	v, err := YouTube{}.MapEntry("sub-id", entry)
	require.NoError(t, err)

	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", v.URL)
	assert.Equal(t, tubefeed.VideoID(v.URL), v.ID)
	assert.Equal(t, "Youtube", v.ServiceHandler)
	assert.Equal(t, "A Video", v.Title)
	require.NotNil(t, v.Duration)
	assert.Equal(t, int64(314), *v.Duration)
	assert.Equal(t, "large", v.Thumbnail)
	assert.Equal(t, "UCtest", v.RemoteChannelID)
	assert.Equal(t, "Test Channel", v.RemoteChannelName)
	require.NotNil(t, v.ReleasedAt)
	assert.Equal(t, "2026-02-15", v.ReleasedAt.Format("2006-01-02"))
}

func TestYouTubeMapEntry_BadURL(t *testing.T) {
	_, err := YouTube{}.MapEntry("sub-id", extractor.Entry{
		ID:  "x",
		URL: "https://www.youtube.com/playlist?list=PL123",
	})
	assert.Error(t, err)
}

func TestRumbleSanitizeVideoURL(t *testing.T) {
	got, err := Rumble{}.SanitizeVideoURL("https://rumble.com/v123-title.html?mref=abc#frag")
	require.NoError(t, err)
	assert.Equal(t, "https://rumble.com/v123-title.html", got)
}
