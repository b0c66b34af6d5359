package extractor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChannelFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015"
      xmlns:media="http://search.yahoo.com/mrss/"
      xmlns="http://www.w3.org/2005/Atom">
  <title>Test Channel</title>
  <entry>
    <id>yt:video:vid-one</id>
    <yt:videoId>vid-one</yt:videoId>
    <yt:channelId>UCtest</yt:channelId>
    <title>First Upload</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=vid-one"/>
    <published>2026-01-01T12:00:00+00:00</published>
    <media:group>
      <media:thumbnail url="https://i.ytimg.com/vi/vid-one/hqdefault.jpg" width="480" height="360"/>
      <media:description>The first one</media:description>
    </media:group>
  </entry>
  <entry>
    <id>yt:video:vid-two</id>
    <yt:videoId>vid-two</yt:videoId>
    <yt:channelId>UCtest</yt:channelId>
    <title>Second Upload</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=vid-two"/>
    <published>2026-01-02T12:00:00+00:00</published>
    <media:group>
      <media:thumbnail url="https://i.ytimg.com/vi/vid-two/hqdefault.jpg" width="480" height="360"/>
      <media:description>The second one</media:description>
    </media:group>
  </entry>
</feed>`

func TestRSSExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(testChannelFeed))
	}))
	defer srv.Close()

	payload, err := NewRSS().Extract(context.Background(), srv.URL, Options{})
	require.NoError(t, err)

	assert.Equal(t, "Test Channel", payload.Title)
	require.Len(t, payload.Entries, 2)

	first := payload.Entries[0]
	assert.Equal(t, "vid-one", first.ID)
	assert.Equal(t, "UCtest", first.ChannelID)
	assert.Equal(t, "First Upload", first.Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=vid-one", first.WebpageURL)
	assert.Equal(t, "20260101", first.UploadDate)
	assert.Equal(t, "The first one", first.Description)
	require.Len(t, first.Thumbnails, 1)
	assert.Equal(t, "https://i.ytimg.com/vi/vid-one/hqdefault.jpg", first.Thumbnails[0].URL)
	assert.True(t, first.IsVideo())
}

func TestRSSExtract_EndAndReverse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testChannelFeed))
	}))
	defer srv.Close()

	payload, err := NewRSS().Extract(context.Background(), srv.URL, Options{
		PlaylistEnd:     1,
		PlaylistReverse: true,
	})
	require.NoError(t, err)

	// Truncated before reversing, so only the first item remains.
	require.Len(t, payload.Entries, 1)
	assert.Equal(t, "vid-one", payload.Entries[0].ID)
}

func TestRSSExtract_BadFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewRSS().Extract(context.Background(), srv.URL, Options{})
	assert.Error(t, err)
}
