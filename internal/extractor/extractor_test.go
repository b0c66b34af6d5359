package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyError(t *testing.T) {
	for name, tc := range map[string]struct {
		msg  string
		want error
	}{
		"terminated account": {
			msg:  "ERROR: This account has been terminated for a violation of YouTube's Terms of Service.",
			want: ErrAccountTerminated,
		},
		"no uploads": {
			msg:  "ERROR: This channel has no uploads",
			want: ErrNoUploads,
		},
		"missing playlist": {
			msg:  "ERROR: The playlist does not exist.",
			want: ErrPlaylistNotFound,
		},
		"upcoming live event": {
			msg:  "ERROR: This live event will begin in 3 hours.",
			want: ErrLiveEvent,
		},
		"no formats means live": {
			msg:  "ERROR: No video formats found!",
			want: ErrLiveEvent,
		},
		"private video": {
			msg:  "ERROR: [Private video] Sign in if you've been granted access to this video",
			want: ErrPrivateVideo,
		},
		"deleted video": {
			msg:  "ERROR: [Deleted video]",
			want: ErrDeletedVideo,
		},
		"unavailable": {
			msg:  "ERROR: Video unavailable",
			want: ErrVideoUnavailable,
		},
	} {
		t.Run(name, func(t *testing.T) {
			err := ClassifyError(tc.msg)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestClassifyError_Unrecognized(t *testing.T) {
	assert.NoError(t, ClassifyError("something entirely new went wrong"))
	assert.NoError(t, ClassifyError(""))
}

func TestBuildArgs(t *testing.T) {
	args := buildArgs("https://www.youtube.com/feed/subscriptions", Options{
		ExtractFlat:     true,
		PlaylistEnd:     400,
		PlaylistReverse: true,
		CookiesFile:     "/tmp/cookies.txt",
	})

	assert.Equal(t, []string{
		"-J", "--skip-download", "--no-warnings",
		"--flat-playlist",
		"--playlist-end", "400",
		"--playlist-reverse",
		"--cookies", "/tmp/cookies.txt",
		"https://www.youtube.com/feed/subscriptions",
	}, args)
}

func TestBuildArgs_Defaults(t *testing.T) {
	args := buildArgs("https://example.com", Options{})
	assert.Equal(t, []string{"-J", "--skip-download", "--no-warnings", "https://example.com"}, args)
}

func TestEntryBestThumbnail(t *testing.T) {
	e := Entry{Thumbnails: []Thumbnail{
		{URL: "small"},
		{URL: "medium"},
		{URL: "large"},
	}}
	assert.Equal(t, "large", e.BestThumbnail())

	assert.Empty(t, Entry{}.BestThumbnail())
}

func TestEntryIsVideo(t *testing.T) {
	assert.True(t, Entry{Type: "url"}.IsVideo())
	assert.True(t, Entry{}.IsVideo())
	assert.False(t, Entry{Type: "playlist"}.IsVideo())
}
