package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tferrs "tubefeed/internal/errors"
	"tubefeed/internal/filtering"
	"tubefeed/internal/tubefeed"
)

// stubRepo serves a handful of canned records. Anything else panics via
// the embedded nil interface.
type stubRepo struct {
	tubefeed.Repository

	videos    map[string]tubefeed.Video
	markedIDs []string
}

func (s *stubRepo) Video(_ context.Context, id string) (tubefeed.Video, error) {
	v, ok := s.videos[id]
	if !ok {
		return tubefeed.Video{}, tubefeed.ErrNotFound
	}
	return v, nil
}

func (s *stubRepo) MarkVideosRead(_ context.Context, ids []string) error {
	s.markedIDs = append(s.markedIDs, ids...)
	return nil
}

func newTestServer(t *testing.T, repo *stubRepo) Server {
	t.Helper()

	cache, err := lru.New[string, VideoResp](16)
	require.NoError(t, err)

	return Server{
		repo:           repo,
		evaluator:      filtering.NewEvaluator(repo, 20),
		videoRespCache: cache,
		maxGroupVideos: 100,
	}
}

func TestPostCriteria_RejectsInvalidRule(t *testing.T) {
	var (
		body = `{"field": "duration", "operator": "must_contain", "value": "10", "unit_of_measure": "minutes"}`
		req  = httptest.NewRequest(http.MethodPost, "/api/filters/f1/criteria", strings.NewReader(body))
		rec  = httptest.NewRecorder()
		s    = newTestServer(t, &stubRepo{})
	)

	err := s.postCriteria(rec, req)
	require.Error(t, err)

	var tferr *tferrs.Error
	require.ErrorAs(t, err, &tferr)
	assert.Equal(t, http.StatusBadRequest, tferr.Status)
}

func TestPostSubscriptions_RejectsUnknownHandlers(t *testing.T) {
	var (
		body = `{"created_by": "me", "service_handler": "Vimeo", "subscription_handler": "VimeoLikes"}`
		req  = httptest.NewRequest(http.MethodPost, "/api/subscriptions", strings.NewReader(body))
		rec  = httptest.NewRecorder()
		s    = newTestServer(t, &stubRepo{})
	)

	err := s.postSubscriptions(rec, req)
	require.Error(t, err)

	var tferr *tferrs.Error
	require.ErrorAs(t, err, &tferr)
	assert.Equal(t, http.StatusBadRequest, tferr.Status)
	assert.Len(t, tferr.Details, 2)
}

func TestPostVideosRead(t *testing.T) {
	repo := &stubRepo{}
	var (
		req = httptest.NewRequest(http.MethodPost, "/api/videos/read", strings.NewReader(`{"ids": ["v1", "v2"]}`))
		rec = httptest.NewRecorder()
		s   = newTestServer(t, repo)
	)

	require.NoError(t, s.postVideosRead(rec, req))
	assert.Equal(t, []string{"v1", "v2"}, repo.markedIDs)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPostVideosRead_EmptyIDs(t *testing.T) {
	var (
		req = httptest.NewRequest(http.MethodPost, "/api/videos/read", strings.NewReader(`{"ids": []}`))
		rec = httptest.NewRecorder()
		s   = newTestServer(t, &stubRepo{})
	)

	err := s.postVideosRead(rec, req)
	require.Error(t, err)

	var tferr *tferrs.Error
	require.ErrorAs(t, err, &tferr)
	assert.Equal(t, http.StatusBadRequest, tferr.Status)
}

func TestGetVideo_CachesResponse(t *testing.T) {
	repo := &stubRepo{videos: map[string]tubefeed.Video{
		"v1": {ID: "v1", Title: "cached me"},
	}}
	s := newTestServer(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/videos/v1", nil)
	req = mux.SetURLVars(req, map[string]string{"videoID": "v1"})
	rec := httptest.NewRecorder()
	require.NoError(t, s.getVideo(rec, req))
	assert.Contains(t, rec.Body.String(), "cached me")

	// Remove the backing record; the cached response still serves.
	delete(repo.videos, "v1")
	rec = httptest.NewRecorder()
	require.NoError(t, s.getVideo(rec, req))
	assert.Contains(t, rec.Body.String(), "cached me")
}

func TestGetVideo_NotFound(t *testing.T) {
	s := newTestServer(t, &stubRepo{videos: map[string]tubefeed.Video{}})

	req := httptest.NewRequest(http.MethodGet, "/api/videos/missing", nil)
	req = mux.SetURLVars(req, map[string]string{"videoID": "missing"})

	err := s.getVideo(httptest.NewRecorder(), req)
	require.Error(t, err)

	var tferr *tferrs.Error
	require.ErrorAs(t, err, &tferr)
	assert.Equal(t, http.StatusNotFound, tferr.Status)
}
