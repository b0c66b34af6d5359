package api

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"tubefeed/internal/errors"
	"tubefeed/internal/serverutil"
	"tubefeed/internal/tubefeed"
)

// VideoResp is the detail view of a single video.
type VideoResp struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Duration          *int64     `json:"duration"`
	Thumbnail         string     `json:"thumbnail"`
	URL               string     `json:"url"`
	ReleasedAt        *time.Time `json:"released_at"`
	RemoteChannelID   string     `json:"remote_channel_id"`
	RemoteChannelName string     `json:"remote_channel_name"`
}

// getVideo returns one video's details. The response only carries
// immutable fields, so it can be cached indefinitely.
func (s Server) getVideo(w http.ResponseWriter, r *http.Request) error {
	id := mux.Vars(r)["videoID"]

	if resp, ok := s.videoRespCache.Get(id); ok {
		return serverutil.WriteJSON(w, http.StatusOK, resp)
	}

	v, err := s.repo.Video(r.Context(), id)
	if stderrors.Is(err, tubefeed.ErrNotFound) {
		return errors.E(http.StatusNotFound, "video not found")
	}
	if err != nil {
		return err
	}

	resp := VideoResp{
		ID:                v.ID,
		Title:             v.Title,
		Description:       v.Description,
		Duration:          v.Duration,
		Thumbnail:         v.Thumbnail,
		URL:               v.URL,
		ReleasedAt:        v.ReleasedAt,
		RemoteChannelID:   v.RemoteChannelID,
		RemoteChannelName: v.RemoteChannelName,
	}
	s.videoRespCache.Add(id, resp)

	return serverutil.WriteJSON(w, http.StatusOK, resp)
}

type PostVideosReadReq struct {
	IDs []string `json:"ids"`
}

func (req PostVideosReadReq) Validate() error {
	if len(req.IDs) == 0 {
		return errors.E(http.StatusBadRequest, errors.Detail{Field: "ids", Error: "cannot be empty"}, "nothing to mark")
	}

	return nil
}

func (s Server) postVideosRead(w http.ResponseWriter, r *http.Request) error {
	req, err := serverutil.DecodeValid[PostVideosReadReq](r.Body)
	if err != nil {
		return err
	}

	if err := s.repo.MarkVideosRead(r.Context(), req.IDs); err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, struct{}{})
}
