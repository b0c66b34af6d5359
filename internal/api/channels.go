package api

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/gorilla/mux"

	"tubefeed/internal/errors"
	"tubefeed/internal/serverutil"
	"tubefeed/internal/tubefeed"
)

func (s Server) getChannels(w http.ResponseWriter, r *http.Request) error {
	channels, err := s.repo.AllChannels(r.Context())
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, channels)
}

type PatchChannelReq struct {
	IsHidden     *bool `json:"is_hidden"`
	IsSubscribed *bool `json:"is_subscribed"`
}

func (req PatchChannelReq) Validate() error {
	if req.IsHidden == nil && req.IsSubscribed == nil {
		return errors.E(http.StatusBadRequest, "nothing to update")
	}

	return nil
}

func (s Server) patchChannel(w http.ResponseWriter, r *http.Request) error {
	id := mux.Vars(r)["channelID"]

	req, err := serverutil.DecodeValid[PatchChannelReq](r.Body)
	if err != nil {
		return err
	}

	if _, err := s.repo.Channel(r.Context(), id); stderrors.Is(err, tubefeed.ErrNotFound) {
		return errors.E(http.StatusNotFound, "channel not found")
	} else if err != nil {
		return err
	}

	err = s.repo.UpdateChannel(r.Context(), id, tubefeed.UpdateChannelArgs{
		IsHidden:     req.IsHidden,
		IsSubscribed: req.IsSubscribed,
	})
	if err != nil {
		return err
	}

	ch, err := s.repo.Channel(r.Context(), id)
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, ch)
}

type PostChannelTagReq struct {
	Name string `json:"name"`
}

func (req PostChannelTagReq) Validate() error {
	if req.Name == "" {
		return errors.E(http.StatusBadRequest, errors.Detail{Field: "name", Error: "cannot be empty"}, "invalid tag")
	}

	return nil
}

// postChannelTag applies a tag to a channel, creating the tag if it
// doesn't exist yet.
func (s Server) postChannelTag(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	channelID := mux.Vars(r)["channelID"]

	req, err := serverutil.DecodeValid[PostChannelTagReq](r.Body)
	if err != nil {
		return err
	}

	if _, err := s.repo.Channel(ctx, channelID); stderrors.Is(err, tubefeed.ErrNotFound) {
		return errors.E(http.StatusNotFound, "channel not found")
	} else if err != nil {
		return err
	}

	tag, err := s.repo.InsertTag(ctx, req.Name)
	if stderrors.Is(err, tubefeed.ErrConflict) {
		tag, err = s.findTag(ctx, req.Name)
	}
	if err != nil {
		return err
	}

	if err := s.repo.TagChannel(ctx, channelID, tag.ID); err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, tag)
}

// findTag looks a tag up by name.
func (s Server) findTag(ctx context.Context, name string) (tubefeed.Tag, error) {
	tags, err := s.repo.AllTags(ctx)
	if err != nil {
		return tubefeed.Tag{}, err
	}
	for _, t := range tags {
		if t.Name == name {
			return t, nil
		}
	}

	return tubefeed.Tag{}, tubefeed.ErrNotFound
}

func (s Server) deleteChannelTag(w http.ResponseWriter, r *http.Request) error {
	vars := mux.Vars(r)

	if err := s.repo.UntagChannel(r.Context(), vars["channelID"], vars["tagID"]); err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, struct{}{})
}

func (s Server) getTags(w http.ResponseWriter, r *http.Request) error {
	tags, err := s.repo.AllTags(r.Context())
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, tags)
}
