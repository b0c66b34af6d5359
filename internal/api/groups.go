package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"tubefeed/internal/errors"
	"tubefeed/internal/serverutil"
	"tubefeed/internal/tubefeed"
)

func (s Server) getFilterGroups(w http.ResponseWriter, r *http.Request) error {
	groups, err := s.repo.AllFilterGroups(r.Context())
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, groups)
}

type PostFilterGroupReq struct {
	Name             string   `json:"name"`
	OrderedFilterIDs []string `json:"ordered_filter_ids"`
}

func (req PostFilterGroupReq) Validate() error {
	if req.Name == "" {
		return errors.E(http.StatusBadRequest, errors.Detail{Field: "name", Error: "cannot be empty"}, "invalid filter group")
	}

	return nil
}

func (s Server) postFilterGroups(w http.ResponseWriter, r *http.Request) error {
	req, err := serverutil.DecodeValid[PostFilterGroupReq](r.Body)
	if err != nil {
		return err
	}

	orderedIDs := req.OrderedFilterIDs
	if orderedIDs == nil {
		orderedIDs = []string{}
	}
	encoded, err := json.Marshal(orderedIDs)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	group, err := s.repo.InsertFilterGroup(r.Context(), tubefeed.FilterGroup{
		ID:               uuid.NewString(),
		Name:             req.Name,
		OrderedFilterIDs: string(encoded),
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusCreated, group)
}

func (s Server) deleteFilterGroup(w http.ResponseWriter, r *http.Request) error {
	id := mux.Vars(r)["groupID"]

	if err := s.repo.DeleteFilterGroup(r.Context(), id); err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, struct{}{})
}

type PostGroupFilterReq struct {
	FilterID string `json:"filter_id"`
}

func (req PostGroupFilterReq) Validate() error {
	if req.FilterID == "" {
		return errors.E(http.StatusBadRequest, errors.Detail{Field: "filter_id", Error: "cannot be empty"}, "invalid attachment")
	}

	return nil
}

func (s Server) postGroupFilter(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	groupID := mux.Vars(r)["groupID"]

	req, err := serverutil.DecodeValid[PostGroupFilterReq](r.Body)
	if err != nil {
		return err
	}

	if _, err := s.repo.Filter(ctx, req.FilterID); stderrors.Is(err, tubefeed.ErrNotFound) {
		return errors.E(http.StatusNotFound, "filter not found")
	} else if err != nil {
		return err
	}

	if err := s.repo.AttachFilterToGroup(ctx, groupID, req.FilterID); err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, struct{}{})
}

func (s Server) getGroupVideos(w http.ResponseWriter, r *http.Request) error {
	groupID := mux.Vars(r)["groupID"]

	index := 0
	if raw := r.URL.Query().Get("index"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return errors.E(http.StatusBadRequest, "index must be an integer")
		}
		index = parsed
	}

	page, err := s.evaluator.EvaluateGroup(r.Context(), groupID, index, s.maxGroupVideos)
	if stderrors.Is(err, tubefeed.ErrNotFound) {
		return errors.E(http.StatusNotFound, "filter group not found")
	}
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, page)
}
