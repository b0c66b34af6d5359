package api

import (
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

func (s Server) getFilters(w http.ResponseWriter, r *http.Request) error {
	filters, err := s.repo.AllFilters(r.Context())
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, filters)
}

type PostFilterReq struct {
	Name               string `json:"name"`
	ReadStatus         string `json:"read_status"`
	ReverseOrder       bool   `json:"reverse_order"`
	ShowHiddenChannels bool   `json:"show_hidden_channels"`
}

func (req PostFilterReq) Validate() error {
	var details []errors.Detail
	if req.Name == "" {
		details = append(details, errors.Detail{Field: "name", Error: "cannot be empty"})
	}
	switch tubefeed.FilterReadStatus(req.ReadStatus) {
	case tubefeed.FilterReadStatusRead, tubefeed.FilterReadStatusUnread, tubefeed.FilterReadStatusAll, "":
	default:
		details = append(details, errors.Detail{Field: "read_status", Error: "must be one of 'read', 'unread' or 'all'"})
	}
	if len(details) > 0 {
		return errors.E(http.StatusBadRequest, "invalid filter", details)
	}

	return nil
}

func (s Server) postFilters(w http.ResponseWriter, r *http.Request) error {
	req, err := serverutil.DecodeValid[PostFilterReq](r.Body)
	if err != nil {
		return err
	}

	readStatus := tubefeed.FilterReadStatus(req.ReadStatus)
	if readStatus == "" {
		readStatus = tubefeed.FilterReadStatusUnread
	}

	now := time.Now().UTC()
	filter, err := s.repo.InsertFilter(r.Context(), tubefeed.Filter{
		ID:                 uuid.NewString(),
		Name:               req.Name,
		OrderedBy:          tubefeed.FilterOrderedByCreatedAt,
		ReverseOrder:       req.ReverseOrder,
		ReadStatus:         readStatus,
		ShowHiddenChannels: req.ShowHiddenChannels,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusCreated, filter)
}

func (s Server) deleteFilter(w http.ResponseWriter, r *http.Request) error {
	id := mux.Vars(r)["filterID"]

	if err := s.repo.DeleteFilter(r.Context(), id); err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, struct{}{})
}

type PostCriteriaReq struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
	Unit     string `json:"unit_of_measure"`
}

func (req PostCriteriaReq) Validate() error {
	c := tubefeed.Criteria{
		Field:    tubefeed.CriteriaField(req.Field),
		Operator: tubefeed.CriteriaOperator(req.Operator),
		Value:    req.Value,
		Unit:     tubefeed.CriteriaUnit(req.Unit),
	}
	if err := c.Validate(); err != nil {
		return errors.E(http.StatusBadRequest, err)
	}

	return nil
}

func (s Server) postCriteria(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	filterID := mux.Vars(r)["filterID"]

	req, err := serverutil.DecodeValid[PostCriteriaReq](r.Body)
	if err != nil {
		return err
	}

	if _, err := s.repo.Filter(ctx, filterID); stderrors.Is(err, tubefeed.ErrNotFound) {
		return errors.E(http.StatusNotFound, "filter not found")
	} else if err != nil {
		return err
	}

	criteria, err := s.repo.InsertCriteria(ctx, tubefeed.Criteria{
		ID:        uuid.NewString(),
		FilterID:  filterID,
		Field:     tubefeed.CriteriaField(req.Field),
		Operator:  tubefeed.CriteriaOperator(req.Operator),
		Value:     req.Value,
		Unit:      tubefeed.CriteriaUnit(req.Unit),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusCreated, criteria)
}

func (s Server) deleteCriteria(w http.ResponseWriter, r *http.Request) error {
	id := mux.Vars(r)["criteriaID"]

	if err := s.repo.DeleteCriteria(r.Context(), id); err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, struct{}{})
}

type PostFilterSubscriptionReq struct {
	SubscriptionID string `json:"subscription_id"`
}

func (req PostFilterSubscriptionReq) Validate() error {
	if req.SubscriptionID == "" {
		return errors.E(http.StatusBadRequest, errors.Detail{Field: "subscription_id", Error: "cannot be empty"}, "invalid attachment")
	}

	return nil
}

func (s Server) postFilterSubscription(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	filterID := mux.Vars(r)["filterID"]

	req, err := serverutil.DecodeValid[PostFilterSubscriptionReq](r.Body)
	if err != nil {
		return err
	}

	if _, err := s.repo.Subscription(ctx, req.SubscriptionID); stderrors.Is(err, tubefeed.ErrNotFound) {
		return errors.E(http.StatusNotFound, "subscription not found")
	} else if err != nil {
		return err
	}

	if err := s.repo.AttachSubscriptionToFilter(ctx, filterID, req.SubscriptionID); err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, struct{}{})
}

func (s Server) getFilterVideos(w http.ResponseWriter, r *http.Request) error {
	filterID := mux.Vars(r)["filterID"]

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return errors.E(http.StatusBadRequest, "limit must be an integer")
		}
		limit = parsed
	}

	result, err := s.evaluator.Evaluate(r.Context(), filterID, limit)
	if stderrors.Is(err, tubefeed.ErrNotFound) {
		return errors.E(http.StatusNotFound, "filter not found")
	}
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, result)
}
