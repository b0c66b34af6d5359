package api

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"tubefeed/internal/errors"
	"tubefeed/internal/ingest"
	"tubefeed/internal/provider"
	"tubefeed/internal/serverutil"
	"tubefeed/internal/tubefeed"
)

func (s Server) postFetchAll(w http.ResponseWriter, r *http.Request) error {
	results, err := s.pipeline.FetchAll(r.Context())
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, results)
}

func (s Server) postFetchSubscription(w http.ResponseWriter, r *http.Request) error {
	id := mux.Vars(r)["subscriptionID"]

	results, err := s.pipeline.FetchSubscription(r.Context(), id)
	if stderrors.Is(err, tubefeed.ErrNotFound) {
		return errors.E(http.StatusNotFound, "subscription not found")
	}
	if stderrors.Is(err, ingest.ErrFetchCanceled) {
		return errors.E(http.StatusBadGateway, err)
	}
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, results)
}

func (s Server) getSubscriptions(w http.ResponseWriter, r *http.Request) error {
	subs, err := s.repo.AllSubscriptions(r.Context())
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, subs)
}

type PostSubscriptionReq struct {
	CreatedBy           string  `json:"created_by"`
	ServiceHandler      string  `json:"service_handler"`
	SubscriptionHandler string  `json:"subscription_handler"`
	URL                 *string `json:"url"`
}

func (req PostSubscriptionReq) Validate() error {
	var details []errors.Detail
	if req.CreatedBy == "" {
		details = append(details, errors.Detail{Field: "created_by", Error: "cannot be empty"})
	}
	if _, err := provider.ForName(req.ServiceHandler); err != nil {
		details = append(details, errors.Detail{Field: "service_handler", Error: err.Error()})
	}
	if _, err := provider.SubscriptionHandlerForName(req.SubscriptionHandler); err != nil {
		details = append(details, errors.Detail{Field: "subscription_handler", Error: err.Error()})
	}
	if len(details) > 0 {
		return errors.E(http.StatusBadRequest, "invalid subscription", details)
	}

	return nil
}

func (s Server) postSubscriptions(w http.ResponseWriter, r *http.Request) error {
	req, err := serverutil.DecodeValid[PostSubscriptionReq](r.Body)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	sub, err := s.repo.InsertSubscription(r.Context(), tubefeed.Subscription{
		ID:                  tubefeed.SubscriptionID(req.ServiceHandler, req.SubscriptionHandler, req.CreatedBy),
		CreatedBy:           req.CreatedBy,
		ServiceHandler:      req.ServiceHandler,
		SubscriptionHandler: req.SubscriptionHandler,
		URL:                 req.URL,
		CreatedAt:           now,
		UpdatedAt:           now,
	})
	if stderrors.Is(err, tubefeed.ErrConflict) {
		return errors.E(http.StatusConflict, "subscription already exists")
	}
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusCreated, sub)
}

func (s Server) deleteSubscription(w http.ResponseWriter, r *http.Request) error {
	id := mux.Vars(r)["subscriptionID"]

	if err := s.repo.DeleteSubscription(r.Context(), id); err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, struct{}{})
}
