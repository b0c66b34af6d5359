// Package api exposes the aggregator over HTTP: subscription and filter
// management, fetch triggers, and the filter/group video feeds.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	lru "github.com/hashicorp/golang-lru/v2"

	"tubefeed/internal/filtering"
	"tubefeed/internal/ingest"
	"tubefeed/internal/serverutil"
	"tubefeed/internal/tubefeed"
)

type (
	// Server handles requests to manage subscriptions, filters, and groups,
	// and to pull their video feeds.
	Server struct {
		*http.Server

		repo      tubefeed.Repository
		pipeline  *ingest.Pipeline
		evaluator *filtering.Evaluator

		videoRespCache *lru.Cache[string, VideoResp]

		maxGroupVideos int
	}

	ServerConfig struct {
		Port       int
		CorsHeader string

		// MaxGroupVideos caps how many videos one group page may return.
		MaxGroupVideos int
	}
)

func NewServer(config ServerConfig, repo tubefeed.Repository, pipeline *ingest.Pipeline, evaluator *filtering.Evaluator) *Server {
	var (
		r        = serverutil.ErrRouter{Router: mux.NewRouter()}
		cache, _ = lru.New[string, VideoResp](1024)
	)

	maxGroupVideos := config.MaxGroupVideos
	if maxGroupVideos <= 0 {
		maxGroupVideos = 100
	}

	srvr := Server{
		repo:           repo,
		pipeline:       pipeline,
		evaluator:      evaluator,
		videoRespCache: cache,
		maxGroupVideos: maxGroupVideos,
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Minute, // fetch runs can be slow
			Handler: handlers.CORS(
				handlers.AllowedOrigins([]string{config.CorsHeader}),
				handlers.AllowCredentials(),
				handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodPatch, http.MethodOptions}),
				handlers.AllowedHeaders([]string{"content-type"}),
			)(r),
		},
	}

	r.Use(serverutil.AccessLogMiddleware) // Log everything

	// Fetch triggers
	r.HandleFuncE("/api/fetch", srvr.postFetchAll).Methods(http.MethodPost)
	r.HandleFuncE("/api/subscriptions/{subscriptionID}/fetch", srvr.postFetchSubscription).Methods(http.MethodPost)

	// Subscription management
	r.HandleFuncE("/api/subscriptions", srvr.getSubscriptions).Methods(http.MethodGet)
	r.HandleFuncE("/api/subscriptions", srvr.postSubscriptions).Methods(http.MethodPost)
	r.HandleFuncE("/api/subscriptions/{subscriptionID}", srvr.deleteSubscription).Methods(http.MethodDelete)

	// Channels and tags
	r.HandleFuncE("/api/channels", srvr.getChannels).Methods(http.MethodGet)
	r.HandleFuncE("/api/channels/{channelID}", srvr.patchChannel).Methods(http.MethodPatch)
	r.HandleFuncE("/api/channels/{channelID}/tags", srvr.postChannelTag).Methods(http.MethodPost)
	r.HandleFuncE("/api/channels/{channelID}/tags/{tagID}", srvr.deleteChannelTag).Methods(http.MethodDelete)
	r.HandleFuncE("/api/tags", srvr.getTags).Methods(http.MethodGet)

	// Filters and criteria
	r.HandleFuncE("/api/filters", srvr.getFilters).Methods(http.MethodGet)
	r.HandleFuncE("/api/filters", srvr.postFilters).Methods(http.MethodPost)
	r.HandleFuncE("/api/filters/{filterID}", srvr.deleteFilter).Methods(http.MethodDelete)
	r.HandleFuncE("/api/filters/{filterID}/criteria", srvr.postCriteria).Methods(http.MethodPost)
	r.HandleFuncE("/api/filters/{filterID}/criteria/{criteriaID}", srvr.deleteCriteria).Methods(http.MethodDelete)
	r.HandleFuncE("/api/filters/{filterID}/subscriptions", srvr.postFilterSubscription).Methods(http.MethodPost)
	r.HandleFuncE("/api/filters/{filterID}/videos", srvr.getFilterVideos).Methods(http.MethodGet)

	// Filter groups
	r.HandleFuncE("/api/filter-groups", srvr.getFilterGroups).Methods(http.MethodGet)
	r.HandleFuncE("/api/filter-groups", srvr.postFilterGroups).Methods(http.MethodPost)
	r.HandleFuncE("/api/filter-groups/{groupID}", srvr.deleteFilterGroup).Methods(http.MethodDelete)
	r.HandleFuncE("/api/filter-groups/{groupID}/filters", srvr.postGroupFilter).Methods(http.MethodPost)
	r.HandleFuncE("/api/filter-groups/{groupID}/videos", srvr.getGroupVideos).Methods(http.MethodGet)

	// Videos
	r.HandleFuncE("/api/videos/{videoID}", srvr.getVideo).Methods(http.MethodGet)
	r.HandleFuncE("/api/videos/read", srvr.postVideosRead).Methods(http.MethodPost)

	slog.Debug("configured api server", "port", config.Port)

	return &srvr
}
