// Package provider holds the per-provider strategy objects: adapters that
// canonicalize URLs and map raw feed entries into videos, and subscription
// handlers that supply fetch options for a user's feed. Both are closed
// static tables looked up by domain or stored handler name.
package provider

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"tubefeed/internal/extractor"
	"tubefeed/internal/tubefeed"
)

// ErrHandlerNotFound is returned when no adapter or subscription handler
// matches a URL or stored handler name.
var ErrHandlerNotFound = errors.New("handler not found")

type (
	// Adapter is the per-provider strategy surface.
	Adapter interface {
		// Name is the stable identifier stored on subscriptions, channels
		// and videos.
		Name() string
		// Domains lists the registrable domains the adapter claims.
		Domains() []string
		// SanitizeVideoURL rewrites a content URL to its one canonical form.
		SanitizeVideoURL(raw string) (string, error)
		// MapEntry turns a raw feed entry into a video record with its
		// canonical URL and deterministic id already set.
		MapEntry(subscriptionID string, e extractor.Entry) (tubefeed.Video, error)
		// ChannelOptions are the flat, zero-length listing options used to
		// fetch channel metadata without videos.
		ChannelOptions() extractor.Options
		// ChannelURL resolves a channel's canonical URL from its remote id.
		ChannelURL(remoteChannelID string) string
	}

	// SubscriptionHandler supplies fetch options for one kind of provider
	// feed (a subscriptions feed, a recommended feed, a single channel).
	SubscriptionHandler interface {
		Name() string
		// Service names the Adapter the handler's feed belongs to.
		Service() string
		// FeedURL is the fixed feed URL, used when the subscription does not
		// carry its own.
		FeedURL() string
		// ImpliesFullySubscribed reports whether the feed only ever contains
		// channels the user is already subscribed to.
		ImpliesFullySubscribed() bool
		// SubscriptionOptions builds the option set for fetching the feed.
		SubscriptionOptions(playlistEnd int, reverse bool) extractor.Options
	}
)

var adapters = []Adapter{
	YouTube{},
	Rumble{},
}

var subscriptionHandlers = []SubscriptionHandler{
	YouTubeSubscription{},
	YouTubeRecommended{},
	YouTubeChannel{},
}

// ForURL selects the adapter claiming the URL's registrable domain.
func ForURL(raw string) (Adapter, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("error parsing url %q: %w", raw, err)
	}

	domain := registrableDomain(u.Hostname())
	for _, a := range adapters {
		for _, d := range a.Domains() {
			if d == domain {
				return a, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: no adapter for url %q", ErrHandlerNotFound, raw)
}

// ForName selects an adapter by its stored handler name.
func ForName(name string) (Adapter, error) {
	for _, a := range adapters {
		if a.Name() == name {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: no adapter named %q", ErrHandlerNotFound, name)
}

// SubscriptionHandlerForName selects a subscription handler by its stored
// handler name.
func SubscriptionHandlerForName(name string) (SubscriptionHandler, error) {
	for _, h := range subscriptionHandlers {
		if h.Name() == name {
			return h, nil
		}
	}
	return nil, fmt.Errorf("%w: no subscription handler named %q", ErrHandlerNotFound, name)
}

// RegisteredAdapterNames lists the adapter names accepted on subscriptions.
func RegisteredAdapterNames() []string {
	names := make([]string, 0, len(adapters))
	for _, a := range adapters {
		names = append(names, a.Name())
	}
	return names
}

// RegisteredSubscriptionHandlerNames lists the accepted subscription
// handler names.
func RegisteredSubscriptionHandlerNames() []string {
	names := make([]string, 0, len(subscriptionHandlers))
	for _, h := range subscriptionHandlers {
		names = append(names, h.Name())
	}
	return names
}

// registrableDomain reduces a hostname to its last two labels, so
// "www.youtube.com" and "m.youtube.com" both match "youtube.com".
func registrableDomain(host string) string {
	parts := strings.Split(host, ".")
	if len(parts) <= 2 {
		return host
	}
	return strings.Join(parts[len(parts)-2:], ".")
}
