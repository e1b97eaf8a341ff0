package plugins

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// FeedInfo is what a source plugin learned about a configured news URL.
type FeedInfo struct {
	// URL as configured
	OriginalURL string
	// URL the fetcher should poll
	FeedURL string
	// Display title used until the feed reports its own
	Title       string
	Description string
	Metadata    map[string]string
}

// Plugin turns a site URL into the feed URL that carries its news.
type Plugin interface {
	Name() string

	// CanHandle reports whether the plugin recognises url.
	CanHandle(url string) bool

	// EnhanceFeed may issue HTTP requests, for example to resolve a
	// channel handle to its ID.
	EnhanceFeed(ctx context.Context, url string, client *http.Client) (*FeedInfo, error)

	// Priority breaks ties between plugins that handle the same URL.
	Priority() int
}

type Registry struct {
	plugins []Plugin
	client  *http.Client
}

func NewRegistry(timeout time.Duration) *Registry {
	return &Registry{
		client: &http.Client{Timeout: timeout},
	}
}

func (r *Registry) Register(plugins ...Plugin) {
	r.plugins = append(r.plugins, plugins...)
}

// FindPlugin returns the highest priority plugin that handles url, or nil.
func (r *Registry) FindPlugin(url string) Plugin {
	var best Plugin
	highest := -1
	for _, p := range r.plugins {
		if p.CanHandle(url) && p.Priority() > highest {
			best = p
			highest = p.Priority()
		}
	}
	return best
}

// EnhanceFeed resolves url through the best plugin. URLs no plugin handles
// come back unchanged.
func (r *Registry) EnhanceFeed(ctx context.Context, url string) (*FeedInfo, error) {
	plugin := r.FindPlugin(url)
	if plugin == nil {
		return &FeedInfo{
			OriginalURL: url,
			FeedURL:     url,
			Metadata:    map[string]string{},
		}, nil
	}
	return plugin.EnhanceFeed(ctx, url, r.client)
}

// ListPlugins returns the registered plugins by name.
func (r *Registry) ListPlugins() []Plugin {
	out := append([]Plugin(nil), r.plugins...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
