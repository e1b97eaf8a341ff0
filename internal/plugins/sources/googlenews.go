package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pders01/nds/internal/plugins"
)

// GoogleNewsPlugin turns a Google News search page into its RSS search
// feed, keeping the locale parameters when present.
type GoogleNewsPlugin struct{}

func NewGoogleNewsPlugin() *GoogleNewsPlugin {
	return &GoogleNewsPlugin{}
}

func (p *GoogleNewsPlugin) Name() string { return "googlenews" }

func (p *GoogleNewsPlugin) Priority() int { return 40 }

func (p *GoogleNewsPlugin) CanHandle(raw string) bool {
	u, ok := hostIs(raw, "news.google.com")
	if !ok {
		return false
	}
	segs := segments(u)
	return len(segs) == 1 && segs[0] == "search" && u.Query().Get("q") != ""
}

func (p *GoogleNewsPlugin) EnhanceFeed(_ context.Context, raw string, _ *http.Client) (*plugins.FeedInfo, error) {
	u, ok := hostIs(raw, "news.google.com")
	if !ok || u.Query().Get("q") == "" {
		return nil, fmt.Errorf("not a google news search URL: %s", raw)
	}
	in := u.Query()
	query := in.Get("q")

	out := url.Values{"q": {query}}
	for _, key := range []string{"hl", "gl", "ceid"} {
		if v := in.Get(key); v != "" {
			out.Set(key, v)
		}
	}

	return &plugins.FeedInfo{
		OriginalURL: raw,
		FeedURL:     "https://news.google.com/rss/search?" + out.Encode(),
		Title:       "Google News - " + strings.TrimSpace(query),
		Description: "Headlines matching " + query,
		Metadata: map[string]string{
			"plugin": "googlenews",
			"query":  query,
		},
	}, nil
}
