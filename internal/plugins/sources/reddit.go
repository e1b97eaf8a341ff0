package sources

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pders01/nds/internal/plugins"
)

var redditHosts = []string{"reddit.com", "www.reddit.com", "old.reddit.com"}

// RedditPlugin turns subreddit URLs into their RSS feed.
type RedditPlugin struct{}

func NewRedditPlugin() *RedditPlugin {
	return &RedditPlugin{}
}

func (p *RedditPlugin) Name() string { return "reddit" }

func (p *RedditPlugin) Priority() int { return 50 }

func (p *RedditPlugin) CanHandle(raw string) bool {
	u, ok := hostIs(raw, redditHosts...)
	if !ok {
		return false
	}
	segs := segments(u)
	return len(segs) >= 2 && segs[0] == "r"
}

func (p *RedditPlugin) EnhanceFeed(_ context.Context, raw string, _ *http.Client) (*plugins.FeedInfo, error) {
	u, ok := hostIs(raw, redditHosts...)
	if !ok {
		return nil, fmt.Errorf("not a reddit URL: %s", raw)
	}
	segs := segments(u)
	if len(segs) < 2 || segs[0] != "r" {
		return nil, fmt.Errorf("not a subreddit URL: %s", raw)
	}
	sub := segs[1]

	return &plugins.FeedInfo{
		OriginalURL: raw,
		FeedURL:     "https://www.reddit.com/r/" + sub + "/.rss",
		Title:       "Reddit - r/" + sub,
		Description: "Posts from r/" + sub,
		Metadata: map[string]string{
			"plugin":    "reddit",
			"subreddit": sub,
		},
	}, nil
}
