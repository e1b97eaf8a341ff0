package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/nds/internal/plugins"
)

func TestRedditPlugin(t *testing.T) {
	p := NewRedditPlugin()
	tests := []struct {
		url       string
		canHandle bool
		feedURL   string
	}{
		{"https://www.reddit.com/r/Jallikattu", true, "https://www.reddit.com/r/Jallikattu/.rss"},
		{"https://reddit.com/r/tamilnadu/", true, "https://www.reddit.com/r/tamilnadu/.rss"},
		{"https://old.reddit.com/r/kabaddi/top", true, "https://www.reddit.com/r/kabaddi/.rss"},
		{"https://www.reddit.com/user/someone", false, ""},
		{"https://notreddit.com/r/x", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.canHandle, p.CanHandle(tt.url))
			if !tt.canHandle {
				return
			}
			info, err := p.EnhanceFeed(context.Background(), tt.url, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.feedURL, info.FeedURL)
			assert.Equal(t, tt.url, info.OriginalURL)
			assert.Equal(t, "reddit", info.Metadata["plugin"])
		})
	}

	info, err := p.EnhanceFeed(context.Background(), "https://www.reddit.com/r/Jallikattu", nil)
	require.NoError(t, err)
	assert.Equal(t, "Reddit - r/Jallikattu", info.Title)
}

func TestYouTubePlugin_Static(t *testing.T) {
	p := NewYouTubePlugin()
	const id = "UCabcdefghijklmnopqrstuv"

	assert.True(t, p.CanHandle("https://www.youtube.com/channel/"+id))
	assert.True(t, p.CanHandle("https://youtube.com/@ndssports"))
	assert.True(t, p.CanHandle("https://www.youtube.com/playlist?list=PL123"))
	assert.False(t, p.CanHandle("https://www.youtube.com/playlist"))
	assert.False(t, p.CanHandle("https://www.youtube.com/watch?v=abc"))

	info, err := p.EnhanceFeed(context.Background(), "https://www.youtube.com/channel/"+id, nil)
	require.NoError(t, err)
	assert.Equal(t, youtubeFeedBase+"?channel_id="+id, info.FeedURL)

	info, err = p.EnhanceFeed(context.Background(), "https://www.youtube.com/playlist?list=PL123", nil)
	require.NoError(t, err)
	assert.Equal(t, youtubeFeedBase+"?playlist_id=PL123", info.FeedURL)
}

func TestYouTubePlugin_HandleLookup(t *testing.T) {
	const id = "UC0123456789abcdefghijkl"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/@ndssports":
			w.Write([]byte(`<html><script>var data = {"channelId":"` + id + `"};</script></html>`))
		case "/@empty":
			w.Write([]byte(`<html></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	p := &YouTubePlugin{PageBase: server.URL}
	client := &http.Client{Timeout: time.Second}

	info, err := p.EnhanceFeed(context.Background(), "https://www.youtube.com/@ndssports", client)
	require.NoError(t, err)
	assert.Equal(t, youtubeFeedBase+"?channel_id="+id, info.FeedURL)
	assert.Equal(t, "YouTube - @ndssports", info.Title)
	assert.Equal(t, "@ndssports", info.Metadata["handle"])

	_, err = p.EnhanceFeed(context.Background(), "https://www.youtube.com/@empty", client)
	assert.ErrorContains(t, err, "no channel ID")

	_, err = p.EnhanceFeed(context.Background(), "https://www.youtube.com/@missing", client)
	assert.ErrorContains(t, err, "HTTP 404")
}

func TestGoogleNewsPlugin(t *testing.T) {
	p := NewGoogleNewsPlugin()

	assert.False(t, p.CanHandle("https://news.google.com/topstories"))
	assert.False(t, p.CanHandle("https://news.google.com/search"))
	require.True(t, p.CanHandle("https://news.google.com/search?q=jallikattu&hl=en-IN&gl=IN&ceid=IN:en"))

	info, err := p.EnhanceFeed(context.Background(), "https://news.google.com/search?q=jallikattu&hl=en-IN&gl=IN&ceid=IN:en&x=1", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://news.google.com/rss/search?ceid=IN%3Aen&gl=IN&hl=en-IN&q=jallikattu", info.FeedURL)
	assert.Equal(t, "Google News - jallikattu", info.Title)
}

func TestDefaultsInRegistry(t *testing.T) {
	registry := plugins.NewRegistry(time.Second)
	registry.Register(Defaults()...)

	names := []string{}
	for _, p := range registry.ListPlugins() {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"googlenews", "reddit", "youtube"}, names)

	assert.Equal(t, "reddit", registry.FindPlugin("https://reddit.com/r/Jallikattu").Name())
	assert.Nil(t, registry.FindPlugin("https://nds.example.org/rss"))
}
