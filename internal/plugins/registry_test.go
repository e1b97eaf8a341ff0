package plugins

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPlugin struct {
	name      string
	priority  int
	canHandle func(string) bool
	enhance   func(context.Context, string, *http.Client) (*FeedInfo, error)
}

func (m *mockPlugin) Name() string              { return m.name }
func (m *mockPlugin) Priority() int             { return m.priority }
func (m *mockPlugin) CanHandle(url string) bool { return m.canHandle(url) }

func (m *mockPlugin) EnhanceFeed(ctx context.Context, url string, client *http.Client) (*FeedInfo, error) {
	return m.enhance(ctx, url, client)
}

func handles(target string) func(string) bool {
	return func(url string) bool { return url == target }
}

func TestRegistry_FindPlugin(t *testing.T) {
	registry := NewRegistry(5 * time.Second)
	low := &mockPlugin{name: "low", priority: 10, canHandle: handles("https://madurai.example")}
	high := &mockPlugin{name: "high", priority: 100, canHandle: handles("https://madurai.example")}
	other := &mockPlugin{name: "other", priority: 200, canHandle: handles("https://salem.example")}
	registry.Register(low, high, other)

	assert.Equal(t, high, registry.FindPlugin("https://madurai.example"))
	assert.Equal(t, other, registry.FindPlugin("https://salem.example"))
	assert.Nil(t, registry.FindPlugin("https://trichy.example"))
}

func TestRegistry_EnhanceFeed(t *testing.T) {
	registry := NewRegistry(5 * time.Second)
	var gotClient *http.Client
	registry.Register(&mockPlugin{
		name:      "test",
		priority:  50,
		canHandle: handles("https://madurai.example"),
		enhance: func(_ context.Context, url string, client *http.Client) (*FeedInfo, error) {
			gotClient = client
			return &FeedInfo{OriginalURL: url, FeedURL: url + "/rss", Title: "Madurai"}, nil
		},
	})

	info, err := registry.EnhanceFeed(context.Background(), "https://madurai.example")
	require.NoError(t, err)
	assert.Equal(t, "https://madurai.example/rss", info.FeedURL)
	assert.Equal(t, "Madurai", info.Title)
	require.NotNil(t, gotClient)
	assert.Equal(t, 5*time.Second, gotClient.Timeout)

	info, err = registry.EnhanceFeed(context.Background(), "https://trichy.example/feed")
	require.NoError(t, err)
	assert.Equal(t, "https://trichy.example/feed", info.FeedURL)
	assert.Empty(t, info.Title)
}

func TestRegistry_EnhanceFeedError(t *testing.T) {
	registry := NewRegistry(time.Second)
	registry.Register(&mockPlugin{
		name:      "broken",
		canHandle: func(string) bool { return true },
		enhance: func(context.Context, string, *http.Client) (*FeedInfo, error) {
			return nil, errors.New("lookup failed")
		},
	})

	_, err := registry.EnhanceFeed(context.Background(), "https://madurai.example")
	assert.EqualError(t, err, "lookup failed")
}

func TestRegistry_ListPlugins(t *testing.T) {
	registry := NewRegistry(time.Second)
	registry.Register(&mockPlugin{name: "youtube"}, &mockPlugin{name: "reddit"})

	list := registry.ListPlugins()
	require.Len(t, list, 2)
	assert.Equal(t, "reddit", list[0].Name())
	assert.Equal(t, "youtube", list[1].Name())
}
