package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "test.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SaveAndGetFeed(t *testing.T) {
	store := setupTestStore(t)

	feed := &Feed{
		ID:           "feed-1",
		URL:          "https://news.nds.org/rss",
		Title:        "NDS News",
		LastFetched:  time.Now(),
		ETag:         "\"abc123\"",
		LastModified: "Wed, 01 Jan 2025 00:00:00 GMT",
	}
	require.NoError(t, store.SaveFeed(feed))

	got, err := store.GetFeed("feed-1")
	require.NoError(t, err)
	assert.Equal(t, feed.URL, got.URL)
	assert.Equal(t, feed.Title, got.Title)
	assert.Equal(t, feed.ETag, got.ETag)

	_, err = store.GetFeed("missing")
	assert.ErrorIs(t, err, ErrFeedNotFound)
}

func TestStore_GetAllFeedsSortedByTitle(t *testing.T) {
	store := setupTestStore(t)

	for _, f := range []*Feed{
		{ID: "b", URL: "https://b.nds.org/rss", Title: "beta"},
		{ID: "a", URL: "https://a.nds.org/rss", Title: "Alpha"},
		{ID: "c", URL: "https://c.nds.org/rss"},
	} {
		require.NoError(t, store.SaveFeed(f))
	}

	feeds, err := store.GetAllFeeds()
	require.NoError(t, err)
	require.Len(t, feeds, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{feeds[0].ID, feeds[1].ID, feeds[2].ID})
}

func TestStore_NewsItemsByCategory(t *testing.T) {
	store := setupTestStore(t)
	now := time.Now()

	require.NoError(t, store.SaveNewsItems([]*NewsItem{
		{ID: "n1", FeedID: "f1", Title: "Alanganallur dates", Category: "Events", Published: now.Add(-2 * time.Hour)},
		{ID: "n2", FeedID: "f1", Title: "New bull registry", Category: "Policy", Published: now.Add(-1 * time.Hour)},
		{ID: "n3", FeedID: "f2", Title: "Palamedu results", Category: "events", Published: now},
	}))

	all, err := store.GetNewsItems("", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "n3", all[0].ID, "newest first")

	events, err := store.GetNewsItems("Events", 0)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	limited, err := store.GetNewsItems("", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestStore_DeleteFeedRemovesItsNews(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.SaveFeed(&Feed{ID: "gone", URL: "https://gone.nds.org/rss"}))
	require.NoError(t, store.SaveNewsItems([]*NewsItem{
		{ID: "n1", FeedID: "gone"},
		{ID: "n2", FeedID: "gone"},
		{ID: "n3", FeedID: "kept"},
	}))

	require.NoError(t, store.DeleteFeed("gone"))

	_, err := store.GetFeed("gone")
	assert.Error(t, err)

	remaining, err := store.GetNewsItems("", 0)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "kept", remaining[0].FeedID)
}

func TestStore_CreatePost(t *testing.T) {
	store := setupTestStore(t)
	fixed := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	post, err := store.CreatePost("  Vadi vasal opens at 7am  ")
	require.NoError(t, err)

	_, parseErr := uuid.Parse(post.ID)
	assert.NoError(t, parseErr, "post id is a uuid")
	assert.Equal(t, DefaultAuthor, post.Author)
	assert.Equal(t, "Vadi vasal opens at 7am", post.Content)
	assert.True(t, fixed.Equal(post.CreatedAt))
	assert.Zero(t, post.Likes)

	got, err := store.GetPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Content, got.Content)
}

func TestStore_CreatePostRejectsBlank(t *testing.T) {
	store := setupTestStore(t)

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := store.CreatePost(content)
		assert.ErrorIs(t, err, ErrEmptyPost)
	}

	posts, err := store.GetPosts()
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestStore_GetPostsNewestFirst(t *testing.T) {
	store := setupTestStore(t)
	base := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.SavePost(&Post{
			ID:        fmt.Sprintf("p%d", i),
			Content:   fmt.Sprintf("post %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	posts, err := store.GetPosts()
	require.NoError(t, err)
	require.Len(t, posts, 5)
	for i, p := range posts {
		assert.Equal(t, fmt.Sprintf("p%d", 4-i), p.ID)
	}
}

func TestStore_LikePost(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.SavePost(&Post{ID: "p1", Content: "hi", Likes: 24}))

	post, err := store.LikePost("p1")
	require.NoError(t, err)
	assert.Equal(t, 25, post.Likes)

	post, err = store.LikePost("p1")
	require.NoError(t, err)
	assert.Equal(t, 26, post.Likes)

	_, err = store.LikePost("nope")
	assert.True(t, errors.Is(err, ErrPostNotFound))
}

func TestStore_SeedPostsOnlyWhenEmpty(t *testing.T) {
	store := setupTestStore(t)

	seeded, err := store.SeedPosts([]*Post{{Author: "Murugan", Content: "first"}, {Author: "Lakshmi", Content: "second"}})
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = store.SeedPosts([]*Post{{Author: "Other", Content: "third"}})
	require.NoError(t, err)
	assert.False(t, seeded)

	posts, err := store.GetPosts()
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	store, err := NewStore(path, time.Second)
	require.NoError(t, err)
	post, err := store.CreatePost("kept")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = NewStore(path, time.Second)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.GetPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "kept", got.Content)
}
