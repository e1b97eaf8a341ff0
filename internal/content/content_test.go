package content

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Len(t, c.Slides, 3)
	assert.NotEmpty(t, c.Venues)
	assert.NotEmpty(t, c.Articles)
	assert.Equal(t, "Alanganallur Jallikattu", c.Scoreboard.Event)
	assert.Equal(t, []string{"Events", "Policy", "Results"}, c.NewsCategories())
	assert.Equal(t, []string{"History", "Culture", "Training"}, c.ArticleCategories())
	assert.Equal(t, 2025, c.News[0].Published.Year())
}

func TestParse_RequiresSlides(t *testing.T) {
	_, err := Parse([]byte("[scoreboard]\nevent = \"x\"\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("not = [toml"))
	assert.Error(t, err)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[slides]]\ntitle = \"Only\"\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.Slides, 1)
	assert.Equal(t, "Only", c.Slides[0].Title)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLeaderboard(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	all := c.Leaderboard("", "")
	require.Len(t, all, len(c.Participants))
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].BullsTamed, all[i].BullsTamed)
	}

	byLocation := c.Leaderboard("", "alanganallur")
	require.Len(t, byLocation, 2)
	assert.Equal(t, "Karthik Raja", byLocation[0].Name)

	byDate := c.Leaderboard("2025-01-15", "")
	require.Len(t, byDate, 1)
	assert.Equal(t, "Senthil Kumar", byDate[0].Name)

	assert.Empty(t, c.Leaderboard("2025-01-15", "Alanganallur"))
}

func TestArticlesIn(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Len(t, c.ArticlesIn(""), len(c.Articles))
	history := c.ArticlesIn("history")
	require.Len(t, history, 1)
	assert.Contains(t, history[0].Body, "vadi vasal")
}

func TestSeedConversions(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	now := time.Date(2025, 1, 16, 12, 0, 0, 0, time.UTC)

	posts := c.SeedPosts(now)
	require.Len(t, posts, 2)
	assert.Equal(t, now.Add(-2*time.Hour), posts[0].CreatedAt)
	assert.Equal(t, 24, posts[0].Likes)

	items := c.NewsItems()
	require.Len(t, items, len(c.News))
	assert.Equal(t, "seed", items[0].FeedID)
	assert.NotEqual(t, items[0].ID, items[1].ID)
	assert.Equal(t, "https://nds.example.org/news/season-schedule", items[0].URL)
}
