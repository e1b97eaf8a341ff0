// Package content holds the static data shown by the app: carousel slides,
// venues, the scoreboard, seed news, articles and seed community posts.
package content

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/nds/internal/storage"
)

//go:embed content.toml
var defaultContent []byte

type Content struct {
	Scoreboard   Scoreboard    `toml:"scoreboard"`
	Slides       []Slide       `toml:"slides"`
	Venues       []Venue       `toml:"venues"`
	Participants []Participant `toml:"participants"`
	News         []News        `toml:"news"`
	Articles     []Article     `toml:"articles"`
	Posts        []Post        `toml:"posts"`
}

type Scoreboard struct {
	Event     string   `toml:"event"`
	Dates     []string `toml:"dates"`
	Locations []string `toml:"locations"`
}

type Slide struct {
	Title    string `toml:"title"`
	Subtitle string `toml:"subtitle"`
}

type Venue struct {
	Name      string  `toml:"name"`
	District  string  `toml:"district"`
	Sport     string  `toml:"sport"`
	Capacity  int     `toml:"capacity"`
	Latitude  float64 `toml:"latitude"`
	Longitude float64 `toml:"longitude"`
}

type Participant struct {
	Name       string `toml:"name"`
	Village    string `toml:"village"`
	BullsTamed int    `toml:"bulls_tamed"`
	Date       string `toml:"date"`
	Location   string `toml:"location"`
}

type News struct {
	Title     string    `toml:"title"`
	Summary   string    `toml:"summary"`
	URL       string    `toml:"url"`
	Category  string    `toml:"category"`
	Published time.Time `toml:"published"`
}

type Article struct {
	Title    string `toml:"title"`
	Category string `toml:"category"`
	Body     string `toml:"body"`
}

type Post struct {
	Author     string `toml:"author"`
	Content    string `toml:"content"`
	Likes      int    `toml:"likes"`
	Comments   int    `toml:"comments"`
	MinutesAgo int    `toml:"minutes_ago"`
}

// Default returns the embedded content.
func Default() (*Content, error) {
	return Parse(defaultContent)
}

// Load reads a content file from disk, or the embedded content when path
// is empty.
func Load(path string) (*Content, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Content, error) {
	var c Content
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing content: %w", err)
	}
	if len(c.Slides) == 0 {
		return nil, fmt.Errorf("parsing content: at least one slide is required")
	}
	return &c, nil
}

// NewsCategories lists the distinct news categories in first-seen order.
func (c *Content) NewsCategories() []string {
	var cats []string
	for _, n := range c.News {
		cats = appendUnique(cats, n.Category)
	}
	return cats
}

// ArticleCategories lists the distinct article categories in first-seen
// order.
func (c *Content) ArticleCategories() []string {
	var cats []string
	for _, a := range c.Articles {
		cats = appendUnique(cats, a.Category)
	}
	return cats
}

// ArticlesIn returns the articles of one category; an empty category
// returns all.
func (c *Content) ArticlesIn(category string) []Article {
	if category == "" {
		return c.Articles
	}
	var out []Article
	for _, a := range c.Articles {
		if strings.EqualFold(a.Category, category) {
			out = append(out, a)
		}
	}
	return out
}

// Leaderboard filters participants by "date" or "location" and sorts them
// by bulls tamed, best first. An empty value disables that filter.
func (c *Content) Leaderboard(date, location string) []Participant {
	var out []Participant
	for _, p := range c.Participants {
		if date != "" && p.Date != date {
			continue
		}
		if location != "" && !strings.EqualFold(p.Location, location) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].BullsTamed > out[j].BullsTamed
	})
	return out
}

// NewsItems converts the seed news for the store.
func (c *Content) NewsItems() []*storage.NewsItem {
	items := make([]*storage.NewsItem, 0, len(c.News))
	for i, n := range c.News {
		items = append(items, &storage.NewsItem{
			ID:        fmt.Sprintf("seed:%d", i),
			FeedID:    "seed",
			Title:     n.Title,
			Summary:   n.Summary,
			URL:       n.URL,
			Category:  n.Category,
			Published: n.Published,
		})
	}
	return items
}

// SeedPosts converts the seed posts, dating them relative to now.
func (c *Content) SeedPosts(now time.Time) []*storage.Post {
	posts := make([]*storage.Post, 0, len(c.Posts))
	for _, p := range c.Posts {
		posts = append(posts, &storage.Post{
			Author:    p.Author,
			Content:   p.Content,
			Likes:     p.Likes,
			Comments:  p.Comments,
			CreatedAt: now.Add(-time.Duration(p.MinutesAgo) * time.Minute),
		})
	}
	return posts
}

func appendUnique(list []string, s string) []string {
	if s == "" {
		return list
	}
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return list
		}
	}
	return append(list, s)
}
