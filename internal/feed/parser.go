package feed

import (
	"crypto/sha256"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/pders01/nds/internal/storage"
)

// DefaultCategory is used for items whose feed carries no category.
const DefaultCategory = "General"

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

type Parser struct {
	parser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		parser: gofeed.NewParser(),
	}
}

// Parse turns an RSS, Atom or JSON feed into news items.
func (p *Parser) Parse(reader io.Reader, feedID string) (string, []*storage.NewsItem, error) {
	parsed, err := p.parser.Parse(reader)
	if err != nil {
		return "", nil, fmt.Errorf("parsing feed: %w", err)
	}

	items := make([]*storage.NewsItem, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		news := &storage.NewsItem{
			ID:       itemID(feedID, item),
			FeedID:   feedID,
			Title:    strings.TrimSpace(item.Title),
			Summary:  plainText(item.Description),
			Content:  getContent(item),
			URL:      item.Link,
			Category: DefaultCategory,
		}
		if len(item.Categories) > 0 && strings.TrimSpace(item.Categories[0]) != "" {
			news.Category = strings.TrimSpace(item.Categories[0])
		}
		if news.Summary == "" {
			news.Summary = plainText(item.Content)
		}

		if item.PublishedParsed != nil {
			news.Published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			news.Published = *item.UpdatedParsed
		}

		items = append(items, news)
	}

	return strings.TrimSpace(parsed.Title), items, nil
}

func getContent(item *gofeed.Item) string {
	if item.Content != "" {
		return item.Content
	}
	return item.Description
}

// plainText strips markup and collapses whitespace.
func plainText(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

// itemID is stable across refreshes so re-fetched items overwrite
// themselves.
func itemID(feedID string, item *gofeed.Item) string {
	key := item.GUID
	if key == "" {
		key = item.Link
	}
	if key == "" {
		key = item.Title
	}
	sum := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%s:%x", feedID, sum[:8])
}
