package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/nds/internal/content"
	"github.com/pders01/nds/internal/media"
	"github.com/pders01/nds/internal/search"
	"github.com/pders01/nds/internal/storage"
)

const (
	newsLimit   = 100
	searchLimit = 20
)

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

// seedContent stores the bundled posts and news on first run.
func (a *App) seedContent() tea.Cmd {
	return func() tea.Msg {
		posts := a.content.SeedPosts(time.Now())
		seeded, err := a.store.SeedPosts(posts)
		if err != nil {
			return seededMsg{err: wrapErr("seeding posts", err)}
		}
		if seeded {
			a.indexPosts(posts)
		}

		existing, err := a.store.GetNewsItems("", 1)
		if err != nil {
			return seededMsg{err: wrapErr("reading news", err)}
		}
		if len(existing) == 0 {
			items := a.content.NewsItems()
			if err := retryOperation(func() error { return a.store.SaveNewsItems(items) }); err != nil {
				return seededMsg{err: wrapErr("seeding news", err)}
			}
			a.indexNews(items)
		}
		return seededMsg{}
	}
}

func (a *App) loadPosts() tea.Cmd {
	return func() tea.Msg {
		posts, err := a.store.GetPosts()
		if err != nil {
			return errorMsg{err: wrapErr("loading posts", err)}
		}
		return postsLoadedMsg{posts: posts}
	}
}

func (a *App) loadNews() tea.Cmd {
	return func() tea.Msg {
		items, err := a.store.GetNewsItems("", newsLimit)
		if err != nil {
			return errorMsg{err: wrapErr("loading news", err)}
		}
		return newsLoadedMsg{items: items}
	}
}

// refreshNews pulls the configured feeds. Nil when none are configured.
func (a *App) refreshNews() tea.Cmd {
	if a.feeds == nil || len(a.config.News.Feeds) == 0 {
		return nil
	}
	return func() tea.Msg {
		timeout := a.config.News.HTTPTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		ctx, cancel := context.WithTimeout(a.ctx, 2*timeout)
		defer cancel()

		result, err := a.feeds.RefreshAll(ctx)
		if result.Updated > 0 {
			if items, loadErr := a.store.GetNewsItems("", newsLimit); loadErr == nil {
				a.indexNews(items)
			}
		}
		return newsRefreshedMsg{result: result, err: err}
	}
}

func (a *App) createPost(text string) tea.Cmd {
	return func() tea.Msg {
		if strings.TrimSpace(text) == "" {
			return postCreatedMsg{err: storage.ErrEmptyPost}
		}
		var post *storage.Post
		err := retryOperation(func() (err error) {
			post, err = a.store.CreatePost(text)
			return err
		})
		if err != nil {
			return postCreatedMsg{err: wrapErr("creating post", err)}
		}
		a.indexPosts([]*storage.Post{post})
		return postCreatedMsg{post: post}
	}
}

func (a *App) likePost(id string) tea.Cmd {
	return func() tea.Msg {
		post, err := a.store.LikePost(id)
		if err != nil {
			return postLikedMsg{err: wrapErr("liking post", err)}
		}
		return postLikedMsg{post: post}
	}
}

// sharePost copies a link to the post.
func (a *App) sharePost(post *storage.Post) tea.Cmd {
	link := a.config.Shell.ShareURL
	if post != nil {
		link = fmt.Sprintf("%s#post-%s", strings.TrimRight(link, "/"), post.ID)
	}
	return func() tea.Msg {
		return linkCopiedMsg{err: copyToClipboard(link)}
	}
}

// linkOpener launches a news link outside the terminal.
type linkOpener interface {
	Open(link string) error
}

func (a *App) openLink(link string) tea.Cmd {
	opener := a.links
	return func() tea.Msg {
		if opener == nil {
			return linkOpenedMsg{err: media.ErrNoOpener}
		}
		return linkOpenedMsg{err: opener.Open(link)}
	}
}

func (a *App) renderArticle(article content.Article) tea.Cmd {
	width := a.width
	return func() tea.Msg {
		var md strings.Builder
		md.WriteString(fmt.Sprintf("# %s\n\n", article.Title))
		md.WriteString(fmt.Sprintf("*%s*\n\n", article.Category))
		md.WriteString("---\n\n")
		md.WriteString(article.Body)

		r, err := a.getRenderer(width)
		if err != nil {
			return articleRenderedMsg{content: "Error initializing renderer: " + err.Error()}
		}
		rendered, err := r.Render(md.String())
		if err != nil {
			return articleRenderedMsg{content: fmt.Sprintf("Failed to render article: %s\n\nPress Escape to go back.", err)}
		}
		return articleRenderedMsg{content: rendered}
	}
}

func (a *App) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := a.searcher.Search(query, searchLimit)
		if err != nil {
			return errorMsg{err: wrapErr("search", err)}
		}
		return searchResultsMsg{query: query, results: results}
	}
}

func (a *App) indexPosts(posts []*storage.Post) {
	if l, ok := a.searcher.(search.UpdateListener); ok {
		l.OnPostsUpdated(posts)
	}
}

func (a *App) indexNews(items []*storage.NewsItem) {
	if l, ok := a.searcher.(search.UpdateListener); ok {
		l.OnNewsUpdated(items)
	}
}

// docCount is the search index size, or -1 when the engine does not keep one.
func (a *App) docCount() int {
	if c, ok := a.searcher.(search.DocCounter); ok {
		if n, err := c.DocCount(); err == nil {
			return n
		}
	}
	return -1
}

// retryOperation retries a database operation up to 3 times with exponential backoff
func retryOperation(operation func() error) error {
	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		if err := operation(); err != nil {
			lastErr = err
			if i < maxRetries-1 {
				time.Sleep(baseDelay * time.Duration(1<<i))
				continue
			}
		} else {
			return nil
		}
	}
	return lastErr
}
