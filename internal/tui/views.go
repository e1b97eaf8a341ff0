package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/nds/internal/content"
	"github.com/pders01/nds/internal/search"
	"github.com/pders01/nds/internal/shell"
	"github.com/pders01/nds/internal/storage"
)

const (
	mapWidth  = 48
	mapHeight = 12
)

func (a *App) viewSection(sec shell.Section) string {
	var body string
	switch sec {
	case shell.Home:
		body = a.viewHome()
	case shell.Scoreboard:
		body = a.viewScoreboard()
	case shell.Venues:
		body = a.viewVenues()
	case shell.News:
		body = a.viewNews()
	case shell.Articles:
		body = a.viewArticles()
	case shell.Community:
		body = a.viewCommunity()
	}
	subtitle := Tagline
	if !a.shell.Online() {
		subtitle += " • offline"
	}
	return lipgloss.JoinVertical(lipgloss.Top, renderHeader(CompactLogo+" "+sec.Title(), subtitle, a.width), "", body)
}

func (a *App) viewHome() string {
	var rows []string
	if a.height >= 24 {
		rows = append(rows, GetCompactBanner(Tagline), "")
	}

	if idx := a.surface.activeSlide(); idx >= 0 && idx < len(a.content.Slides) {
		slide := a.content.Slides[idx]
		card := lipgloss.JoinVertical(lipgloss.Left,
			TitleStyle.Render(slide.Title),
			"",
			wrapText(slide.Subtitle, max(a.width-8, 20)),
		)
		rows = append(rows, CardStyle.Render(card))
	}

	dots := make([]string, len(a.surface.indicators))
	for i, on := range a.surface.indicators {
		if on {
			dots[i] = LogoStyle.Render("●")
		} else {
			dots[i] = renderMuted("○")
		}
	}
	rows = append(rows, strings.Join(dots, " "), "")

	quick := []string{"s: Live scores", "v: Venues", "n: News", "a: Articles", "c: Community"}
	rows = append(rows, renderHelp(strings.Join(quick, "   ")))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *App) viewScoreboard() string {
	sb := a.content.Scoreboard
	rows := []string{
		HeaderStyle.Render(sb.Event),
		"Time remaining " + CountdownStyle.Render(a.surface.countdown),
		"",
		renderMuted("date  ") + renderChips(append([]string{categoryAll}, sb.Dates...), a.dateFilter),
		renderMuted("place ") + renderChips(append([]string{categoryAll}, sb.Locations...), a.locationFilter),
		"",
	}

	board := a.content.Leaderboard(filterValue(a.dateFilter), filterValue(a.locationFilter))
	if len(board) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(rows, renderMuted("No participants match these filters."))...)
	}
	for i, p := range board {
		line := fmt.Sprintf("%2d. %-20s %-16s %3d bulls", i+1, truncateEnd(p.Name, 20), truncateEnd(p.Village, 16), p.BullsTamed)
		if i == 0 {
			line = LogoStyle.Render(line)
		}
		rows = append(rows, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *App) viewVenues() string {
	view := a.surface.venueView
	rows := []string{
		renderChips([]string{string(shell.VenueList), string(shell.VenueMap)}, string(view)),
		"",
	}
	if view == shell.VenueMap {
		rows = append(rows, renderVenueMap(a.content.Venues))
		for i, v := range a.content.Venues {
			rows = append(rows, renderMuted(fmt.Sprintf("%d %s, %s", i+1, v.Name, v.District)))
		}
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	}
	for _, v := range a.content.Venues {
		rows = append(rows,
			HeaderStyle.Render(v.Name),
			renderMuted(fmt.Sprintf("%s • %s • %d seats", v.District, v.Sport, v.Capacity)),
			"",
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderVenueMap plots venues on a small grid scaled to their bounding box.
func renderVenueMap(venues []content.Venue) string {
	if len(venues) == 0 {
		return renderMuted("No venues")
	}
	minLat, maxLat := math.Inf(1), math.Inf(-1)
	minLon, maxLon := math.Inf(1), math.Inf(-1)
	for _, v := range venues {
		minLat, maxLat = math.Min(minLat, v.Latitude), math.Max(maxLat, v.Latitude)
		minLon, maxLon = math.Min(minLon, v.Longitude), math.Max(maxLon, v.Longitude)
	}

	grid := make([][]rune, mapHeight)
	for y := range grid {
		grid[y] = []rune(strings.Repeat("·", mapWidth))
	}
	scale := func(v, lo, hi float64, n int) int {
		if hi-lo == 0 {
			return n / 2
		}
		return int((v - lo) / (hi - lo) * float64(n-1))
	}
	for i, v := range venues {
		x := scale(v.Longitude, minLon, maxLon, mapWidth)
		y := mapHeight - 1 - scale(v.Latitude, minLat, maxLat, mapHeight)
		marker := '*'
		if i < 9 {
			marker = rune('1' + i)
		}
		grid[y][x] = marker
	}

	lines := make([]string, len(grid))
	for i, row := range grid {
		lines[i] = string(row)
	}
	return CardStyle.Render(strings.Join(lines, "\n"))
}

func (a *App) viewNews() string {
	active := a.surface.categories[shell.News]
	rows := []string{renderChips(a.newsCategories(), orAll(active)), ""}

	width := max(a.width-4, 20)
	items := a.visibleNews()
	for i, item := range items {
		meta := item.Category
		if !item.Published.IsZero() {
			meta += " • " + item.Published.Format("Jan 2, 2006")
		}
		title := HeaderStyle.Render(truncateEnd(item.Title, width))
		if i == clamp(a.selectedNews, len(items)) {
			title = SelectedItemStyle.Render("▶ " + truncateEnd(item.Title, width-2))
		}
		rows = append(rows, title, TimeStyle.Render(meta))
		if item.Summary != "" {
			rows = append(rows, wrapText(item.Summary, width))
		}
		if item.URL != "" {
			rows = append(rows, renderMuted(truncateMiddle(item.URL, width)))
		}
		rows = append(rows, "")
	}
	if len(items) == 0 {
		rows = append(rows, renderMuted("No news yet."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *App) viewArticles() string {
	active := a.surface.categories[shell.Articles]
	rows := []string{renderChips(a.articleCategories(), orAll(active)), ""}

	articles := a.content.ArticlesIn(a.surface.category(shell.Articles))
	for i, art := range articles {
		line := fmt.Sprintf("  %s  %s", art.Title, renderMuted(art.Category))
		if i == a.selectedArticle {
			line = SelectedItemStyle.Render("▶ "+art.Title) + "  " + renderMuted(art.Category)
		}
		rows = append(rows, line)
	}
	if len(articles) == 0 {
		rows = append(rows, renderMuted("No articles in this category."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *App) viewCommunity() string {
	if len(a.posts) == 0 {
		return renderCentered(a.width, a.bodyHeight()-2, GetCompactBanner("No posts yet. Press n to share something."))
	}
	now := time.Now()
	width := max(a.width-6, 20)
	var rows []string
	for i, p := range a.posts {
		header := HeaderStyle.Render(p.Author) + " " + TimeStyle.Render(timeAgo(p.CreatedAt, now))
		actions := renderMuted(fmt.Sprintf("👍 %d   💬 %d   🔄 Share", p.Likes, p.Comments))
		card := lipgloss.JoinVertical(lipgloss.Left, header, wrapText(p.Content, width), actions)
		style := CardStyle
		if i == a.selectedPost {
			style = style.BorderForeground(PrimaryColor)
		}
		rows = append(rows, style.Render(card))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *App) viewPostDialog() string {
	box := lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render("Create New Post"),
		"",
		renderInputFrame(a.postInput.View(), a.postInput.Focused(), a.postInput.Width),
		"",
		renderHelp("enter: post • esc: cancel"),
	)
	return renderCentered(a.width, a.bodyHeight(), box)
}

func (a *App) viewSearch() string {
	rows := []string{
		renderHeader("› search", "Posts and news", a.width),
		"",
		renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), a.searchInput.Width),
		"",
	}
	query := strings.TrimSpace(a.searchInput.Value())
	switch {
	case len(a.searchResults) > 0:
		rows = append(rows, renderMuted(MsgResultsCount(len(a.searchResults))))
	case len([]rune(query)) > 1:
		rows = append(rows, renderMuted(MsgNoResults))
	}
	for i, r := range a.searchResults {
		line := resultTitle(r)
		if i == a.selectedResult {
			line = SelectedItemStyle.Render("▶ " + line)
		} else {
			line = "  " + line
		}
		rows = append(rows, line)
		if r.Snippet != "" {
			rows = append(rows, "    "+renderMuted(truncateEnd(r.Snippet, max(a.width-6, 10))))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func resultTitle(r *search.Result) string {
	switch {
	case r.Kind == search.KindPost && r.Post != nil:
		return "💬 " + r.Post.Author + ": " + truncateEnd(r.Post.Content, 60)
	case r.News != nil:
		return "📰 " + r.News.Title
	default:
		return string(r.Kind)
	}
}

func (a *App) viewReader() string {
	if a.loadingArticle {
		return renderCentered(a.width, a.bodyHeight(), renderMuted(MsgLoadingArticle))
	}
	return a.viewport.View()
}

func (a *App) newsCategories() []string {
	cats := []string{categoryAll}
	for _, item := range a.news {
		cats = appendUnique(cats, item.Category)
	}
	return cats
}

// visibleNews is the news list under the active category filter.
func (a *App) visibleNews() []*storage.NewsItem {
	filter := a.surface.category(shell.News)
	if filter == "" {
		return a.news
	}
	var items []*storage.NewsItem
	for _, item := range a.news {
		if strings.EqualFold(item.Category, filter) {
			items = append(items, item)
		}
	}
	return items
}

func (a *App) articleCategories() []string {
	return append([]string{categoryAll}, a.content.ArticleCategories()...)
}

// selectedPostValue returns the highlighted post, if any.
func (a *App) selectedPostValue() *storage.Post {
	if a.selectedPost < 0 || a.selectedPost >= len(a.posts) {
		return nil
	}
	return a.posts[a.selectedPost]
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

func orAll(s string) string {
	if s == "" {
		return categoryAll
	}
	return s
}

func filterValue(s string) string {
	if s == categoryAll {
		return ""
	}
	return s
}

// timeAgo renders a coarse relative time like the post cards show.
func timeAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return strconv.Itoa(int(d.Minutes())) + "m ago"
	case d < 24*time.Hour:
		return strconv.Itoa(int(d.Hours())) + "h ago"
	default:
		return t.Format("Jan 2")
	}
}
