package tui

import (
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/nds/internal/config"
	"github.com/pders01/nds/internal/search"
	"github.com/pders01/nds/internal/shell"
)

// quickKeys are the home section's quick action shortcuts.
var quickKeys = map[string]shell.Section{
	"s": shell.Scoreboard,
	"v": shell.Venues,
	"n": shell.News,
	"a": shell.Articles,
	"c": shell.Community,
}

type KeyHandler struct {
	app         *App
	config      *config.Config
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := cfg.Keys.Modifier + "+"
	return &KeyHandler{app: app, config: cfg, modifierKey: modifierKey}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	kh.app.err = nil

	switch kh.app.mode {
	case ModePostDialog:
		return kh.handlePostDialog(msg)
	case ModeSearch:
		return kh.handleSearch(msg)
	case ModeReader:
		return kh.handleReader(msg)
	}

	if model, cmd, handled := kh.handleGlobalKeys(key); handled {
		return model, cmd
	}
	return kh.handleSectionKeys(key)
}

func (kh *KeyHandler) handleGlobalKeys(key string) (tea.Model, tea.Cmd, bool) {
	app := kh.app

	switch key {
	case "ctrl+c", "q":
		model, cmd := app.quit()
		return model, cmd, true
	case "tab":
		kh.stepSection(1)
		return app, nil, true
	case "shift+tab":
		kh.stepSection(-1)
		return app, nil, true
	case "f":
		app.dispatch(shell.Click{Target: shell.TargetFAB})
		return app, nil, true
	case "t":
		app.dispatch(shell.Click{Target: shell.TargetLanguage})
		return app, nil, true
	case "/", kh.modifierKey + "s":
		return app, kh.enterSearch(), true
	case kh.modifierKey + "r":
		cmd := app.refreshNews()
		if cmd == nil {
			app.showToast(MsgNoFeeds, StatusWarn)
			return app, nil, true
		}
		app.showToast(MsgRefreshing, StatusInfo)
		return app, cmd, true
	}

	if n, err := strconv.Atoi(key); err == nil {
		sections := shell.Sections()
		if n >= 1 && n <= len(sections) {
			app.dispatch(shell.Click{Target: shell.TargetNav, Section: string(sections[n-1])})
			return app, nil, true
		}
	}
	return app, nil, false
}

func (kh *KeyHandler) handleSectionKeys(key string) (tea.Model, tea.Cmd) {
	app := kh.app

	switch app.shell.Current() {
	case shell.Home:
		switch key {
		case "left", "h":
			kh.stepSlide(-1)
		case "right", "l":
			kh.stepSlide(1)
		default:
			if sec, ok := quickKeys[key]; ok {
				app.dispatch(shell.Click{Target: shell.TargetQuick, Section: string(sec)})
			}
		}

	case shell.Scoreboard:
		sb := app.content.Scoreboard
		switch key {
		case "d":
			app.dateFilter = nextOption(append([]string{categoryAll}, sb.Dates...), app.dateFilter)
			app.dispatch(shell.Click{Target: shell.TargetDateFilter, Category: app.dateFilter})
		case "l":
			app.locationFilter = nextOption(append([]string{categoryAll}, sb.Locations...), app.locationFilter)
			app.dispatch(shell.Click{Target: shell.TargetLocationFilter, Category: app.locationFilter})
		}

	case shell.Venues:
		if key == "v" {
			next := shell.VenueMap
			if app.shell.VenueView() == shell.VenueMap {
				next = shell.VenueList
			}
			app.dispatch(shell.Click{Target: shell.TargetViewToggle, View: string(next)})
		}

	case shell.News:
		items := app.visibleNews()
		switch key {
		case "c":
			kh.cycleCategory(shell.News, app.newsCategories())
			app.selectedNews = 0
		case "up", "k":
			app.selectedNews = clamp(app.selectedNews-1, len(items))
		case "down", "j":
			app.selectedNews = clamp(app.selectedNews+1, len(items))
		case "o", "enter":
			if len(items) > 0 {
				return app, app.openLink(items[clamp(app.selectedNews, len(items))].URL)
			}
		}

	case shell.Articles:
		articles := app.content.ArticlesIn(app.surface.category(shell.Articles))
		switch key {
		case "c":
			kh.cycleCategory(shell.Articles, app.articleCategories())
			app.selectedArticle = 0
		case "up", "k":
			app.selectedArticle = clamp(app.selectedArticle-1, len(articles))
		case "down", "j":
			app.selectedArticle = clamp(app.selectedArticle+1, len(articles))
		case "enter":
			if len(articles) > 0 {
				app.mode = ModeReader
				app.loadingArticle = true
				return app, app.renderArticle(articles[clamp(app.selectedArticle, len(articles))])
			}
		}

	case shell.Community:
		switch key {
		case "up", "k":
			app.selectedPost = clamp(app.selectedPost-1, len(app.posts))
		case "down", "j":
			app.selectedPost = clamp(app.selectedPost+1, len(app.posts))
		case "n":
			app.dispatch(shell.Click{Target: shell.TargetNewPost})
		case "l":
			if p := app.selectedPostValue(); p != nil {
				return app, app.likePost(p.ID)
			}
		case "m":
			app.showToast(MsgCommentsSoon, StatusInfo)
		case "s":
			return app, app.sharePost(app.selectedPostValue())
		}
	}
	return app, nil
}

func (kh *KeyHandler) handlePostDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app := kh.app
	switch msg.String() {
	case "ctrl+c":
		return app.quit()
	case "esc":
		app.closePostDialog()
		return app, nil
	case "enter":
		text := strings.TrimSpace(app.postInput.Value())
		if text == "" {
			return app, nil
		}
		app.closePostDialog()
		return app, app.createPost(text)
	}
	var cmd tea.Cmd
	app.postInput, cmd = app.postInput.Update(msg)
	return app, cmd
}

func (kh *KeyHandler) enterSearch() tea.Cmd {
	app := kh.app
	app.mode = ModeSearch
	app.searchInput.Reset()
	app.searchResults = nil
	app.selectedResult = 0
	return app.searchInput.Focus()
}

func (kh *KeyHandler) handleSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app := kh.app
	switch msg.String() {
	case "ctrl+c":
		return app.quit()
	case "esc":
		app.searchInput.Blur()
		app.mode = ModeBrowse
		return app, nil
	case "up":
		app.selectedResult = clamp(app.selectedResult-1, len(app.searchResults))
		return app, nil
	case "down", "tab":
		app.selectedResult = clamp(app.selectedResult+1, len(app.searchResults))
		return app, nil
	case "enter":
		if len(app.searchResults) > 0 {
			kh.openResult(app.searchResults[clamp(app.selectedResult, len(app.searchResults))])
		}
		return app, nil
	}

	before := app.searchInput.Value()
	var cmd tea.Cmd
	app.searchInput, cmd = app.searchInput.Update(msg)
	if app.searchInput.Value() == before {
		return app, cmd
	}

	app.searchSeq++
	seq := app.searchSeq
	return app, tea.Batch(cmd, tea.Tick(app.searchWait, func(time.Time) tea.Msg {
		return searchDebounceFireMsg{seq: seq}
	}))
}

// openResult leaves search and shows the hit in its section.
func (kh *KeyHandler) openResult(r *search.Result) {
	app := kh.app
	app.searchInput.Blur()
	app.mode = ModeBrowse

	switch {
	case r.Kind == search.KindPost && r.Post != nil:
		app.dispatch(shell.Click{Target: shell.TargetNav, Section: string(shell.Community)})
		for i, p := range app.posts {
			if p.ID == r.Post.ID {
				app.selectedPost = i
			}
		}
	case r.News != nil:
		app.dispatch(shell.Click{Target: shell.TargetNav, Section: string(shell.News)})
		app.surface.SetCategory(shell.News, categoryAll)
		for i, n := range app.news {
			if n.ID == r.News.ID {
				app.selectedNews = i
			}
		}
	}
}

func (kh *KeyHandler) handleReader(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app := kh.app
	switch msg.String() {
	case "ctrl+c", "q":
		return app.quit()
	case "esc", "backspace":
		app.mode = ModeBrowse
		app.loadingArticle = false
		return app, nil
	}
	var cmd tea.Cmd
	app.viewport, cmd = app.viewport.Update(msg)
	return app, cmd
}

func (kh *KeyHandler) stepSection(delta int) {
	sections := shell.Sections()
	idx := kh.app.shell.Current().Index()
	next := sections[(idx+delta+len(sections))%len(sections)]
	kh.app.dispatch(shell.Click{Target: shell.TargetNav, Section: string(next)})
}

func (kh *KeyHandler) stepSlide(delta int) {
	c := kh.app.shell.Carousel()
	n := c.Count()
	if n == 0 {
		return
	}
	kh.app.dispatch(shell.Click{Target: shell.TargetDot, Index: (c.Current() + delta + n) % n})
}

func (kh *KeyHandler) cycleCategory(sec shell.Section, options []string) {
	next := nextOption(options, orAll(kh.app.surface.categories[sec]))
	kh.app.dispatch(shell.Click{Target: shell.TargetCategory, Section: string(sec), Category: next})
}

// nextOption returns the option after current, wrapping around.
func nextOption(options []string, current string) string {
	if len(options) == 0 {
		return current
	}
	idx := 0
	for i, o := range options {
		if o == current {
			idx = i
		}
	}
	return options[(idx+1)%len(options)]
}

// GetHelpForCurrentView returns the key hints for the status bar.
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	switch kh.app.mode {
	case ModePostDialog:
		return []string{"enter: post", "esc: cancel"}
	case ModeSearch:
		return []string{"↑↓: select", "enter: open", "esc: back"}
	case ModeReader:
		return []string{"↑↓: scroll", "esc: back"}
	}

	help := []string{"1-6: sections", "/: search"}
	switch kh.app.shell.Current() {
	case shell.Home:
		help = append(help, "←→: slides")
	case shell.Scoreboard:
		help = append(help, "d: date", "l: location")
	case shell.Venues:
		help = append(help, "v: list/map")
	case shell.News:
		help = append(help, "c: category", "o: open", kh.modifierKey+"r: refresh")
	case shell.Articles:
		help = append(help, "c: category", "enter: read")
	case shell.Community:
		help = append(help, "n: new", "l: like", "m: comment", "s: share")
	}
	return help
}
