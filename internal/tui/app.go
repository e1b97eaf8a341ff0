package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/nds/internal/config"
	"github.com/pders01/nds/internal/content"
	"github.com/pders01/nds/internal/debuglog"
	"github.com/pders01/nds/internal/feed"
	"github.com/pders01/nds/internal/media"
	"github.com/pders01/nds/internal/search"
	"github.com/pders01/nds/internal/shell"
	"github.com/pders01/nds/internal/storage"
)

const (
	defaultSearchDebounce = 200 * time.Millisecond
	defaultToastDuration  = 3 * time.Second
	categoryAll           = "All"
)

type App struct {
	ctx        context.Context
	cancel     context.CancelFunc
	config     *config.Config
	store      *storage.Store
	content    *content.Content
	feeds      *feed.Manager
	searcher   search.Searcher
	links      linkOpener
	shell      *shell.Shell
	surface    *tuiSurface
	sched      *teaScheduler
	keyHandler *KeyHandler
	log        *debuglog.FieldLogger

	mode        Mode
	postInput   textinput.Model
	searchInput textinput.Model
	viewport    viewport.Model

	posts         []*storage.Post
	news          []*storage.NewsItem
	searchResults []*search.Result
	searchSeq     int
	searchWait    time.Duration

	selectedPost    int
	selectedArticle int
	selectedNews    int
	selectedResult  int
	dateFilter      string
	locationFilter  string

	toast     string
	toastKind StatusKind
	toastSeq  int

	pressed        bool
	pressX, pressY int

	refreshTask     shell.Task
	width           int
	height          int
	err             error
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
	loadingArticle  bool
}

// NewApp wires the shell to a Bubble Tea model. The shell's timers run on
// the update loop through teaScheduler.
func NewApp(store *storage.Store, cfg *config.Config, c *content.Content) *App {
	ctx, cancel := context.WithCancel(context.Background())

	pi := textinput.New()
	pi.Placeholder = "What's on your mind about Jallikattu?"
	pi.CharLimit = 500

	si := textinput.New()
	si.Placeholder = "Search posts and news..."

	app := &App{
		ctx:            ctx,
		cancel:         cancel,
		config:         cfg,
		store:          store,
		content:        c,
		feeds:          feed.NewManager(store, cfg),
		searcher:       search.New(store),
		surface:        newTUISurface(len(c.Slides)),
		sched:          newTeaScheduler(),
		log:            debuglog.WithFields(map[string]interface{}{"component": "tui"}),
		postInput:      pi,
		searchInput:    si,
		viewport:       viewport.New(0, 0),
		searchWait:     defaultSearchDebounce,
		dateFilter:     categoryAll,
		locationFilter: categoryAll,
	}

	app.shell = shell.New(shell.Options{
		Surface:          app.surface,
		Notifier:         app,
		Scheduler:        app.sched,
		Views:            app.surface,
		Dialogs:          app,
		CarouselInterval: cfg.Shell.CarouselInterval,
		CountdownSeconds: cfg.Shell.CountdownSeconds,
		SwipeThreshold:   cfg.Shell.SwipeThreshold,
	})
	app.keyHandler = NewKeyHandler(app, cfg)

	if opener, err := media.NewOpener(); err != nil {
		app.log.Warnf("link opener: %v", err)
	} else {
		app.links = opener
	}

	return app
}

func (a *App) getRenderer(width int) (*glamour.TermRenderer, error) {
	wordWrapWidth := (width * 9) / 10
	if wordWrapWidth > a.config.UI.WrapWidth && a.config.UI.WrapWidth > 0 {
		wordWrapWidth = a.config.UI.WrapWidth
	}
	if wordWrapWidth < 40 {
		wordWrapWidth = 40
	}
	if width < 50 {
		wordWrapWidth = max(width-4, 20)
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	if err := a.shell.Start(); err != nil {
		a.err = err
	}
	if len(a.config.News.Feeds) > 0 && a.config.News.RefreshInterval > 0 {
		a.refreshTask = a.sched.Every(a.config.News.RefreshInterval, func() {
			a.sched.Defer(a.refreshNews())
		})
	}
	return tea.Batch(
		a.sched.drain(),
		a.seedContent(),
		a.refreshNews(),
		tea.EnterAltScreen,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := a.update(msg)
	return model, tea.Batch(cmd, a.sched.drain())
}

func (a *App) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.viewport.Width = msg.Width
		a.viewport.Height = a.bodyHeight()

		inputWidth := msg.Width - 8
		if inputWidth < 20 {
			inputWidth = msg.Width
		}
		a.postInput.Width = inputWidth
		a.searchInput.Width = inputWidth

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case tea.MouseMsg:
		a.handleMouse(msg)

	case tea.FocusMsg:
		a.dispatch(shell.Visibility{Visible: true})

	case tea.BlurMsg:
		a.dispatch(shell.Visibility{Visible: false})

	case schedTickMsg:
		a.sched.fire(msg)

	case toastExpiredMsg:
		if msg.seq == a.toastSeq {
			a.toast = ""
		}

	case seededMsg:
		if msg.err != nil {
			a.setError(msg.err)
		}
		return a, tea.Batch(a.loadPosts(), a.loadNews())

	case postsLoadedMsg:
		a.posts = msg.posts
		a.selectedPost = clamp(a.selectedPost, len(a.posts))

	case newsLoadedMsg:
		a.news = msg.items

	case newsRefreshedMsg:
		a.dispatch(shell.Connectivity{Online: msg.result.Online})
		switch {
		case msg.err != nil:
			a.log.Warnf("news refresh: %v", msg.err)
			if msg.result.Online {
				a.showToast(MsgRefreshSummary(msg.result.Updated, msg.result.Failed, a.docCount()), StatusWarn)
			}
		case msg.result.Updated > 0:
			a.showToast(MsgRefreshSummary(msg.result.Updated, 0, a.docCount()), StatusSuccess)
		}
		if msg.result.Updated > 0 {
			return a, a.loadNews()
		}

	case postCreatedMsg:
		if msg.err != nil {
			if !errors.Is(msg.err, storage.ErrEmptyPost) {
				a.setError(msg.err)
			}
			return a, nil
		}
		a.posts = append([]*storage.Post{msg.post}, a.posts...)
		a.selectedPost = 0
		a.showToast(MsgPostCreated, StatusSuccess)

	case postLikedMsg:
		if msg.err != nil {
			a.setError(msg.err)
			return a, nil
		}
		for i, p := range a.posts {
			if p.ID == msg.post.ID {
				a.posts[i] = msg.post
			}
		}
		a.showToast(MsgPostLiked, StatusSuccess)

	case linkCopiedMsg:
		if msg.err != nil {
			a.log.Debugf("clipboard: %v", msg.err)
			a.showToast(MsgCopyFailed, StatusError)
		} else {
			a.showToast(MsgLinkCopied, StatusSuccess)
		}

	case linkOpenedMsg:
		if msg.err != nil {
			a.log.Debugf("open link: %v", msg.err)
			a.showToast(MsgOpenFailed, StatusError)
		} else {
			a.showToast(MsgLinkOpened, StatusSuccess)
		}

	case articleRenderedMsg:
		if a.mode == ModeReader {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.loadingArticle = false
		}

	case searchDebounceFireMsg:
		if a.mode == ModeSearch && msg.seq == a.searchSeq {
			query := strings.TrimSpace(a.searchInput.Value())
			if len([]rune(query)) > 1 {
				return a, a.performSearch(query)
			}
			a.searchResults = nil
		}

	case searchResultsMsg:
		if a.mode == ModeSearch && msg.query == strings.TrimSpace(a.searchInput.Value()) {
			a.searchResults = msg.results
			a.selectedResult = 0
		}

	case errorMsg:
		a.setError(msg.err)
	}

	return a, nil
}

// dispatch feeds an event to the shell. Errors end up in the status bar.
func (a *App) dispatch(ev shell.Event) {
	if err := a.shell.Dispatch(ev); err != nil {
		a.setError(err)
	}
}

func (a *App) setError(err error) {
	a.err = err
	a.log.Warnf("%v", err)
}

// Notify shows a shell message as a toast.
func (a *App) Notify(message string) {
	a.showToast(message, StatusInfo)
}

func (a *App) showToast(message string, kind StatusKind) {
	a.toast = message
	a.toastKind = kind
	a.toastSeq++
	seq := a.toastSeq
	d := a.config.Shell.ToastDuration
	if d <= 0 {
		d = defaultToastDuration
	}
	a.sched.Defer(tea.Tick(d, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} }))
}

// OpenPostDialog switches to the post composer.
func (a *App) OpenPostDialog() {
	a.mode = ModePostDialog
	a.postInput.Reset()
	a.sched.Defer(a.postInput.Focus())
}

func (a *App) closePostDialog() {
	a.postInput.Blur()
	a.postInput.Reset()
	a.mode = ModeBrowse
}

// handleMouse maps a left press and release onto touch events in pixel
// space. A release on the press cell is also a tap.
func (a *App) handleMouse(msg tea.MouseMsg) {
	if a.mode != ModeBrowse {
		return
	}
	px := msg.X * a.config.UI.CellWidthPx
	py := msg.Y * a.config.UI.CellHeightPx

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		a.pressed = true
		a.pressX, a.pressY = msg.X, msg.Y
		a.dispatch(shell.TouchStart{X: px, Y: py})
	case tea.MouseActionRelease:
		if !a.pressed {
			return
		}
		a.pressed = false
		a.dispatch(shell.TouchEnd{X: px, Y: py})
		if msg.X == a.pressX && msg.Y == a.pressY {
			a.tap(msg.X, msg.Y)
		}
	}
}

// tap handles a click on the nav bar.
func (a *App) tap(x, y int) {
	if y != a.navRow() || a.width <= 0 {
		return
	}
	sections := shell.Sections()
	idx := x * len(sections) / a.width
	if idx < 0 || idx >= len(sections) {
		return
	}
	a.dispatch(shell.Click{Target: shell.TargetNav, Section: string(sections[idx])})
}

// Layout: body, separator, nav bar, status bar.
func (a *App) bodyHeight() int { return max(a.height-3, 1) }

func (a *App) navRow() int { return a.height - 2 }

func (a *App) quit() (tea.Model, tea.Cmd) {
	a.shell.Destroy()
	if a.refreshTask != nil {
		a.refreshTask.Stop()
	}
	a.cancel()
	return a, tea.Quit
}

func (a *App) View() string {
	var body string
	switch a.mode {
	case ModePostDialog:
		body = a.viewPostDialog()
	case ModeSearch:
		body = a.viewSearch()
	case ModeReader:
		body = a.viewReader()
	default:
		body = a.viewSection(a.shell.Current())
	}

	body = ContentWrapper(a.width, a.bodyHeight()).Render(body)
	separator := SeparatorStyle.Render(strings.Repeat("─", max(a.width, 0)))

	return lipgloss.JoinVertical(lipgloss.Top, body, separator, a.viewNav(), a.viewStatus())
}

func (a *App) viewNav() string {
	sections := shell.Sections()
	cell := max(a.width/len(sections), 1)
	items := make([]string, len(sections))
	for i, sec := range sections {
		label := truncateEnd(strconv.Itoa(i+1)+" "+sec.Title(), cell)
		style := NavStyle
		if a.surface.active[sec] {
			style = NavActiveStyle
		}
		items[i] = style.Width(cell).Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}

func (a *App) viewStatus() string {
	line := lipgloss.NewStyle().Width(a.width).Padding(0, 1)

	if a.toast != "" {
		return line.Render(a.toastKind.style().Render("● ") + ToastStyle.Render(a.toast))
	}
	if a.err != nil {
		return line.Render(ErrorMessageStyle.Render("✗ " + a.err.Error()))
	}

	commands := a.keyHandler.GetHelpForCurrentView()
	fab := "f: +"
	if a.shell.Current() != shell.Community {
		fab = "f: community"
	}
	commands = append(commands, fab, "t: "+a.shell.Language().ToggleLabel())
	return line.Foreground(MutedColor).Render(truncateEnd(strings.Join(commands, " • "), a.width-2))
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
