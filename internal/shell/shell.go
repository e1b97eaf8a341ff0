// Package shell is the view-state orchestrator of the NDS app: the section
// state machine, the carousel and countdown controllers, and the gesture
// interpreter that feeds swipes back into the carousel.
//
// Nothing in this package is safe for concurrent use. All calls must come
// from one executor: the Bubble Tea update loop, or a Loop.
package shell

import (
	"fmt"
	"time"

	"github.com/pders01/nds/internal/debuglog"
)

// Language is the UI language selected by the toggle.
type Language string

const (
	English Language = "en"
	Tamil   Language = "ta"
)

// ToggleLabel is the text of the toggle button, which names the other
// language.
func (l Language) ToggleLabel() string {
	if l == Tamil {
		return "English"
	}
	return "தமிழ்"
}

// Feedback messages.
const (
	MsgSwitchedEnglish = "Switched to English"
	MsgSwitchedTamil   = "தமிழ் மொழிக்கு மாற்றப்பட்டது"
	MsgOnline          = "App is back online"
	MsgOffline         = "App is offline"
)

// Options configures a Shell. Surface, Notifier and Scheduler are required.
type Options struct {
	Surface   Surface
	Notifier  Notifier
	Scheduler Scheduler
	Views     ViewSurface
	Dialogs   DialogOpener

	CarouselInterval time.Duration
	CountdownSeconds int
	SwipeThreshold   int
}

// Shell owns the navigator and the controllers it drives.
type Shell struct {
	nav       *Navigator
	carousel  *Carousel
	countdown *Countdown
	gestures  *Interpreter
	notifier  Notifier
	views     ViewSurface
	dialogs   DialogOpener
	language  Language
	venueView VenueView
	visible   bool
	online    bool
	log       *debuglog.FieldLogger
}

func New(opts Options) *Shell {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = NotifierFunc(func(string) {})
	}
	s := &Shell{
		carousel:  NewCarousel(opts.Surface, opts.Scheduler, opts.CarouselInterval),
		countdown: NewCountdown(opts.Surface, opts.Scheduler, notifier, opts.CountdownSeconds),
		gestures:  NewInterpreter(opts.SwipeThreshold),
		notifier:  notifier,
		views:     opts.Views,
		dialogs:   opts.Dialogs,
		language:  English,
		venueView: VenueList,
		visible:   true,
		online:    true,
		log:       debuglog.WithFields(map[string]interface{}{"component": "shell"}),
	}
	s.nav = NewNavigator(opts.Surface, s.effectTable())
	return s
}

// effectTable binds section transitions to controller start/stop calls.
func (s *Shell) effectTable() EffectTable {
	startCarousel := Effect{Name: "start-carousel", Apply: s.carousel.Start, Reassert: s.carousel.EnsureRunning}
	stopCarousel := Effect{Name: "stop-carousel", Apply: s.carousel.Stop, Reassert: s.carousel.Stop}
	// Re-entering the scoreboard restarts the countdown from the full
	// duration; it shows time remaining as of this view.
	startCountdown := Effect{Name: "start-countdown", Apply: s.countdown.StartDefault, Reassert: s.countdown.StartDefault}
	listVenues := func() { s.setVenueView(VenueList) }
	venueList := Effect{Name: "venue-list", Apply: listVenues, Reassert: listVenues}

	return EffectTable{
		Home:       {Enter: []Effect{startCarousel}},
		Scoreboard: {Enter: []Effect{stopCarousel, startCountdown}},
		Venues:     {Enter: []Effect{stopCarousel, venueList}},
		News:       {Enter: []Effect{stopCarousel}},
		Articles:   {Enter: []Effect{stopCarousel}},
		Community:  {Enter: []Effect{stopCarousel}},
	}
}

// Start shows the home section and syncs the carousel to slide zero.
func (s *Shell) Start() error {
	s.carousel.Sync()
	return s.nav.Navigate(string(Home))
}

func (s *Shell) Navigator() *Navigator    { return s.nav }
func (s *Shell) Carousel() *Carousel      { return s.carousel }
func (s *Shell) Countdown() *Countdown    { return s.countdown }
func (s *Shell) Current() Section         { return s.nav.Current() }
func (s *Shell) Language() Language       { return s.language }
func (s *Shell) VenueView() VenueView     { return s.venueView }
func (s *Shell) Online() bool             { return s.online }
func (s *Shell) Visible() bool            { return s.visible }
func (s *Shell) Navigate(id string) error { return s.nav.Navigate(id) }

// Dispatch routes one input event.
func (s *Shell) Dispatch(ev Event) error {
	switch ev := ev.(type) {
	case Click:
		return s.click(ev)
	case TouchStart:
		s.gestures.Begin(Point{X: ev.X, Y: ev.Y})
	case TouchEnd:
		s.applyGesture(s.gestures.End(Point{X: ev.X, Y: ev.Y}))
	case Visibility:
		s.SetVisible(ev.Visible)
	case Connectivity:
		s.SetOnline(ev.Online)
	default:
		return fmt.Errorf("dispatch %T: unsupported event", ev)
	}
	return nil
}

func (s *Shell) click(c Click) error {
	switch c.Target {
	case TargetNav, TargetQuick:
		return s.nav.Navigate(c.Section)
	case TargetDot:
		s.carousel.GoTo(c.Index)
	case TargetFAB:
		return s.FAB()
	case TargetLanguage:
		s.ToggleLanguage()
	case TargetViewToggle:
		return s.SwitchVenueView(c.View)
	case TargetCategory:
		section := s.Current()
		if c.Section != "" {
			parsed, err := ParseSection(c.Section)
			if err != nil {
				return err
			}
			section = parsed
		}
		s.FilterByCategory(section, c.Category)
	case TargetDateFilter:
		s.FilterScoreboard("date", c.Category)
	case TargetLocationFilter:
		s.FilterScoreboard("location", c.Category)
	case TargetNewPost:
		s.openPostDialog()
	default:
		return fmt.Errorf("click %q: %w", c.Target, ErrUnknownTarget)
	}
	return nil
}

// applyGesture feeds a classified swipe to the carousel. Swipes only act on
// the home section.
func (s *Shell) applyGesture(g Gesture) {
	if g == GestureNone {
		return
	}
	if s.Current() != Home {
		s.log.Debugf("%s ignored in %s", g, s.Current())
		return
	}
	switch g {
	case SwipeLeft:
		s.carousel.Advance()
	case SwipeRight:
		s.carousel.Previous()
	}
}

// FAB handles the floating action button: on community it opens the post
// dialog, everywhere else it jumps to community.
func (s *Shell) FAB() error {
	if s.Current() == Community {
		s.openPostDialog()
		return nil
	}
	return s.nav.Navigate(string(Community))
}

func (s *Shell) openPostDialog() {
	if s.dialogs == nil {
		s.log.Debugf("post dialog skipped: no dialog opener")
		return
	}
	s.dialogs.OpenPostDialog()
}

// ToggleLanguage flips between English and Tamil and returns the new one.
func (s *Shell) ToggleLanguage() Language {
	if s.language == English {
		s.language = Tamil
		s.notifier.Notify(MsgSwitchedTamil)
	} else {
		s.language = English
		s.notifier.Notify(MsgSwitchedEnglish)
	}
	return s.language
}

// SwitchVenueView changes the venues layout to "list" or "map".
func (s *Shell) SwitchVenueView(view string) error {
	switch VenueView(view) {
	case VenueList, VenueMap:
		s.setVenueView(VenueView(view))
		return nil
	default:
		return fmt.Errorf("unknown venue view %q", view)
	}
}

func (s *Shell) setVenueView(view VenueView) {
	s.venueView = view
	if s.views != nil {
		s.views.SetVenueView(view)
	}
	s.notifier.Notify(fmt.Sprintf("Switched to %s view", view))
}

// FilterByCategory highlights a news/articles category.
func (s *Shell) FilterByCategory(section Section, category string) {
	if s.views != nil {
		s.views.SetCategory(section, category)
	}
	s.notifier.Notify("Filtering by: " + category)
	s.log.Debugf("filtering %s by category %q", section, category)
}

// FilterScoreboard acknowledges a scoreboard date or location filter.
func (s *Shell) FilterScoreboard(kind, value string) {
	s.notifier.Notify(fmt.Sprintf("Filtered by %s: %s", kind, value))
}

// SetVisible pauses the carousel while hidden and resumes it on home.
func (s *Shell) SetVisible(visible bool) {
	s.visible = visible
	if !visible {
		s.carousel.Stop()
		return
	}
	if s.Current() == Home {
		s.carousel.Start()
	}
}

// SetOnline announces connectivity changes.
func (s *Shell) SetOnline(online bool) {
	if s.online == online {
		return
	}
	s.online = online
	if online {
		s.notifier.Notify(MsgOnline)
	} else {
		s.notifier.Notify(MsgOffline)
	}
}

// Destroy cancels both repeating tasks.
func (s *Shell) Destroy() {
	s.carousel.Stop()
	s.countdown.Stop()
}
