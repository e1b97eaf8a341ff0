// Package shelltest provides an in-memory surface and a virtual-time
// scheduler for exercising the shell without a terminal.
package shelltest

import (
	"time"

	"github.com/pders01/nds/internal/shell"
)

// Recorder implements every surface the shell renders into and records what
// it was told.
type Recorder struct {
	Mounted          map[shell.Section]bool
	Active           map[shell.Section]bool
	Slides           []bool
	Indicators       []bool
	CountdownMounted bool
	CountdownTexts   []string
	Notifications    []string
	VenueViews       []shell.VenueView
	Categories       map[shell.Section]string
	DialogsOpened    int
}

// NewRecorder mounts every section, the countdown target and n slides.
func NewRecorder(slides int) *Recorder {
	r := &Recorder{
		Mounted:          make(map[shell.Section]bool),
		Active:           make(map[shell.Section]bool),
		Slides:           make([]bool, slides),
		Indicators:       make([]bool, slides),
		CountdownMounted: true,
		Categories:       make(map[shell.Section]string),
	}
	for _, s := range shell.Sections() {
		r.Mounted[s] = true
	}
	return r
}

func (r *Recorder) Unmount(s shell.Section) { r.Mounted[s] = false }

func (r *Recorder) ActivateSection(s shell.Section, active bool) { r.Active[s] = active }
func (r *Recorder) HasSection(s shell.Section) bool              { return r.Mounted[s] }

func (r *Recorder) SlideCount() int                     { return len(r.Slides) }
func (r *Recorder) SetSlide(index int, active bool)     { r.Slides[index] = active }
func (r *Recorder) SetIndicator(index int, active bool) { r.Indicators[index] = active }

func (r *Recorder) HasCountdown() bool { return r.CountdownMounted }
func (r *Recorder) SetCountdownText(text string) {
	r.CountdownTexts = append(r.CountdownTexts, text)
}

func (r *Recorder) Notify(message string) {
	r.Notifications = append(r.Notifications, message)
}

func (r *Recorder) SetVenueView(view shell.VenueView) {
	r.VenueViews = append(r.VenueViews, view)
}

func (r *Recorder) SetCategory(section shell.Section, category string) {
	r.Categories[section] = category
}

func (r *Recorder) OpenPostDialog() { r.DialogsOpened++ }

// ActiveSections lists sections currently marked active.
func (r *Recorder) ActiveSections() []shell.Section {
	var out []shell.Section
	for _, s := range shell.Sections() {
		if r.Active[s] {
			out = append(out, s)
		}
	}
	return out
}

// ActiveSlides lists the indices of active slides.
func (r *Recorder) ActiveSlides() []int { return activeIndices(r.Slides) }

// ActiveIndicators lists the indices of active indicators.
func (r *Recorder) ActiveIndicators() []int { return activeIndices(r.Indicators) }

// LastCountdown returns the most recent countdown text, or "".
func (r *Recorder) LastCountdown() string {
	if len(r.CountdownTexts) == 0 {
		return ""
	}
	return r.CountdownTexts[len(r.CountdownTexts)-1]
}

func activeIndices(flags []bool) []int {
	var out []int
	for i, on := range flags {
		if on {
			out = append(out, i)
		}
	}
	return out
}

// Scheduler runs repeating tasks against a virtual clock that only moves
// on Advance.
type Scheduler struct {
	now   time.Duration
	tasks []*Task
}

// Task is a repeating task registered with Scheduler.
type Task struct {
	Interval time.Duration
	Fires    int
	fn       func()
	due      time.Duration
	stopped  bool
}

func (t *Task) Stop()         { t.stopped = true }
func (t *Task) Stopped() bool { return t.stopped }

func (s *Scheduler) Every(interval time.Duration, fn func()) shell.Task {
	t := &Task{Interval: interval, fn: fn, due: s.now + interval}
	s.tasks = append(s.tasks, t)
	return t
}

// Live returns the tasks that have not been stopped.
func (s *Scheduler) Live() []*Task {
	var out []*Task
	for _, t := range s.tasks {
		if !t.stopped {
			out = append(out, t)
		}
	}
	return out
}

// Advance moves virtual time forward, firing due tasks in deadline order.
// A task stopped by an earlier callback does not fire.
func (s *Scheduler) Advance(d time.Duration) {
	end := s.now + d
	for {
		var next *Task
		for _, t := range s.tasks {
			if t.stopped || t.due > end {
				continue
			}
			if next == nil || t.due < next.due {
				next = t
			}
		}
		if next == nil {
			break
		}
		s.now = next.due
		next.due += next.Interval
		next.Fires++
		next.fn()
	}
	s.now = end
}
