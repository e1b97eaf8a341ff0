package tui

import (
	"github.com/pders01/nds/internal/shell"
)

// tuiSurface is the render state the shell writes into. View reads it back.
type tuiSurface struct {
	active     map[shell.Section]bool
	slides     []bool
	indicators []bool
	countdown  string
	venueView  shell.VenueView
	categories map[shell.Section]string
}

func newTUISurface(slideCount int) *tuiSurface {
	return &tuiSurface{
		active:     make(map[shell.Section]bool),
		slides:     make([]bool, slideCount),
		indicators: make([]bool, slideCount),
		venueView:  shell.VenueList,
		categories: make(map[shell.Section]string),
	}
}

func (s *tuiSurface) ActivateSection(sec shell.Section, active bool) {
	s.active[sec] = active
}

func (s *tuiSurface) HasSection(sec shell.Section) bool { return sec.Index() >= 0 }

func (s *tuiSurface) SlideCount() int { return len(s.slides) }

func (s *tuiSurface) SetSlide(index int, active bool) {
	if index >= 0 && index < len(s.slides) {
		s.slides[index] = active
	}
}

func (s *tuiSurface) SetIndicator(index int, active bool) {
	if index >= 0 && index < len(s.indicators) {
		s.indicators[index] = active
	}
}

func (s *tuiSurface) HasCountdown() bool { return true }

func (s *tuiSurface) SetCountdownText(text string) { s.countdown = text }

func (s *tuiSurface) SetVenueView(view shell.VenueView) { s.venueView = view }

func (s *tuiSurface) SetCategory(sec shell.Section, category string) {
	s.categories[sec] = category
}

// activeSlide is the first slide flagged active, or -1.
func (s *tuiSurface) activeSlide() int {
	for i, on := range s.slides {
		if on {
			return i
		}
	}
	return -1
}

// category returns the selected filter for sec, "" meaning all.
func (s *tuiSurface) category(sec shell.Section) string {
	c := s.categories[sec]
	if c == categoryAll {
		return ""
	}
	return c
}
