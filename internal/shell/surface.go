package shell

// SectionSurface shows and hides section roots.
type SectionSurface interface {
	ActivateSection(s Section, active bool)
	HasSection(s Section) bool
}

// SlideSurface exposes the carousel slides and their indicator dots.
// SlideCount may be zero when the carousel region is not mounted.
type SlideSurface interface {
	SlideCount() int
	SetSlide(index int, active bool)
	SetIndicator(index int, active bool)
}

// CountdownSurface is the single text target for the live timer.
type CountdownSurface interface {
	HasCountdown() bool
	SetCountdownText(text string)
}

// Surface is everything the core renders into.
type Surface interface {
	SectionSurface
	SlideSurface
	CountdownSurface
}

// Notifier displays a short-lived message. Fire and forget.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// VenueView is the venues section layout.
type VenueView string

const (
	VenueList VenueView = "list"
	VenueMap  VenueView = "map"
)

// ViewSurface receives the visual-only filter and layout toggles. Optional.
type ViewSurface interface {
	SetVenueView(view VenueView)
	SetCategory(section Section, category string)
}

// DialogOpener opens the community post dialog. Optional.
type DialogOpener interface {
	OpenPostDialog()
}
