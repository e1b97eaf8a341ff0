package shell

import "errors"

// Event is an input delivered to Shell.Dispatch.
type Event interface {
	event()
}

// Click targets understood by the shell.
const (
	TargetNav            = "nav"
	TargetQuick          = "quick"
	TargetDot            = "dot"
	TargetFAB            = "fab"
	TargetLanguage       = "language"
	TargetViewToggle     = "view-toggle"
	TargetCategory       = "category"
	TargetDateFilter     = "date-filter"
	TargetLocationFilter = "location-filter"
	TargetNewPost        = "new-post"
)

// ErrUnknownTarget is returned for clicks on targets the shell does not own.
var ErrUnknownTarget = errors.New("unknown click target")

// Click is a button press. Section, View and Category mirror the data
// attributes of the clicked control; Index is the dot position for TargetDot.
// Filter clicks carry their value in Category.
type Click struct {
	Target   string
	Section  string
	View     string
	Category string
	Index    int
}

// TouchStart is a pointer-down at pixel coordinates.
type TouchStart struct{ X, Y int }

// TouchEnd is a pointer-up at pixel coordinates.
type TouchEnd struct{ X, Y int }

// Visibility reports the host view being shown or hidden.
type Visibility struct{ Visible bool }

// Connectivity reports the host going online or offline.
type Connectivity struct{ Online bool }

func (Click) event()        {}
func (TouchStart) event()   {}
func (TouchEnd) event()     {}
func (Visibility) event()   {}
func (Connectivity) event() {}
