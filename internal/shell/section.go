package shell

import (
	"errors"
	"fmt"
	"strings"
)

// Section identifies one of the mutually exclusive top-level views.
type Section string

const (
	Home       Section = "home"
	Scoreboard Section = "scoreboard"
	Venues     Section = "venues"
	News       Section = "news"
	Articles   Section = "articles"
	Community  Section = "community"
)

var sectionOrder = []Section{Home, Scoreboard, Venues, News, Articles, Community}

// Sections returns the fixed section set in navigation order.
func Sections() []Section {
	return append([]Section(nil), sectionOrder...)
}

func (s Section) String() string { return string(s) }

// Title is the label shown on nav buttons.
func (s Section) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Index returns the position of s in navigation order, or -1.
func (s Section) Index() int {
	for i, known := range sectionOrder {
		if known == s {
			return i
		}
	}
	return -1
}

// ErrSectionNotFound matches every *NotFoundError via errors.Is.
var ErrSectionNotFound = errors.New("section not found")

// NotFoundError is returned when a navigation target is not a registered,
// mounted section.
type NotFoundError struct {
	Target string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("section %q not found", e.Target)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrSectionNotFound
}

// ParseSection maps an identifier onto a known Section. Matching is exact
// after trimming whitespace, like a DOM id lookup.
func ParseSection(id string) (Section, error) {
	id = strings.TrimSpace(id)
	for _, s := range sectionOrder {
		if string(s) == id {
			return s, nil
		}
	}
	return "", &NotFoundError{Target: id}
}
