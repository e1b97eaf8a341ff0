package shell

import (
	"github.com/pders01/nds/internal/debuglog"
)

// Effect is one side effect bound to entering or leaving a section.
// Reassert runs instead of Apply when the section is re-entered while
// already current; a nil Reassert means the effect is skipped on re-entry.
type Effect struct {
	Name     string
	Apply    func()
	Reassert func()
}

// Effects holds the entry and exit effects of one section.
type Effects struct {
	Enter []Effect
	Exit  []Effect
}

// EffectTable maps each section to its effects.
type EffectTable map[Section]Effects

// Navigator is the section state machine.
type Navigator struct {
	surface SectionSurface
	effects EffectTable
	current Section
	log     *debuglog.FieldLogger
}

func NewNavigator(surface SectionSurface, effects EffectTable) *Navigator {
	if effects == nil {
		effects = EffectTable{}
	}
	return &Navigator{
		surface: surface,
		effects: effects,
		current: Home,
		log:     debuglog.WithFields(map[string]interface{}{"component": "navigator"}),
	}
}

// Current returns the active section.
func (n *Navigator) Current() Section { return n.current }

// Effects returns the effect table, for introspection.
func (n *Navigator) Effects() EffectTable { return n.effects }

// Navigate makes target the active section. An unknown or unmounted target
// returns a *NotFoundError and leaves everything unchanged.
func (n *Navigator) Navigate(target string) error {
	next, err := ParseSection(target)
	if err != nil {
		n.log.Warnf("navigate: %v", err)
		return err
	}
	if !n.surface.HasSection(next) {
		err := &NotFoundError{Target: target}
		n.log.Warnf("navigate: %v (not mounted)", err)
		return err
	}

	prev := n.current
	for _, s := range sectionOrder {
		if s != next {
			n.surface.ActivateSection(s, false)
		}
	}
	n.surface.ActivateSection(next, true)
	n.current = next

	if prev == next {
		n.log.Debugf("re-entered %s", next)
		for _, e := range n.effects[next].Enter {
			if e.Reassert != nil {
				e.Reassert()
			}
		}
		return nil
	}

	n.log.Infof("navigate %s -> %s", prev, next)
	for _, e := range n.effects[prev].Exit {
		if e.Apply != nil {
			e.Apply()
		}
	}
	for _, e := range n.effects[next].Enter {
		if e.Apply != nil {
			e.Apply()
		}
	}
	return nil
}
