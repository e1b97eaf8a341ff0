package shell

import (
	"time"

	"github.com/pders01/nds/internal/debuglog"
)

// DefaultCarouselInterval is the rotation cadence.
const DefaultCarouselInterval = 5 * time.Second

// Carousel owns the current slide index and the rotation task. The timer
// path and the gesture path both go through GoTo, so the surface always
// shows exactly one slide and one matching indicator.
type Carousel struct {
	surface  SlideSurface
	sched    Scheduler
	interval time.Duration
	current  int
	task     Task
	log      *debuglog.FieldLogger
}

func NewCarousel(surface SlideSurface, sched Scheduler, interval time.Duration) *Carousel {
	if interval <= 0 {
		interval = DefaultCarouselInterval
	}
	return &Carousel{
		surface:  surface,
		sched:    sched,
		interval: interval,
		log:      debuglog.WithFields(map[string]interface{}{"component": "carousel"}),
	}
}

// Current returns the active slide index.
func (c *Carousel) Current() int { return c.current }

// Count returns the number of mounted slides.
func (c *Carousel) Count() int { return c.surface.SlideCount() }

// Running reports whether the rotation task is live.
func (c *Carousel) Running() bool { return c.task != nil }

// Start (re)starts rotation from a clean task.
func (c *Carousel) Start() {
	c.Stop()
	if c.Count() == 0 {
		c.log.Debugf("start skipped: no slides mounted")
		return
	}
	c.task = c.sched.Every(c.interval, c.Advance)
	c.log.Debugf("rotation started every %s", c.interval)
}

// EnsureRunning starts rotation only when it is not already running.
func (c *Carousel) EnsureRunning() {
	if c.task == nil {
		c.Start()
	}
}

func (c *Carousel) Stop() {
	if c.task == nil {
		return
	}
	c.task.Stop()
	c.task = nil
	c.log.Debugf("rotation stopped")
}

// Advance moves to the next slide, wrapping at the end.
func (c *Carousel) Advance() {
	n := c.Count()
	if n == 0 {
		return
	}
	c.GoTo((c.current + 1) % n)
}

// Previous moves to the previous slide, wrapping at the start.
func (c *Carousel) Previous() {
	n := c.Count()
	if n == 0 {
		return
	}
	c.GoTo((c.current - 1 + n) % n)
}

// GoTo activates the slide and indicator at index and deactivates the rest.
// It returns false and changes nothing when index is out of range.
func (c *Carousel) GoTo(index int) bool {
	n := c.Count()
	if index < 0 || index >= n {
		c.log.Debugf("goto %d ignored: %d slides", index, n)
		return false
	}
	for i := 0; i < n; i++ {
		c.surface.SetSlide(i, i == index)
		c.surface.SetIndicator(i, i == index)
	}
	c.current = index
	return true
}

// Sync re-renders the current slide, clamping the index if the slide count
// shrank since the last render.
func (c *Carousel) Sync() {
	n := c.Count()
	if n == 0 {
		return
	}
	if c.current >= n {
		c.current = 0
	}
	c.GoTo(c.current)
}
