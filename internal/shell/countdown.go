package shell

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pders01/nds/internal/debuglog"
)

const (
	// DefaultCountdownSeconds is 2h30m, the length of a live event.
	DefaultCountdownSeconds = 2*3600 + 30*60

	// MsgEventCompleted is emitted once when the countdown reaches zero.
	MsgEventCompleted = "Event completed!"

	countdownTick = time.Second
)

// Countdown owns the remaining seconds of the live event and its tick task.
// Reaching zero is terminal until the next Start.
type Countdown struct {
	surface   CountdownSurface
	sched     Scheduler
	notifier  Notifier
	initial   int
	remaining int
	task      Task
	log       *debuglog.FieldLogger
}

func NewCountdown(surface CountdownSurface, sched Scheduler, notifier Notifier, initialSeconds int) *Countdown {
	if initialSeconds <= 0 {
		initialSeconds = DefaultCountdownSeconds
	}
	return &Countdown{
		surface:  surface,
		sched:    sched,
		notifier: notifier,
		initial:  initialSeconds,
		log:      debuglog.WithFields(map[string]interface{}{"component": "countdown"}),
	}
}

func (c *Countdown) Remaining() int { return c.remaining }

func (c *Countdown) Running() bool { return c.task != nil }

// StartDefault starts from the configured full duration.
func (c *Countdown) StartDefault() { c.Start(c.initial) }

// Start cancels any running task, resets the remaining time and renders it.
// Without a mounted display target it does nothing.
func (c *Countdown) Start(initialSeconds int) {
	c.Stop()
	if !c.surface.HasCountdown() {
		c.log.Debugf("start skipped: no display target")
		return
	}
	if initialSeconds < 0 {
		initialSeconds = 0
	}
	c.remaining = initialSeconds
	c.surface.SetCountdownText(FormatClock(c.remaining))
	if c.remaining == 0 {
		c.expire()
		return
	}
	c.task = c.sched.Every(countdownTick, c.tick)
	c.log.Debugf("started at %s", FormatClock(c.remaining))
}

func (c *Countdown) Stop() {
	if c.task == nil {
		return
	}
	c.task.Stop()
	c.task = nil
}

func (c *Countdown) tick() {
	if c.task == nil {
		return
	}
	c.remaining--
	if c.remaining <= 0 {
		c.remaining = 0
		c.Stop()
		c.surface.SetCountdownText(FormatClock(0))
		c.expire()
		return
	}
	c.surface.SetCountdownText(FormatClock(c.remaining))
}

func (c *Countdown) expire() {
	c.log.Infof("countdown expired")
	if c.notifier != nil {
		c.notifier.Notify(MsgEventCompleted)
	}
}

// FormatClock renders seconds as zero-padded HH:MM:SS. Negative input
// renders as zero.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// ParseClock is the inverse of FormatClock.
func ParseClock(text string) (int, error) {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("parse clock %q: want HH:MM:SS", text)
	}
	var fields [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("parse clock %q: bad field %q", text, p)
		}
		fields[i] = n
	}
	if fields[1] > 59 || fields[2] > 59 {
		return 0, fmt.Errorf("parse clock %q: field out of range", text)
	}
	return fields[0]*3600 + fields[1]*60 + fields[2], nil
}
