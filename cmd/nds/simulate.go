package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/pders01/nds/internal/config"
	"github.com/pders01/nds/internal/content"
	"github.com/pders01/nds/internal/debuglog"
	"github.com/pders01/nds/internal/shell"
)

var (
	simSection   string
	simCountdown int
	simDuration  time.Duration
	simSwipes    []string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the shell headless and print what it renders",
	Example: `  nds simulate --section scoreboard --countdown 5 --for 7s
  nds simulate --swipe left --swipe left --for 12s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		c, err := content.Load(contentPath)
		if err != nil {
			return err
		}
		if debug {
			debuglog.SetupWriter(debuglog.LevelDebug, cmd.ErrOrStderr())
		}

		countdown := cfg.Shell.CountdownSeconds
		if cmd.Flags().Changed("countdown") {
			countdown = simCountdown
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer cancel()

		return simulate(ctx, cmd.OutOrStdout(), clockwork.NewRealClock(), simulation{
			Slides:           c.Slides,
			Section:          simSection,
			Swipes:           simSwipes,
			Duration:         simDuration,
			CarouselInterval: cfg.Shell.CarouselInterval,
			CountdownSeconds: countdown,
			SwipeThreshold:   cfg.Shell.SwipeThreshold,
		})
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simSection, "section", "", "Section to open after start")
	simulateCmd.Flags().IntVar(&simCountdown, "countdown", shell.DefaultCountdownSeconds, "Countdown length in seconds")
	simulateCmd.Flags().DurationVar(&simDuration, "for", 10*time.Second, "How long to run")
	simulateCmd.Flags().StringArrayVar(&simSwipes, "swipe", nil, "Swipe \"left\" or \"right\" on home before navigating (repeatable)")
}

type simulation struct {
	Slides           []content.Slide
	Section          string
	Swipes           []string
	Duration         time.Duration
	CarouselInterval time.Duration
	CountdownSeconds int
	SwipeThreshold   int
}

// simulate drives a shell on a Loop and prints every surface change to w
// until the duration passes or ctx is cancelled.
func simulate(ctx context.Context, w io.Writer, clock clockwork.Clock, sim simulation) error {
	loop := shell.NewLoop(clock, 0)
	runCtx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(runCtx) }()
	defer func() {
		stop()
		<-done
	}()

	out := newPrinter(w, clock, sim.Slides)
	var s *shell.Shell
	var setupErr error
	err := loop.Do(ctx, func() {
		s = shell.New(shell.Options{
			Surface:          out,
			Notifier:         out,
			Scheduler:        loop,
			Views:            out,
			CarouselInterval: sim.CarouselInterval,
			CountdownSeconds: sim.CountdownSeconds,
			SwipeThreshold:   sim.SwipeThreshold,
		})
		if setupErr = s.Start(); setupErr != nil {
			return
		}
		for _, dir := range sim.Swipes {
			if setupErr = swipe(s, dir, sim.SwipeThreshold); setupErr != nil {
				return
			}
		}
		if sim.Section != "" {
			setupErr = s.Navigate(sim.Section)
		}
	})
	if err != nil {
		return err
	}
	if setupErr != nil {
		return setupErr
	}

	select {
	case <-clock.After(sim.Duration):
	case <-ctx.Done():
	}

	destroyCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return loop.Do(destroyCtx, s.Destroy)
}

// swipe replays a horizontal drag just past the threshold.
func swipe(s *shell.Shell, dir string, threshold int) error {
	if threshold <= 0 {
		threshold = shell.DefaultSwipeThreshold
	}
	dx := threshold + 10
	switch dir {
	case "left":
		dx = -dx
	case "right":
	default:
		return fmt.Errorf("unknown swipe direction %q", dir)
	}
	if err := s.Dispatch(shell.TouchStart{X: 200, Y: 100}); err != nil {
		return err
	}
	return s.Dispatch(shell.TouchEnd{X: 200 + dx, Y: 100})
}

// printer is a line-oriented surface. Only the loop goroutine calls it.
type printer struct {
	w      io.Writer
	clock  clockwork.Clock
	start  time.Time
	slides []content.Slide
	dots   []bool
}

func newPrinter(w io.Writer, clock clockwork.Clock, slides []content.Slide) *printer {
	return &printer{
		w:      w,
		clock:  clock,
		start:  clock.Now(),
		slides: slides,
		dots:   make([]bool, len(slides)),
	}
}

func (p *printer) line(kind, format string, args ...any) {
	elapsed := p.clock.Since(p.start).Round(100 * time.Millisecond)
	fmt.Fprintf(p.w, "[%6s] %-8s %s\n", elapsed, kind, fmt.Sprintf(format, args...))
}

func (p *printer) ActivateSection(s shell.Section, active bool) {
	if active {
		p.line("section", "%s", s)
	}
}

func (p *printer) HasSection(s shell.Section) bool { return s.Index() >= 0 }

func (p *printer) SlideCount() int { return len(p.slides) }

func (p *printer) SetSlide(index int, active bool) {
	if active && index < len(p.slides) {
		p.line("slide", "%d/%d %s", index+1, len(p.slides), p.slides[index].Title)
	}
}

func (p *printer) SetIndicator(index int, active bool) {
	if index < len(p.dots) {
		p.dots[index] = active
	}
}

func (p *printer) HasCountdown() bool { return true }

func (p *printer) SetCountdownText(text string) { p.line("timer", "%s", text) }

func (p *printer) Notify(message string) { p.line("toast", "%s", message) }

func (p *printer) SetVenueView(view shell.VenueView) { p.line("view", "%s", view) }

func (p *printer) SetCategory(section shell.Section, category string) {
	p.line("filter", "%s=%s", section, category)
}
