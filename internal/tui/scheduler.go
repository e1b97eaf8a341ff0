package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/nds/internal/shell"
)

// schedTickMsg is delivered by tea.Tick for one armed interval of a task.
type schedTickMsg struct {
	id  int
	gen int
}

// teaScheduler runs shell timers on the Bubble Tea update loop. A tea.Tick
// cannot be cancelled, so every armed tick carries the task id and a
// generation; ticks for stopped tasks or older generations are dropped.
type teaScheduler struct {
	tasks   map[int]*teaTask
	nextID  int
	pending []tea.Cmd
}

type teaTask struct {
	sched    *teaScheduler
	id       int
	gen      int
	interval time.Duration
	fn       func()
}

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{tasks: make(map[int]*teaTask)}
}

func (s *teaScheduler) Every(interval time.Duration, fn func()) shell.Task {
	s.nextID++
	t := &teaTask{sched: s, id: s.nextID, interval: interval, fn: fn}
	s.tasks[t.id] = t
	s.arm(t)
	return t
}

func (s *teaScheduler) arm(t *teaTask) {
	t.gen++
	id, gen := t.id, t.gen
	s.Defer(tea.Tick(t.interval, func(time.Time) tea.Msg {
		return schedTickMsg{id: id, gen: gen}
	}))
}

// Defer queues a command to be returned from the current Update.
func (s *teaScheduler) Defer(cmd tea.Cmd) {
	if cmd != nil {
		s.pending = append(s.pending, cmd)
	}
}

// fire runs the task behind msg. The next tick is armed first so a task
// that stops itself leaves nothing live.
func (s *teaScheduler) fire(msg schedTickMsg) bool {
	t, ok := s.tasks[msg.id]
	if !ok || t.gen != msg.gen {
		return false
	}
	s.arm(t)
	t.fn()
	return true
}

// drain hands back everything queued since the last call.
func (s *teaScheduler) drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}

func (s *teaScheduler) live() int { return len(s.tasks) }

func (t *teaTask) Stop() {
	delete(t.sched.tasks, t.id)
}
