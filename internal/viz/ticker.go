package viz

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/itosim/internal/schedule"
)

// TickMsg fires the task registered under ID.
type TickMsg struct {
	ID int
}

// ticker is a schedule.Scheduler driven by the Bubble Tea update loop. Each
// Repeat gets a fresh ID, so ticks of a cancelled task arrive with an
// unknown ID and are dropped.
type ticker struct {
	next   int
	tasks  map[int]*tickTask
	queued []tea.Cmd
}

type tickTask struct {
	t      *ticker
	id     int
	period time.Duration
	fn     func()
}

func (tt *tickTask) Cancel() { delete(tt.t.tasks, tt.id) }

func newTicker() *ticker {
	return &ticker{tasks: make(map[int]*tickTask)}
}

func (t *ticker) Repeat(period time.Duration, fn func()) schedule.Task {
	t.next++
	tt := &tickTask{t: t, id: t.next, period: period, fn: fn}
	t.tasks[tt.id] = tt
	t.queued = append(t.queued, tickCmd(tt.id, period))
	return tt
}

// fire runs the task and queues its next tick unless the callback
// cancelled it.
func (t *ticker) fire(id int) {
	tt, ok := t.tasks[id]
	if !ok {
		return
	}
	tt.fn()
	if _, ok := t.tasks[id]; ok {
		t.queued = append(t.queued, tickCmd(id, tt.period))
	}
}

// drain returns the ticks queued since the last call.
func (t *ticker) drain() tea.Cmd {
	if len(t.queued) == 0 {
		return nil
	}
	cmds := t.queued
	t.queued = nil
	return tea.Batch(cmds...)
}

func tickCmd(id int, period time.Duration) tea.Cmd {
	return tea.Tick(period, func(time.Time) tea.Msg { return TickMsg{ID: id} })
}
