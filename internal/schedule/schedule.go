// Package schedule provides cancellable repeating tasks for the animated
// simulation mode.
//
// Every scheduler fires callbacks on a single goroutine, so the simulation
// driver needs no locking. [Manual] advances a virtual clock and is used in
// tests; [Loop] drives the same queue from real time.
package schedule

import (
	"context"
	"sort"
	"time"
)

// Task is a scheduled repeating callback.
type Task interface {
	// Cancel prevents any further firing, including a firing already due
	// in the current Advance.
	Cancel()
}

// Scheduler starts repeating tasks.
type Scheduler interface {
	Repeat(period time.Duration, fn func()) Task
}

type task struct {
	period    time.Duration
	next      time.Duration
	fn        func()
	cancelled bool
	seq       int
}

func (t *task) Cancel() { t.cancelled = true }

// Manual is a Scheduler over a virtual clock. Tasks fire only inside
// Advance, in due-time order, ties broken by creation order.
type Manual struct {
	now   time.Duration
	tasks []*task
	seq   int
}

func NewManual() *Manual {
	return &Manual{}
}

// Repeat schedules fn every period, first firing one period from now.
// Periods below one nanosecond are raised to one.
func (m *Manual) Repeat(period time.Duration, fn func()) Task {
	if period <= 0 {
		period = 1
	}
	m.seq++
	t := &task{period: period, next: m.now + period, fn: fn, seq: m.seq}
	m.tasks = append(m.tasks, t)
	return t
}

// Now is the virtual time elapsed since creation.
func (m *Manual) Now() time.Duration { return m.now }

// Pending reports the number of live tasks.
func (m *Manual) Pending() int {
	m.prune()
	return len(m.tasks)
}

// Advance moves the clock forward by d, firing every task that falls due.
// It returns the number of callbacks run.
func (m *Manual) Advance(d time.Duration) int {
	return m.AdvanceTo(m.now + d)
}

// AdvanceTo moves the clock to target, firing due tasks on the way.
func (m *Manual) AdvanceTo(target time.Duration) int {
	fired := 0
	for {
		t := m.nextDue()
		if t == nil || t.next > target {
			break
		}
		m.now = t.next
		t.next += t.period
		t.fn()
		fired++
	}
	if target > m.now {
		m.now = target
	}
	return fired
}

// Until returns how long until the next task is due, or false if none.
func (m *Manual) Until() (time.Duration, bool) {
	t := m.nextDue()
	if t == nil {
		return 0, false
	}
	return t.next - m.now, true
}

func (m *Manual) nextDue() *task {
	m.prune()
	if len(m.tasks) == 0 {
		return nil
	}
	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].next != m.tasks[j].next {
			return m.tasks[i].next < m.tasks[j].next
		}
		return m.tasks[i].seq < m.tasks[j].seq
	})
	return m.tasks[0]
}

func (m *Manual) prune() {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(m.tasks); i++ {
		m.tasks[i] = nil
	}
	m.tasks = live
}

// Loop runs a Manual queue against the wall clock. Callbacks run on the
// goroutine that called Run; Repeat must only be called from that goroutine
// or before Run starts.
type Loop struct {
	queue *Manual
	start time.Time
}

func NewLoop() *Loop {
	return &Loop{queue: NewManual()}
}

// Repeat schedules fn relative to the loop's current time, which inside a
// callback is the time that callback fell due.
func (l *Loop) Repeat(period time.Duration, fn func()) Task {
	if l.start.IsZero() {
		l.start = time.Now()
	}
	return l.queue.Repeat(period, fn)
}

// Run fires due tasks until ctx is done or no task remains.
func (l *Loop) Run(ctx context.Context) error {
	if l.start.IsZero() {
		l.start = time.Now()
	}
	for {
		wait, ok := l.queue.Until()
		if !ok {
			return nil
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		l.queue.AdvanceTo(time.Since(l.start))
	}
}
