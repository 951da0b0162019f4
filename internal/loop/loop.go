// Package loop is a single-threaded cooperative event loop.
//
// Callbacks are run one at a time on the goroutine that calls Run (or
// RunDue). They are ordered by absolute deadline, with callbacks that share
// a deadline running in the order they were scheduled. A callback may
// schedule further callbacks; anything scheduled while a pass is running
// waits for the next pass.
//
// ScheduleSoon, ScheduleAfter and Handle.Cancel must only be used from the
// loop goroutine (or before Run starts). Post and Stop are safe from any
// goroutine.
package loop

import (
	"context"
	"sync"
	"time"

	"github.com/google/btree"
	"github.com/jonboulle/clockwork"
)

type task struct {
	deadline time.Time
	seq      uint64
	fn       func()
}

func lessTask(a, b *task) bool {
	if a.deadline.Equal(b.deadline) {
		return a.seq < b.seq
	}
	return a.deadline.Before(b.deadline)
}

// Handle refers to a scheduled callback.
type Handle struct {
	loop *Loop
	t    *task
}

// Cancel removes the callback if it has not run yet. It reports whether the
// callback was still pending.
func (h *Handle) Cancel() bool {
	if h == nil || h.loop == nil {
		return false
	}
	_, found := h.loop.queue.Delete(h.t)
	return found
}

type Loop struct {
	clock  clockwork.Clock
	queue  *btree.BTreeG[*task]
	seq    uint64
	posted chan func()

	stopOnce sync.Once
	stopped  chan struct{}
}

// New creates a loop reading time from clock. A nil clock uses the real one.
func New(clock clockwork.Clock) *Loop {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Loop{
		clock:   clock,
		queue:   btree.NewG(16, lessTask),
		posted:  make(chan func(), 64),
		stopped: make(chan struct{}),
	}
}

func (l *Loop) Clock() clockwork.Clock { return l.clock }

func (l *Loop) Now() time.Time { return l.clock.Now() }

// Pending returns the number of scheduled callbacks.
func (l *Loop) Pending() int { return l.queue.Len() }

func (l *Loop) schedule(deadline time.Time, fn func()) *Handle {
	l.seq++
	t := &task{deadline: deadline, seq: l.seq, fn: fn}
	l.queue.ReplaceOrInsert(t)
	return &Handle{loop: l, t: t}
}

// ScheduleSoon runs fn on the next loop iteration.
func (l *Loop) ScheduleSoon(fn func()) *Handle {
	return l.schedule(l.clock.Now(), fn)
}

// ScheduleAfter runs fn no earlier than d from now.
func (l *Loop) ScheduleAfter(d time.Duration, fn func()) *Handle {
	if d < 0 {
		d = 0
	}
	return l.schedule(l.clock.Now().Add(d), fn)
}

// Post hands fn to the loop goroutine. It blocks only when the post buffer
// is full and the loop is still running.
func (l *Loop) Post(fn func()) {
	select {
	case l.posted <- fn:
	case <-l.stopped:
	}
}

// Stop makes Run return after the callback in flight completes.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopped) })
}

// Done is closed once Stop has been called.
func (l *Loop) Done() <-chan struct{} { return l.stopped }

func (l *Loop) Stopped() bool {
	select {
	case <-l.stopped:
		return true
	default:
		return false
	}
}

func (l *Loop) drainPosted() {
	for {
		select {
		case fn := <-l.posted:
			l.ScheduleSoon(fn)
		default:
			return
		}
	}
}

// RunDue runs one pass: every callback whose deadline has passed and which
// was scheduled before the pass began. It returns how many callbacks ran.
func (l *Loop) RunDue() int {
	l.drainPosted()

	now := l.clock.Now()
	last := l.seq
	ran := 0
	for !l.Stopped() {
		t, ok := l.queue.Min()
		if !ok || t.deadline.After(now) {
			break
		}
		// the minimum was scheduled during this pass; everything due
		// behind it was too
		if t.seq > last {
			break
		}
		l.queue.DeleteMin()
		t.fn()
		ran++
	}
	return ran
}

// Run processes callbacks until Stop is called or ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.RunDue()
		if l.Stopped() {
			return nil
		}

		var (
			timer clockwork.Timer
			wake  <-chan time.Time
		)
		if t, ok := l.queue.Min(); ok {
			timer = l.clock.NewTimer(t.deadline.Sub(l.clock.Now()))
			wake = timer.Chan()
		}

		select {
		case <-ctx.Done():
			stopTimer(timer)
			return ctx.Err()
		case <-l.stopped:
			stopTimer(timer)
			return nil
		case fn := <-l.posted:
			l.ScheduleSoon(fn)
		case <-wake:
		}
		stopTimer(timer)
	}
}

func stopTimer(t clockwork.Timer) {
	if t != nil {
		t.Stop()
	}
}
