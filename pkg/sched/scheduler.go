package sched

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrStopped is returned by Run when the scheduler was stopped with Stop.
var ErrStopped = errors.New("sched: scheduler stopped")

// Poll is the result of polling a task or a stream.
type Poll uint8

const (
	// Pending means no progress can be made until the waker fires.
	Pending Poll = iota
	// Ready means the task finished, or the stream produced an item.
	Ready
	// Closed means the stream has ended. Tasks never return Closed.
	Closed
)

// String returns the string representation of the Poll.
func (p Poll) String() string {
	switch p {
	case Pending:
		return "Pending"
	case Ready:
		return "Ready"
	case Closed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Task is a unit of cooperative work.
type Task interface {
	// Poll advances the task. It returns Ready when the task is complete and
	// Pending after arranging for cx.Waker() to be woken.
	Poll(cx *Context) Poll
}

// TaskFunc adapts a function to the Task interface.
type TaskFunc func(cx *Context) Poll

// Poll implements Task.
func (f TaskFunc) Poll(cx *Context) Poll { return f(cx) }

// Canceler is implemented by tasks that hold resources which must be released
// when the task is aborted before completion.
type Canceler interface {
	Cancel()
}

// Context is handed to every poll.
type Context struct {
	waker Waker
}

// Waker returns the waker of the task being polled.
func (cx *Context) Waker() Waker { return cx.waker }

// Waker re-queues a task. The zero Waker does nothing.
type Waker struct {
	s *Scheduler
	t *task
}

// Wake queues the task for polling. Waking a finished or aborted task, or a
// task that is already queued, is a no-op.
func (w Waker) Wake() {
	if w.s == nil || w.t == nil {
		return
	}
	w.s.enqueue(w.t)
}

// IsZero reports whether the waker is unset.
func (w Waker) IsZero() bool { return w.t == nil }

type task struct {
	id       uint64
	name     string
	t        Task
	queued   bool
	finished bool
	aborted  bool
}

// Scheduler is a ready queue of tasks polled one at a time.
type Scheduler struct {
	mu      sync.Mutex
	ready   []*task
	posted  []func()
	live    map[uint64]*task
	nextID  uint64
	polling bool
	stopped bool
	notify  chan struct{}
	logger  *slog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for task lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates an idle scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		live:   make(map[uint64]*task),
		notify: make(chan struct{}, 1),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Spawn registers t and queues it for its first poll.
func (s *Scheduler) Spawn(name string, t Task) *Handle {
	s.mu.Lock()
	s.nextID++
	tk := &task{id: s.nextID, name: name, t: t}
	s.live[tk.id] = tk
	s.mu.Unlock()

	s.enqueue(tk)
	return &Handle{s: s, t: tk}
}

// Post queues fn to run on the loop before the next task is polled. It is the
// entry point for callbacks originating on other goroutines.
func (s *Scheduler) Post(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.posted = append(s.posted, fn)
	s.mu.Unlock()
	s.signal()
}

// Len returns the number of tasks that are neither finished nor aborted.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// RunUntilIdle runs posted functions and polls ready tasks until both queues
// are empty. It returns the number of polls performed. Calling it from inside
// a task panics.
func (s *Scheduler) RunUntilIdle() int {
	s.mu.Lock()
	if s.polling {
		s.mu.Unlock()
		panic("sched: RunUntilIdle called from inside a task")
	}
	s.polling = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.polling = false
		s.mu.Unlock()
	}()

	polls := 0
	for {
		fn, tk := s.next()
		if fn != nil {
			fn()
			continue
		}
		if tk == nil {
			return polls
		}
		polls++
		s.poll(tk)
	}
}

// Run drives the scheduler until ctx is done or Stop is called.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		s.RunUntilIdle()

		s.mu.Lock()
		stopped := s.stopped
		s.mu.Unlock()
		if stopped {
			return ErrStopped
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.notify:
		}
	}
}

// Stop makes Run return after the current pass.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.signal()
}

func (s *Scheduler) next() (func(), *task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.posted) > 0 {
		fn := s.posted[0]
		s.posted[0] = nil
		s.posted = s.posted[1:]
		return fn, nil
	}
	for len(s.ready) > 0 {
		tk := s.ready[0]
		s.ready[0] = nil
		s.ready = s.ready[1:]
		tk.queued = false
		if tk.finished || tk.aborted {
			continue
		}
		return nil, tk
	}
	return nil, nil
}

func (s *Scheduler) poll(tk *task) {
	cx := &Context{waker: Waker{s: s, t: tk}}
	if tk.t.Poll(cx) == Pending {
		return
	}

	s.mu.Lock()
	tk.finished = true
	delete(s.live, tk.id)
	s.mu.Unlock()
}

func (s *Scheduler) enqueue(tk *task) {
	s.mu.Lock()
	if tk.queued || tk.finished || tk.aborted {
		s.mu.Unlock()
		return
	}
	tk.queued = true
	s.ready = append(s.ready, tk)
	s.mu.Unlock()
	s.signal()
}

func (s *Scheduler) signal() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Handle controls a spawned task.
type Handle struct {
	s *Scheduler
	t *task
}

// Abort stops the task: it is never polled again and, if it implements
// Canceler, its Cancel method runs once. Aborting a finished task is a no-op.
func (h *Handle) Abort() {
	if h == nil {
		return
	}
	s := h.s
	s.mu.Lock()
	if h.t.finished || h.t.aborted {
		s.mu.Unlock()
		return
	}
	h.t.aborted = true
	delete(s.live, h.t.id)
	s.mu.Unlock()

	if c, ok := h.t.t.(Canceler); ok {
		c.Cancel()
	}
	s.logger.Debug("task aborted", "task", h.t.name, "task_id", h.t.id)
}

// Done reports whether the task finished or was aborted.
func (h *Handle) Done() bool {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	return h.t.finished || h.t.aborted
}

// Aborted reports whether the task was aborted.
func (h *Handle) Aborted() bool {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	return h.t.aborted
}
