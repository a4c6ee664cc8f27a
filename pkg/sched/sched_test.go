package sched

import (
	"context"
	"testing"
	"time"
)

// countdown is Pending n times, waking itself each time.
type countdown struct {
	n     int
	polls int
}

func (c *countdown) Poll(cx *Context) Poll {
	c.polls++
	if c.n == 0 {
		return Ready
	}
	c.n--
	cx.Waker().Wake()
	return Pending
}

type cancelTask struct {
	waker    Waker
	canceled int
}

func (c *cancelTask) Poll(cx *Context) Poll {
	c.waker = cx.Waker()
	return Pending
}

func (c *cancelTask) Cancel() { c.canceled++ }

func TestSpawnRunsToCompletion(t *testing.T) {
	s := New()
	c := &countdown{n: 3}
	h := s.Spawn("countdown", c)

	polls := s.RunUntilIdle()

	if polls != 4 {
		t.Errorf("polls = %d, want 4", polls)
	}
	if c.polls != 4 {
		t.Errorf("task polls = %d, want 4", c.polls)
	}
	if !h.Done() || h.Aborted() {
		t.Errorf("Done = %v, Aborted = %v, want true, false", h.Done(), h.Aborted())
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestTasksPolledInQueueOrder(t *testing.T) {
	s := New()
	var order []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		s.Spawn(name, TaskFunc(func(cx *Context) Poll {
			order = append(order, name)
			return Ready
		}))
	}

	s.RunUntilIdle()

	if got := len(order); got != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("order = %v, want [a b c]", order)
	}
}

func TestWakeCoalescesWhileQueued(t *testing.T) {
	s := New()
	var waker Waker
	polls := 0
	s.Spawn("idle", TaskFunc(func(cx *Context) Poll {
		polls++
		waker = cx.Waker()
		return Pending
	}))
	s.RunUntilIdle()

	waker.Wake()
	waker.Wake()
	waker.Wake()
	s.RunUntilIdle()

	if polls != 2 {
		t.Errorf("polls = %d, want 2", polls)
	}
}

func TestAbortStopsPollingAndCancels(t *testing.T) {
	s := New()
	c := &cancelTask{}
	h := s.Spawn("cancel", c)
	s.RunUntilIdle()

	h.Abort()
	h.Abort()
	c.waker.Wake()

	if polls := s.RunUntilIdle(); polls != 0 {
		t.Errorf("polls after abort = %d, want 0", polls)
	}
	if c.canceled != 1 {
		t.Errorf("Cancel called %d times, want 1", c.canceled)
	}
	if !h.Aborted() {
		t.Error("Aborted = false, want true")
	}
}

func TestAbortFinishedTaskIsNoop(t *testing.T) {
	s := New()
	c := &countdown{}
	h := s.Spawn("done", c)
	s.RunUntilIdle()

	h.Abort()

	if h.Aborted() {
		t.Error("finished task reported as aborted")
	}
}

func TestPostRunsBeforeTasks(t *testing.T) {
	s := New()
	var order []string
	s.Spawn("task", TaskFunc(func(cx *Context) Poll {
		order = append(order, "task")
		return Ready
	}))
	s.Post(func() { order = append(order, "posted") })

	s.RunUntilIdle()

	if len(order) != 2 || order[0] != "posted" {
		t.Errorf("order = %v, want [posted task]", order)
	}
}

func TestRunUntilIdleReentrancyPanics(t *testing.T) {
	s := New()
	var recovered any
	s.Spawn("reenter", TaskFunc(func(cx *Context) Poll {
		defer func() { recovered = recover() }()
		s.RunUntilIdle()
		return Ready
	}))
	s.RunUntilIdle()

	if recovered == nil {
		t.Error("expected panic on reentrant RunUntilIdle")
	}
}

func TestRunWakesFromOtherGoroutine(t *testing.T) {
	s := New()
	done := make(chan struct{})
	s.Spawn("stopper", TaskFunc(func(cx *Context) Poll {
		close(done)
		return Ready
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("task never ran")
	}

	posted := make(chan struct{})
	s.Post(func() { close(posted) })
	select {
	case <-posted:
	case <-ctx.Done():
		t.Fatal("posted function never ran")
	}

	s.Stop()
	if err := <-errCh; err != ErrStopped {
		t.Errorf("Run error = %v, want ErrStopped", err)
	}
}

func TestPollString(t *testing.T) {
	tests := []struct {
		p    Poll
		want string
	}{
		{Pending, "Pending"},
		{Ready, "Ready"},
		{Closed, "Closed"},
		{Poll(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Poll(%d).String() = %q, want %q", tt.p, got, tt.want)
		}
	}
}
