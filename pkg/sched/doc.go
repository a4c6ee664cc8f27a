// Package sched provides the single-threaded cooperative scheduler that drives
// component render loops and event delivery.
//
// Only one task is polled at a time, on the goroutine that calls RunUntilIdle
// or Run. A task that cannot make progress returns Pending after handing its
// Waker to whatever it is waiting on; waking re-queues the task. Waking and
// posting are safe from any goroutine, polling is not.
//
// # Tasks
//
//	h := s.Spawn("render", sched.TaskFunc(func(cx *sched.Context) sched.Poll {
//	    // ...
//	    return sched.Ready
//	}))
//	h.Abort() // never polled again
//
// # Streams and sinks
//
// Stream and Sink mirror the poll contract of Task for sequences of values.
// Listener adapts a plain function into an always-ready Sink, Queue is a
// bounded buffer usable as both ends, and SwitchMap flattens a stream of
// streams by always following the most recent inner stream.
package sched
