package component

import (
	"log/slog"
	"time"

	"github.com/guise-dev/guise/pkg/dom"
	"github.com/guise-dev/guise/pkg/vdom"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for commit spans.
const defaultTracerName = "guise"

// Recorder receives commit statistics. pkg/metrics provides a Prometheus
// implementation.
type Recorder interface {
	// Commit is called after every commit of a component.
	Commit(component string, stats vdom.Stats, d time.Duration)

	// Mounted is called with +1 when an instance connects and -1 when it
	// disconnects.
	Mounted(component string, delta int)
}

// Commit describes one patch of a component's live tree.
type Commit struct {
	Component string
	Host      dom.Element
	Seq       uint64 // per-instance commit number, starting at 1
	Stats     vdom.Stats
	Duration  time.Duration
	At        time.Time
}

// CommitObserver is notified after every commit.
type CommitObserver interface {
	Committed(c Commit)
}

// CommitObserverFunc adapts a function to the CommitObserver interface.
type CommitObserverFunc func(c Commit)

// Committed implements CommitObserver.
func (f CommitObserverFunc) Committed(c Commit) { f(c) }

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger for lifecycle and commit messages.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTracer sets the tracer used for commit spans. The default is the
// global provider's "guise" tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Registry) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// WithRecorder sets the commit statistics recorder.
func WithRecorder(rec Recorder) Option {
	return func(r *Registry) {
		r.recorder = rec
	}
}

// WithObserver adds a commit observer.
func WithObserver(o CommitObserver) Option {
	return func(r *Registry) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

func defaultTracer() trace.Tracer {
	return otel.Tracer(defaultTracerName)
}
