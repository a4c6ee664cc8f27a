package inspect

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/guise-dev/guise/pkg/component"
	"github.com/guise-dev/guise/pkg/dom"
	"github.com/guise-dev/guise/pkg/memdom"
)

// Inspector records the commits of a headless document and serves them over
// HTTP. Register it with component.Registry.Observe (or WithObserver).
type Inspector struct {
	doc      *memdom.Document
	registry *component.Registry
	history  *History
	hub      *hub
	upgrader websocket.Upgrader

	archiver Archiver
	archiveQ chan Entry

	snapshot   func(host dom.Element) string
	metrics    http.Handler
	middleware []func(http.Handler) http.Handler
	logger     *slog.Logger
}

var _ component.CommitObserver = (*Inspector)(nil)

// Option configures an Inspector.
type Option func(*Inspector)

// WithHistorySize sets the number of commits kept in memory.
func WithHistorySize(n int) Option {
	return func(in *Inspector) {
		in.history = NewHistory(n)
	}
}

// WithArchiver uploads every commit snapshot through a.
func WithArchiver(a Archiver) Option {
	return func(in *Inspector) {
		in.archiver = a
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(in *Inspector) {
		in.metrics = h
	}
}

// WithMiddleware wraps every route of the API.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(in *Inspector) {
		in.middleware = append(in.middleware, mw...)
	}
}

// WithRegistry lists the registry's instances at /components.
func WithRegistry(r *component.Registry) Option {
	return func(in *Inspector) {
		in.registry = r
	}
}

// WithSnapshot overrides how a host is serialized after each commit.
func WithSnapshot(fn func(host dom.Element) string) Option {
	return func(in *Inspector) {
		if fn != nil {
			in.snapshot = fn
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(in *Inspector) {
		if logger != nil {
			in.logger = logger
		}
	}
}

// WithCheckOrigin sets the websocket origin check.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(in *Inspector) {
		in.upgrader.CheckOrigin = fn
	}
}

// New creates an inspector for doc.
func New(doc *memdom.Document, opts ...Option) *Inspector {
	in := &Inspector{
		doc:      doc,
		history:  NewHistory(DefaultHistorySize),
		snapshot: outerHTML,
		logger:   slog.Default(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	for _, opt := range opts {
		opt(in)
	}
	in.hub = newHub(in.logger)
	if in.archiver != nil {
		in.archiveQ = make(chan Entry, clientBuffer)
	}
	return in
}

func outerHTML(host dom.Element) string {
	if h, ok := host.(interface{ OuterHTML() string }); ok {
		return h.OuterHTML()
	}
	return ""
}

// History returns the commit history.
func (in *Inspector) History() *History { return in.history }

// Clients returns the number of connected websocket clients.
func (in *Inspector) Clients() int { return in.hub.len() }

// Committed implements component.CommitObserver. It runs on the scheduler
// loop, so the host is serialized here.
func (in *Inspector) Committed(c component.Commit) {
	e := in.history.Add(Entry{
		Component: c.Component,
		Commit:    c.Seq,
		Stats:     c.Stats,
		Duration:  c.Duration,
		At:        c.At,
		HTML:      in.snapshot(c.Host),
	})

	msg, err := encode(e)
	if err != nil {
		in.logger.Error("inspector encode failed", "seq", e.Seq, "error", err)
	} else {
		in.hub.broadcast(msg)
	}

	if in.archiveQ != nil {
		select {
		case in.archiveQ <- e:
		default:
			in.logger.Warn("archive queue full, dropping snapshot", "seq", e.Seq, "component", e.Component)
		}
	}
}

// Archive uploads the entry with the given sequence number synchronously.
func (in *Inspector) Archive(ctx context.Context, seq uint64) error {
	if in.archiver == nil {
		return ErrNoArchiver
	}
	e, ok := in.history.Get(seq)
	if !ok {
		return errNotFound
	}
	return in.archiver.Archive(ctx, e)
}

// Run uploads queued snapshots until ctx is done, then closes every
// websocket client. Without an archiver it only waits for ctx.
func (in *Inspector) Run(ctx context.Context) error {
	defer in.hub.closeAll()
	if in.archiveQ == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e := <-in.archiveQ:
			actx, cancel := context.WithTimeout(ctx, 30*time.Second)
			if err := in.archiver.Archive(actx, e); err != nil {
				in.logger.Error("archive failed", "seq", e.Seq, "component", e.Component, "error", err)
			} else {
				in.logger.Debug("archived", "seq", e.Seq, "component", e.Component)
			}
			cancel()
		}
	}
}

// onLoop runs fn on the scheduler loop and waits for it. When ctx ends
// before fn starts, fn is skipped; once started it always runs to completion
// before onLoop returns, so fn may write to the caller's variables.
func (in *Inspector) onLoop(ctx context.Context, fn func()) error {
	var (
		mu        sync.Mutex
		started   bool
		abandoned bool
	)
	done := make(chan struct{})
	in.doc.Scheduler().Post(func() {
		mu.Lock()
		if abandoned {
			mu.Unlock()
			return
		}
		started = true
		mu.Unlock()
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
	}

	mu.Lock()
	if !started {
		abandoned = true
		mu.Unlock()
		return ctx.Err()
	}
	mu.Unlock()
	<-done
	return nil
}
