// Package metrics records component commit statistics with Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/guise-dev/guise/pkg/component"
	"github.com/guise-dev/guise/pkg/vdom"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config configures the recorder.
type Config struct {
	// Namespace is the metrics namespace (default: "guise").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for commit duration.
	Buckets []float64

	// Registry is the Prometheus registry to use. A fresh registry is
	// created when nil.
	Registry *prometheus.Registry
}

// Option configures the recorder.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "guise",
		// Commits are sub-millisecond for typical trees.
		Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
	}
}

// Recorder implements component.Recorder.
type Recorder struct {
	registry *prometheus.Registry

	commitsTotal      *prometheus.CounterVec
	commitDuration    *prometheus.HistogramVec
	replacementsTotal prometheus.Counter
	attrMutations     *prometheus.CounterVec
	textUpdates       prometheus.Counter
	nodesCreated      prometheus.Counter
	sinksSpawned      prometheus.Counter
	mounted           *prometheus.GaugeVec
}

var _ component.Recorder = (*Recorder)(nil)

// New creates a recorder and registers its metrics.
//
// Metrics collected:
//   - guise_commits_total: commits by component
//   - guise_commit_duration_seconds: patch duration by component
//   - guise_node_replacements_total: live nodes replaced
//   - guise_attribute_mutations_total: attribute sets and removals by op
//   - guise_text_updates_total: text nodes updated in place
//   - guise_nodes_created_total: live nodes created
//   - guise_sink_tasks_spawned_total: event sink tasks spawned
//   - guise_mounted_components: connected instances by component
func New(opts ...Option) *Recorder {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}
	factory := promauto.With(config.Registry)

	return &Recorder{
		registry: config.Registry,

		commitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commits_total",
			Help:        "Total number of committed trees",
			ConstLabels: config.ConstLabels,
		}, []string{"component"}),

		commitDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commit_duration_seconds",
			Help:        "Time spent patching the live tree per commit",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"component"}),

		replacementsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "node_replacements_total",
			Help:        "Total number of live nodes replaced wholesale",
			ConstLabels: config.ConstLabels,
		}),

		attrMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "attribute_mutations_total",
			Help:        "Total number of attribute mutations by operation",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		textUpdates: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "text_updates_total",
			Help:        "Total number of text nodes updated in place",
			ConstLabels: config.ConstLabels,
		}),

		nodesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_created_total",
			Help:        "Total number of live nodes created",
			ConstLabels: config.ConstLabels,
		}),

		sinksSpawned: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "sink_tasks_spawned_total",
			Help:        "Total number of event sink tasks spawned",
			ConstLabels: config.ConstLabels,
		}),

		mounted: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mounted_components",
			Help:        "Number of connected component instances",
			ConstLabels: config.ConstLabels,
		}, []string{"component"}),
	}
}

// Commit implements component.Recorder.
func (r *Recorder) Commit(name string, stats vdom.Stats, d time.Duration) {
	r.commitsTotal.WithLabelValues(name).Inc()
	r.commitDuration.WithLabelValues(name).Observe(d.Seconds())
	r.replacementsTotal.Add(float64(stats.Replaced))
	r.attrMutations.WithLabelValues("set").Add(float64(stats.AttrSets))
	r.attrMutations.WithLabelValues("remove").Add(float64(stats.AttrRemovals))
	r.textUpdates.Add(float64(stats.TextUpdates))
	r.nodesCreated.Add(float64(stats.Created))
	r.sinksSpawned.Add(float64(stats.Sinks))
}

// Mounted implements component.Recorder.
func (r *Recorder) Mounted(name string, delta int) {
	r.mounted.WithLabelValues(name).Add(float64(delta))
}

// Registry returns the registry the metrics are registered with.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the recorder's registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
