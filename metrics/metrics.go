// Package metrics records annotation run statistics as Prometheus metrics
// and exports them in the node_exporter textfile format.
//
// All methods are safe on a nil *Recorder, so callers that run without
// metrics can pass nil.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "semunits"

// Recorder holds the run metrics in a private registry.
type Recorder struct {
	registry *prometheus.Registry

	runsTotal        *prometheus.CounterVec
	runDuration      prometheus.Histogram
	modelsTotal      prometheus.Counter
	variablesTotal   prometheus.Counter
	inferredTotal    *prometheus.CounterVec
	missesTotal      *prometheus.CounterVec
	factsAdded       prometheus.Counter
	entitiesCreated  prometheus.Counter
	storeTriples     prometheus.Gauge
	lastRunTimestamp prometheus.Gauge
}

// NewRecorder creates a Recorder with all metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of annotation runs by outcome",
		}, []string{"status"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of annotation runs in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
		}),
		modelsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "models_total",
			Help:      "Total number of models annotated",
		}),
		variablesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "variables_total",
			Help:      "Total number of variables examined",
		}),
		inferredTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "variables_inferred_total",
			Help:      "Total number of variables assigned a category, by category",
		}, []string{"category"}),
		missesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classification_misses_total",
			Help:      "Total number of inferred variables not classified by name, by reason",
		}, []string{"reason"}),
		factsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "facts_added_total",
			Help:      "Total number of facts added to annotation stores",
		}),
		entitiesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_created_total",
			Help:      "Total number of anonymous entities minted",
		}),
		storeTriples: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_triples",
			Help:      "Number of triples in the annotation store after the last run",
		}),
		lastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed run",
		}),
	}

	r.registry.MustRegister(
		r.runsTotal,
		r.runDuration,
		r.modelsTotal,
		r.variablesTotal,
		r.inferredTotal,
		r.missesTotal,
		r.factsAdded,
		r.entitiesCreated,
		r.storeTriples,
		r.lastRunTimestamp,
	)
	return r
}

// Registry exposes the underlying registry, e.g. for an HTTP handler.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Variable records one examined variable and, when category is non-empty,
// its inferred category.
func (r *Recorder) Variable(category string) {
	if r == nil {
		return
	}
	r.variablesTotal.Inc()
	if category != "" {
		r.inferredTotal.WithLabelValues(category).Inc()
	}
}

// ClassificationMiss records a name classification miss.
func (r *Recorder) ClassificationMiss(reason string) {
	if r == nil {
		return
	}
	r.missesTotal.WithLabelValues(reason).Inc()
}

// Model records one annotated model with the facts and entities it added.
func (r *Recorder) Model(factsAdded, entitiesCreated int) {
	if r == nil {
		return
	}
	r.modelsTotal.Inc()
	r.factsAdded.Add(float64(factsAdded))
	r.entitiesCreated.Add(float64(entitiesCreated))
}

// RunFinished records the outcome of a run.
func (r *Recorder) RunFinished(status string, duration time.Duration, storeTriples int) {
	if r == nil {
		return
	}
	r.runsTotal.WithLabelValues(status).Inc()
	r.runDuration.Observe(duration.Seconds())
	r.storeTriples.Set(float64(storeTriples))
	r.lastRunTimestamp.SetToCurrentTime()
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
