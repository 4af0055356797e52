package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Translator, store and cache metrics.
var (
	TranslationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translations_total",
			Help:      "Queries translated, by outcome",
		},
		[]string{"outcome"}, // "classified" / "fallback" / "match_all"
	)

	ClassifierHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifier_hits_total",
			Help:      "Clauses recognised, by classifier",
		},
		[]string{"classifier"},
	)

	PredicateConditions = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "predicate_conditions",
			Help:      "Top-level conditions per translated predicate",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 8, 10, 15},
		},
	)

	StoreQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_query_duration_seconds",
			Help:      "Record store call duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation", "status"},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "result_cache_total",
			Help:      "Result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss" / "error"
	)
)

func init() {
	prometheus.MustRegister(TranslationsTotal)
	prometheus.MustRegister(ClassifierHitsTotal)
	prometheus.MustRegister(PredicateConditions)
	prometheus.MustRegister(StoreQueryDuration)
	prometheus.MustRegister(CacheTotal)
}

// ObserveStore records one store call started at start.
func ObserveStore(operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	StoreQueryDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
}
