package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chronos_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chronos_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// CompletionToggles counts completion writes by target (habit, sub_habit) and new value.
	CompletionToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chronos_habit_completion_toggles_total",
			Help: "Habit and sub-habit completion writes",
		},
		[]string{"target", "completed"},
	)

	// DerivedTransitions counts parent completions flipped by sub-habit aggregation.
	DerivedTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chronos_habit_derived_transitions_total",
			Help: "Parent habit completions changed by sub-habit threshold aggregation",
		},
		[]string{"completed"},
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chronos_cache_lookups_total",
			Help: "Statistics cache lookups by result",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCount, RequestDuration, CompletionToggles, DerivedTransitions, CacheLookups)
	})
}
