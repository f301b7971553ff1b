// Package metrics exposes Prometheus instrumentation for the engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "puck_challenge"

var (
	Recomputes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stat_recomputes_total",
		Help:      "Weekly stats recomputations performed.",
	})

	RecomputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stat_recompute_duration_seconds",
		Help:      "Time spent recomputing stats and re-evaluating achievements.",
		Buckets:   prometheus.DefBuckets,
	})

	Evaluations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "achievement_evaluations_total",
		Help:      "Individual achievement completion checks.",
	})

	Completions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "achievement_completions_total",
		Help:      "Achievements newly marked complete.",
	})

	AchievementsAssigned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "achievements_assigned_total",
		Help:      "Achievements handed out by weekly cycles and swaps.",
	})

	CycleUsers = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cycle_users_total",
		Help:      "Users processed by assignment cycles, by result.",
	}, []string{"result"})

	Swaps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "swaps_total",
		Help:      "Achievement swap attempts, by result.",
	}, []string{"result"})
)
