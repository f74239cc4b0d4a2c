// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package assess

import (
	"errors"
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"pwd-assessor/pkg/hibp"
	"time"
)

const namespace = "pwd_assessor"

const (
	outcomeFound   = "found"
	outcomeClean   = "clean"
	outcomeErrored = "errored"
)

// Metrics are the engine's prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	Assessments     *prometheus.CounterVec
	BreachLookups   *prometheus.CounterVec
	LookupDuration  prometheus.Histogram
	ScorerFallbacks prometheus.Counter
}

// NewMetrics registers the collectors with reg, or the default registerer when reg is
// nil. Collectors already registered by another engine are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	assessments, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assessments_total",
		Help:      "Total number of password assessments partitioned by strength label.",
	}, []string{"label"}))
	if err != nil {
		return nil, err
	}

	lookups, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "breach",
		Name:      "lookups_total",
		Help:      "Total number of breach corpus lookups partitioned by outcome.",
	}, []string{"outcome"}))
	if err != nil {
		return nil, err
	}

	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "breach",
		Name:      "lookup_duration_seconds",
		Help:      "Histogram of breach corpus lookup latencies in seconds.",
		Buckets:   prometheus.DefBuckets,
	}))
	if err != nil {
		return nil, err
	}

	fallbacks, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scorer_fallbacks_total",
		Help:      "Total number of times the pattern scorer failed and the fallback scorer was used.",
	}))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		Assessments:     assessments,
		BreachLookups:   lookups,
		LookupDuration:  duration,
		ScorerFallbacks: fallbacks,
	}, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
			return c, fmt.Errorf("existing collector has unexpected type %T", already.ExistingCollector)
		}
		return c, fmt.Errorf("register collector: %w", err)
	}

	return c, nil
}

func (m *Metrics) observeAssessment(label string) {
	if m == nil {
		return
	}
	m.Assessments.WithLabelValues(label).Inc()
}

func (m *Metrics) observeLookup(res hibp.Result, elapsed time.Duration) {
	if m == nil {
		return
	}

	outcome := outcomeClean
	switch {
	case res.Errored:
		outcome = outcomeErrored
	case res.Found:
		outcome = outcomeFound
	}
	m.BreachLookups.WithLabelValues(outcome).Inc()
	m.LookupDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) observeFallback() {
	if m == nil {
		return
	}
	m.ScorerFallbacks.Inc()
}
