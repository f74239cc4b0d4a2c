// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package assess composes the charset, crack time, strength, breach and hashing
// components into a single password report.
package assess

import (
	"context"
	"fmt"
	"github.com/rs/zerolog/log"
	"pwd-assessor/pkg/charset"
	"pwd-assessor/pkg/cracktime"
	"pwd-assessor/pkg/hasher"
	"pwd-assessor/pkg/hibp"
	"pwd-assessor/pkg/strength"
	"sync"
	"time"
)

const DefaultLookupTimeout = 5 * time.Second

// BreachChecker is the breach corpus as seen by the engine. *hibp.Client implements it.
type BreachChecker interface {
	Check(ctx context.Context, password string) hibp.Result
	CheckHash(ctx context.Context, hash string) (hibp.Result, error)
}

// Config is the process wide configuration injected into an Engine.
type Config struct {
	// Adversaries defaults to cracktime.DefaultAdversaries.
	Adversaries []cracktime.Adversary
	// LookupTimeout bounds the breach lookup of a single assessment.
	LookupTimeout time.Duration
	// PatternScorer enables the zxcvbn scorer when no scorer is given with WithScorer.
	PatternScorer    bool
	MaxPatternLength int
}

// Report is everything known about one password. Crack, Hashing and InsecureHashes are
// nil for an empty password; Pattern is nil unless a pattern scorer took part.
type Report struct {
	Strength       strength.Verdict    `json:"strength"`
	Breach         hibp.Result         `json:"breach"`
	Charset        *charset.Profile    `json:"charset"`
	Crack          *cracktime.Estimate `json:"crack"`
	Hashing        *hasher.Bundle      `json:"hashing"`
	InsecureHashes *hasher.Digests     `json:"insecureHashes"`
	Pattern        *strength.Analysis  `json:"zxcvbn,omitempty"`
}

type Engine struct {
	estimator     *cracktime.Estimator
	scorer        strength.Scorer
	breach        BreachChecker
	hasher        *hasher.Hasher
	metrics       *Metrics
	lookupTimeout time.Duration
}

type Option func(*Engine)

func WithBreachChecker(b BreachChecker) Option {
	return func(e *Engine) {
		e.breach = b
	}
}

// WithScorer sets the strength scorer. A nil scorer means the fallback heuristic.
func WithScorer(s strength.Scorer) Option {
	return func(e *Engine) {
		e.scorer = s
	}
}

func WithHasher(h *hasher.Hasher) Option {
	return func(e *Engine) {
		e.hasher = h
	}
}

func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

func New(cfg Config, opts ...Option) (*Engine, error) {
	estimator, err := cracktime.NewEstimator(cfg.Adversaries...)
	if err != nil {
		return nil, fmt.Errorf("invalid adversary table: %w", err)
	}

	e := &Engine{
		estimator:     estimator,
		lookupTimeout: cfg.LookupTimeout,
	}
	if cfg.PatternScorer {
		e.scorer = strength.NewPatternScorer(cfg.MaxPatternLength)
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.scorer == nil {
		e.scorer = strength.FallbackScorer{}
	}
	if e.breach == nil {
		e.breach = hibp.NewClient()
	}
	if e.hasher == nil {
		if e.hasher, err = hasher.New(); err != nil {
			return nil, err
		}
	}
	if e.lookupTimeout <= 0 {
		e.lookupTimeout = DefaultLookupTimeout
	}

	return e, nil
}

// Assess builds the report for one password. It never fails; every degraded part is
// reported in the result instead.
func (e *Engine) Assess(ctx context.Context, password string) Report {
	if password == "" {
		e.metrics.observeAssessment(strength.Empty.Label)
		return Report{Strength: strength.Empty}
	}

	var (
		wg     sync.WaitGroup
		breach hibp.Result
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		breach = e.checkBreach(ctx, password)
	}()

	profile := charset.Detect(password)
	crack := e.estimator.Estimate(profile)
	analysis := e.score(password)

	report := Report{
		Strength: analysis.Verdict,
		Charset:  &profile,
		Crack:    &crack,
	}
	if analysis.External {
		report.Pattern = &analysis
		if analysis.Bits > 0 {
			crack.OverrideBits(analysis.Bits, cracktime.SourcePattern)
		}
	}

	if bundle, err := e.hasher.Slow(password); err == nil {
		report.Hashing = &bundle
	} else {
		log.Error().Err(err).Msg("error computing the slow hash")
	}
	digests := hasher.Fast(password)
	report.InsecureHashes = &digests

	wg.Wait()
	report.Breach = breach

	e.metrics.observeAssessment(report.Strength.Label)
	return report
}

// CheckHash runs only the breach lookup, for callers holding a SHA-1 hex digest.
func (e *Engine) CheckHash(ctx context.Context, hash string) (hibp.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
	defer cancel()

	timer := time.Now()
	res, err := e.breach.CheckHash(ctx, hash)
	if err != nil {
		return res, err
	}

	e.metrics.observeLookup(res, time.Since(timer))
	return res, nil
}

func (e *Engine) checkBreach(ctx context.Context, password string) hibp.Result {
	ctx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
	defer cancel()

	timer := time.Now()
	res := e.breach.Check(ctx, password)
	e.metrics.observeLookup(res, time.Since(timer))
	return res
}

// score asks the configured scorer, falling back to the heuristic when it errors or
// panics. Scorer failures are never passed on to the caller.
func (e *Engine) score(password string) (analysis strength.Analysis) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("strength scorer panicked: %v", r)
			e.metrics.observeFallback()
			analysis = strength.Analysis{Verdict: strength.Fallback(password)}
		}
	}()

	analysis, err := e.scorer.Score(password)
	if err != nil {
		log.Warn().Err(err).Msg("strength scorer failed, using the fallback heuristic")
		e.metrics.observeFallback()
		return strength.Analysis{Verdict: strength.Fallback(password)}
	}

	return analysis
}
