// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"pwd-assessor/internal/assess"
	"pwd-assessor/internal/config"
	"pwd-assessor/pkg/hasher"
	"pwd-assessor/pkg/hibp"
	"time"
)

// newEngine builds the assessment engine from the configuration. The returned func
// releases the range cache and logs the corpus client stats.
func newEngine(ctx context.Context, cfg config.Config, reg prometheus.Registerer) (*assess.Engine, func(), error) {
	var (
		cache   hibp.RangeCache
		release = func() {}
	)

	if cfg.RedisURL != "" {
		rc, err := hibp.DialRedisCache(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Msg("sharing the range cache through redis")
		cache = rc
		release = func() {
			if err := rc.Close(); err != nil {
				log.Warn().Err(err).Msg("error closing redis connection")
			}
		}
	} else if cfg.CacheMaxCost > 0 {
		mc, err := hibp.NewMemoryCache(cfg.CacheMaxCost, cfg.CacheTTL)
		if err != nil {
			return nil, nil, err
		}
		cache = mc
		release = mc.Close
	}

	opts := []hibp.Option{
		hibp.WithEndpoint(cfg.HibpURL),
		hibp.WithTimeout(cfg.HibpTimeout),
		hibp.WithRetryMax(cfg.HibpRetryMax),
		hibp.WithPadding(cfg.HibpPadding),
	}
	if cache != nil {
		opts = append(opts, hibp.WithCache(cache))
	}
	client := hibp.NewClient(opts...)

	h, err := hasher.New(hasher.WithAlgorithm(cfg.HashAlgorithm), hasher.WithIterations(cfg.HashIterations))
	if err != nil {
		release()
		return nil, nil, err
	}

	engineOpts := []assess.Option{assess.WithBreachChecker(client), assess.WithHasher(h)}
	if reg != nil {
		metrics, err := assess.NewMetrics(reg)
		if err != nil {
			release()
			return nil, nil, fmt.Errorf("error registering metrics: %w", err)
		}
		engineOpts = append(engineOpts, assess.WithMetrics(metrics))
	}

	engine, err := assess.New(assess.Config{
		// Every retry gets its own request timeout.
		LookupTimeout:    cfg.HibpTimeout * time.Duration(cfg.HibpRetryMax+1),
		PatternScorer:    cfg.PatternScorer,
		MaxPatternLength: cfg.PatternMaxLength,
	}, engineOpts...)
	if err != nil {
		release()
		return nil, nil, err
	}

	return engine, func() {
		client.Stats().Log()
		release()
	}, nil
}
