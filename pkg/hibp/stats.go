// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"net/http"
	"sync/atomic"
	"time"
)

// Stats counts range requests made by a Client. Safe for concurrent use.
type Stats struct {
	requests           uint64
	failures           uint64
	cacheHits          uint64
	cloudflareHits     uint64
	cloudflareMisses   uint64
	requestMillisTotal uint64
	start              time.Time
}

type Snapshot struct {
	Requests         uint64
	Failures         uint64
	CacheHits        uint64
	CloudflareHits   uint64
	CloudflareMisses uint64
	AverageMillis    float64
	Uptime           time.Duration
}

func newStats() *Stats {
	return &Stats{start: time.Now()}
}

func (s *Stats) RequestComplete(res *http.Response, millis int64) {
	atomic.AddUint64(&s.requestMillisTotal, uint64(millis))
	atomic.AddUint64(&s.requests, 1)

	if cacheHit := res.Header.Get("CF-Cache-Status"); cacheHit == "HIT" {
		atomic.AddUint64(&s.cloudflareHits, 1)
	} else {
		atomic.AddUint64(&s.cloudflareMisses, 1)
	}
}

func (s *Stats) Failure() {
	atomic.AddUint64(&s.failures, 1)
}

func (s *Stats) CacheHit() {
	atomic.AddUint64(&s.cacheHits, 1)
}

func (s *Stats) Snapshot() Snapshot {
	snap := Snapshot{
		Requests:         atomic.LoadUint64(&s.requests),
		Failures:         atomic.LoadUint64(&s.failures),
		CacheHits:        atomic.LoadUint64(&s.cacheHits),
		CloudflareHits:   atomic.LoadUint64(&s.cloudflareHits),
		CloudflareMisses: atomic.LoadUint64(&s.cloudflareMisses),
		Uptime:           time.Since(s.start),
	}
	if snap.Requests > 0 {
		snap.AverageMillis = float64(atomic.LoadUint64(&s.requestMillisTotal)) / float64(snap.Requests)
	}

	return snap
}

// Log writes a summary of the counters at debug level.
func (s *Stats) Log() {
	snap := s.Snapshot()
	p := message.NewPrinter(language.English)

	log.Debug().Msgf("made %s range requests in %v. Average response time %.2f ms", p.Sprintf("%d", snap.Requests), snap.Uptime.Round(time.Second), snap.AverageMillis)
	log.Debug().Msgf("local cache hits: %s, failed lookups: %s", p.Sprintf("%d", snap.CacheHits), p.Sprintf("%d", snap.Failures))
	if snap.Requests > 0 {
		log.Debug().Msgf("cloudflare cache hits: %s (%.2f%%), misses: %s (%.2f%%)",
			p.Sprintf("%d", snap.CloudflareHits), float64(snap.CloudflareHits*100)/float64(snap.Requests),
			p.Sprintf("%d", snap.CloudflareMisses), float64(snap.CloudflareMisses*100)/float64(snap.Requests))
	}
}
