// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cracktime

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"pwd-assessor/pkg/charset"
	"sort"
)

// Past these bounds exp() over/underflows a float64.
const (
	lnOverflow  = 700
	lnUnderflow = -700
)

// MaxSafeGuesses is the largest integer a float64 (and a JSON number) holds exactly.
const MaxSafeGuesses = 1<<53 - 1

const (
	SourceCharset = "charset"
	SourcePattern = "pattern"
)

// Adversary is a threat model tier: a label and how many guesses per second it makes.
type Adversary struct {
	Label string  `json:"label"`
	Rate  float64 `json:"rate"`
}

// DefaultAdversaries are illustrative rates, ordered from the slowest attacker.
var DefaultAdversaries = []Adversary{
	{Label: "Slow online (100/sec)", Rate: 1e2},
	{Label: "Fast online (10k/sec)", Rate: 1e4},
	{Label: "Offline GPU (1M/sec)", Rate: 1e6},
	{Label: "Cluster GPU (1B/sec)", Rate: 1e9},
	{Label: "State actor (1T/sec)", Rate: 1e12},
}

// Seconds is a duration in seconds that may be infinite. Infinity is encoded as JSON null.
type Seconds float64

func (s Seconds) MarshalJSON() ([]byte, error) {
	f := float64(s)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

func (s Seconds) IsInf() bool {
	return math.IsInf(float64(s), 1)
}

type AdversaryEstimate struct {
	Label   string  `json:"label"`
	Rate    float64 `json:"rate"`
	Seconds Seconds `json:"seconds"`
	Display string  `json:"human"`
}

type Estimate struct {
	Bits       float64 `json:"bits"`
	BitsSource string  `json:"bitsSource"`
	// Guesses is nil when the keyspace does not fit in MaxSafeGuesses.
	Guesses     *uint64             `json:"guesses"`
	Adversaries []AdversaryEstimate `json:"estimates"`
}

// OverrideBits replaces the charset derived bit figure with one from another source.
func (e *Estimate) OverrideBits(bits float64, source string) {
	e.Bits = bits
	e.BitsSource = source
}

type Estimator struct {
	adversaries []Adversary
}

// NewEstimator builds an estimator over the given adversary table, or DefaultAdversaries
// when none are given. The table is ordered by ascending rate.
func NewEstimator(adversaries ...Adversary) (*Estimator, error) {
	if len(adversaries) == 0 {
		adversaries = DefaultAdversaries
	}

	table := make([]Adversary, len(adversaries))
	copy(table, adversaries)
	for _, a := range table {
		if a.Label == "" {
			return nil, errors.New("adversary label must not be empty")
		}
		if !(a.Rate > 0) || math.IsInf(a.Rate, 0) {
			return nil, fmt.Errorf("adversary %q has an invalid guess rate %v", a.Label, a.Rate)
		}
	}

	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Rate < table[j].Rate
	})

	return &Estimator{adversaries: table}, nil
}

func (e *Estimator) Adversaries() []Adversary {
	out := make([]Adversary, len(e.adversaries))
	copy(out, e.adversaries)
	return out
}

// Estimate computes the time to exhaust the keyspace for every adversary. The math is
// done in log space so long passwords never overflow.
func (e *Estimator) Estimate(p charset.Profile) Estimate {
	lnKeyspace := float64(p.Length) * math.Log(float64(p.Size))

	est := Estimate{
		Bits:        p.Bits(),
		BitsSource:  SourceCharset,
		Guesses:     guesses(p),
		Adversaries: make([]AdversaryEstimate, 0, len(e.adversaries)),
	}

	for _, a := range e.adversaries {
		secs := secondsFromLog(lnKeyspace - math.Log(a.Rate))
		est.Adversaries = append(est.Adversaries, AdversaryEstimate{
			Label:   a.Label,
			Rate:    a.Rate,
			Seconds: Seconds(secs),
			Display: Humanize(secs),
		})
	}

	return est
}

func secondsFromLog(lnSecs float64) float64 {
	switch {
	case lnSecs > lnOverflow:
		return math.Inf(1)
	case lnSecs < lnUnderflow:
		return 0
	default:
		return math.Exp(lnSecs)
	}
}

func guesses(p charset.Profile) *uint64 {
	g := math.Pow(float64(p.Size), float64(p.Length))
	if math.IsInf(g, 0) || math.IsNaN(g) || g > MaxSafeGuesses {
		return nil
	}

	v := uint64(math.Round(g))
	return &v
}
