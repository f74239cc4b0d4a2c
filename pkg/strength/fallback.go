// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import (
	"math"
	"pwd-assessor/pkg/charset"
)

const rawMax = 5

// Fallback is the deterministic heuristic used when no pattern scorer is around.
// One point each for length >= 8, length >= 12, mixed case, a digit and a symbol,
// rescaled from 0-5 to 0-4.
func Fallback(password string) Verdict {
	if password == "" {
		return Empty
	}

	p := charset.Detect(password)
	raw := 0
	if p.Length >= 8 {
		raw++
	}
	if p.Length >= 12 {
		raw++
	}
	if p.HasLower && p.HasUpper {
		raw++
	}
	if p.HasDigit {
		raw++
	}
	if p.HasSymbol {
		raw++
	}

	return newVerdict(int(math.Round(float64(raw) / rawMax * MaxScore)))
}

// FallbackScorer adapts Fallback to the Scorer interface.
type FallbackScorer struct{}

func (FallbackScorer) Score(password string) (Analysis, error) {
	return Analysis{Verdict: Fallback(password)}, nil
}
