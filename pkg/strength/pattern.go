// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import (
	"github.com/nbutton23/zxcvbn-go"
	"math"
	"pwd-assessor/pkg/charset"
)

// DefaultMaxPatternLength limits the portion of a password handed to zxcvbn. Matching
// time grows quickly with the length of the input.
const DefaultMaxPatternLength = 50

// PatternScorer scores passwords with zxcvbn pattern matching.
type PatternScorer struct {
	maxLength  int
	userInputs []string
}

// NewPatternScorer creates a zxcvbn backed scorer. maxLength <= 0 disables truncation.
// userInputs are extra dictionary words (site name, user name) zxcvbn penalises.
func NewPatternScorer(maxLength int, userInputs ...string) *PatternScorer {
	return &PatternScorer{maxLength: maxLength, userInputs: userInputs}
}

func (s *PatternScorer) Score(password string) (Analysis, error) {
	if password == "" {
		return Analysis{Verdict: Empty, External: true, Feedback: emptyFeedback()}, nil
	}

	checked, tail := password, 0
	if s.maxLength > 0 {
		if runes := []rune(password); len(runes) > s.maxLength {
			checked, tail = string(runes[:s.maxLength]), len(runes)-s.maxLength
		}
	}

	result := zxcvbn.PasswordStrength(checked, s.userInputs)
	matches := make([]patternMatch, 0, len(result.MatchSequence))
	for _, m := range result.MatchSequence {
		matches = append(matches, patternMatch{pattern: m.Pattern, token: m.Token, dictionary: m.DictionaryName})
	}

	a := Analysis{
		Verdict:          newVerdict(result.Score),
		Bits:             finite(result.Entropy),
		CrackTimeSeconds: finite(result.CrackTime),
		CrackTimeDisplay: result.CrackTimeDisplay,
		Feedback:         feedbackFor(result.Score, matches),
		External:         true,
	}

	// The unchecked tail is counted as random characters from the password's pool, and
	// the verdict can not be lower than the heuristic one for the whole password.
	if tail > 0 {
		a.Truncated = true
		a.Bits += float64(tail) * charset.Detect(password).EntropyPerChar()
		if fb := Fallback(password); fb.Score > a.Verdict.Score {
			a.Verdict = fb
			a.Feedback = feedbackFor(fb.Score, matches)
		}
		a.CrackTimeSeconds, a.CrackTimeDisplay = 0, ""
	}
	a.Guesses = guessesFor(a.Bits)

	return a, nil
}

// guessesFor is 2^bits, or nil when that does not fit in a float64.
func guessesFor(bits float64) *float64 {
	g := math.Exp2(bits)
	if math.IsInf(g, 0) || math.IsNaN(g) {
		return nil
	}
	return &g
}

func finite(f float64) float64 {
	switch {
	case math.IsNaN(f):
		return 0
	case math.IsInf(f, 1):
		return math.MaxFloat64
	case math.IsInf(f, -1):
		return -math.MaxFloat64
	}
	return f
}
