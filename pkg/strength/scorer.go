// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

// Scorer rates a password. Implementations must be safe for concurrent use.
type Scorer interface {
	Score(password string) (Analysis, error)
}

type Feedback struct {
	Warning     string   `json:"warning"`
	Suggestions []string `json:"suggestions"`
}

// Analysis is what a Scorer knows about a password. Only the Verdict is filled in by
// the fallback scorer; External marks results coming from a pattern scorer.
// Guesses is nil when the figure overflows. Truncated marks an analysis where only a
// prefix went through pattern matching; its crack time fields are then left empty.
type Analysis struct {
	Verdict          Verdict  `json:"-"`
	Guesses          *float64 `json:"guesses"`
	Bits             float64  `json:"bits"`
	CrackTimeSeconds float64  `json:"crack_time_seconds,omitempty"`
	CrackTimeDisplay string   `json:"crack_time_display,omitempty"`
	Feedback         Feedback `json:"feedback"`
	Truncated        bool     `json:"truncated,omitempty"`
	External         bool     `json:"-"`
}
