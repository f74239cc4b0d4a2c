// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

const (
	MinScore = 0
	MaxScore = 4
)

// Labels for scores 0 to 4, shared by every scorer.
var Labels = [...]string{"Very weak", "Weak", "Fair", "Strong", "Very strong"}

// Empty is the verdict for a zero length password. It is not the same as "Very weak".
var Empty = Verdict{Score: 0, Label: "Empty"}

type Verdict struct {
	Score int    `json:"score"`
	Label string `json:"label"`
}

// LabelFor clamps the score to the valid range and returns its label.
func LabelFor(score int) string {
	return Labels[clamp(score)]
}

func newVerdict(score int) Verdict {
	score = clamp(score)
	return Verdict{Score: score, Label: Labels[score]}
}

func clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
