// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cracktime

import (
	"encoding/json"
	"math"
	"pwd-assessor/pkg/charset"
	"strings"
	"testing"
)

func TestHumanize(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "less than 1 second"},
		{0.4, "less than 1 second"},
		{math.NaN(), "less than 1 second"},
		{30, "30 sec"},
		{90, "2 min"},
		{3600, "1 hr"},
		{90000, "1 days"},
		{10 * year, "10.0 years"},
		{12.34 * year, "12.3 years"},
		{2000 * year, "centuries"},
		{math.Inf(1), "centuries"},
	}

	for _, tc := range cases {
		if got := Humanize(tc.seconds); got != tc.want {
			t.Errorf("Humanize(%v): %s, want: %s", tc.seconds, got, tc.want)
		}
	}
}

func TestNewEstimator(t *testing.T) {
	e, err := NewEstimator()
	if err != nil {
		t.Fatalf("Should not fail with the default table: %s", err)
	}
	if len(e.Adversaries()) != len(DefaultAdversaries) {
		t.Errorf("Estimator should use the default table")
	}

	e, err = NewEstimator(Adversary{"fast", 1e9}, Adversary{"slow", 10})
	if err != nil {
		t.Fatalf("Should not fail with a custom table: %s", err)
	}
	if table := e.Adversaries(); table[0].Label != "slow" || table[1].Label != "fast" {
		t.Errorf("Table should be ordered by rate, have %v", table)
	}

	if _, err = NewEstimator(Adversary{"broken", 0}); err == nil {
		t.Errorf("Should fail with a zero rate")
	}
	if _, err = NewEstimator(Adversary{"", 10}); err == nil {
		t.Errorf("Should fail with an empty label")
	}
}

func TestEstimate_Monotonic(t *testing.T) {
	e, _ := NewEstimator()

	for _, password := range []string{"a", "password", "Tr0ub4dor&3", strings.Repeat("x", 400)} {
		est := e.Estimate(charset.Detect(password))
		if len(est.Adversaries) != len(DefaultAdversaries) {
			t.Fatalf("Should have one estimate per adversary, have %d", len(est.Adversaries))
		}

		for i := 1; i < len(est.Adversaries); i++ {
			if est.Adversaries[i].Seconds > est.Adversaries[i-1].Seconds {
				t.Errorf("Seconds for %q should not increase with the rate: %v > %v",
					password, est.Adversaries[i].Seconds, est.Adversaries[i-1].Seconds)
			}
		}
	}
}

func TestEstimate_Values(t *testing.T) {
	e, _ := NewEstimator(Adversary{"unit", 1})

	// 10^4 guesses at one per second
	est := e.Estimate(charset.Detect("1234"))
	if est.Guesses == nil || *est.Guesses != 10000 {
		t.Errorf("Guesses should be 10000, have %v", est.Guesses)
	}
	if got := float64(est.Adversaries[0].Seconds); math.Abs(got-10000) > 1e-6 {
		t.Errorf("Seconds should be 10000, have %f", got)
	}
	if est.Adversaries[0].Display != "3 hr" {
		t.Errorf("Display should be 3 hr, have %s", est.Adversaries[0].Display)
	}
	if est.BitsSource != SourceCharset {
		t.Errorf("Bits should come from the charset, have %s", est.BitsSource)
	}
}

func TestEstimate_Guards(t *testing.T) {
	e, _ := NewEstimator()

	long := e.Estimate(charset.Detect(strings.Repeat("aB3$", 200)))
	if long.Guesses != nil {
		t.Errorf("Guesses should be unknown for a huge keyspace, have %d", *long.Guesses)
	}
	for _, a := range long.Adversaries {
		if !a.Seconds.IsInf() {
			t.Errorf("Seconds should be infinite for %s, have %v", a.Label, a.Seconds)
		}
		if a.Display != "centuries" {
			t.Errorf("Display should be centuries, have %s", a.Display)
		}
	}

	// ln(26) - ln(1e308) is well below the underflow guard.
	fast, _ := NewEstimator(Adversary{"absurd", 1e308})
	short := fast.Estimate(charset.Detect("a"))
	if short.Adversaries[0].Seconds != 0 {
		t.Errorf("Seconds should underflow to zero, have %v", short.Adversaries[0].Seconds)
	}
}

func TestEstimate_GuessesLimit(t *testing.T) {
	e, _ := NewEstimator()

	// 10^15 fits, 10^16 does not.
	if est := e.Estimate(charset.Detect(strings.Repeat("1", 15))); est.Guesses == nil {
		t.Errorf("Guesses should be known for 10^15")
	}
	if est := e.Estimate(charset.Detect(strings.Repeat("1", 16))); est.Guesses != nil {
		t.Errorf("Guesses should be unknown for 10^16, have %d", *est.Guesses)
	}
}

func TestEstimate_JSON(t *testing.T) {
	e, _ := NewEstimator(Adversary{"unit", 1})
	est := e.Estimate(charset.Detect(strings.Repeat("aB3$", 200)))

	data, err := json.Marshal(est)
	if err != nil {
		t.Fatalf("Should not fail marshalling an infinite estimate: %s", err)
	}
	if !strings.Contains(string(data), `"seconds":null`) {
		t.Errorf("Infinite seconds should be null, have %s", data)
	}
	if !strings.Contains(string(data), `"guesses":null`) {
		t.Errorf("Unknown guesses should be null, have %s", data)
	}
}

func TestEstimate_OverrideBits(t *testing.T) {
	e, _ := NewEstimator()
	est := e.Estimate(charset.Detect("password"))
	est.OverrideBits(2.5, SourcePattern)

	if est.Bits != 2.5 || est.BitsSource != SourcePattern {
		t.Errorf("Bits should be overridden, have %f from %s", est.Bits, est.BitsSource)
	}
}
