// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"pwd-assessor/internal/assess"
	"pwd-assessor/pkg/hasher"
	"pwd-assessor/pkg/hibp"
	"strings"
	"testing"
	"time"
)

// "password" hashes to 5BAA61E4C9B93F3F0682250B6CF8331B7EE68FD8
const passwordSuffix = "1E4C9B93F3F0682250B6CF8331B7EE68FD8"

func newTestEngine(t *testing.T) *assess.Engine {
	t.Helper()

	corpus := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/5BAA6") {
			_, _ = w.Write([]byte(passwordSuffix + ":3861493\r\n0018A45C4D1DEF81644B54AB7F969B88D65:0\r\n"))
			return
		}
		_, _ = w.Write([]byte("0018A45C4D1DEF81644B54AB7F969B88D65:1\r\n"))
	}))
	t.Cleanup(corpus.Close)

	h, err := hasher.New(hasher.WithIterations(1000))
	if err != nil {
		t.Fatalf("Should not fail creating hasher: %s", err)
	}

	engine, err := assess.New(assess.Config{LookupTimeout: time.Second},
		assess.WithBreachChecker(hibp.NewClient(hibp.WithEndpoint(corpus.URL))),
		assess.WithHasher(h),
	)
	if err != nil {
		t.Fatalf("Should not fail creating engine: %s", err)
	}
	return engine
}

func TestCheckInputJSON(t *testing.T) {
	engine := newTestEngine(t)
	jsonOutput, hashed = true, false
	t.Cleanup(func() { jsonOutput, hashed = false, false })

	var out bytes.Buffer
	if err := checkInput(context.Background(), engine, "password", &out); err != nil {
		t.Fatalf("Should not fail checking password: %s", err)
	}

	var report struct {
		Strength struct {
			Label string `json:"label"`
		} `json:"strength"`
		Breach hibp.Result `json:"breach"`
		Crack  *struct {
			Bits float64 `json:"bits"`
		} `json:"crack"`
	}
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("Should not fail decoding report: %s", err)
	}

	if !report.Breach.Found || report.Breach.Count != 3861493 {
		t.Errorf("Expected the password to be found 3861493 times, got %+v", report.Breach)
	}
	if report.Crack == nil || report.Crack.Bits <= 0 {
		t.Errorf("Expected a crack section with positive bits")
	}
}

func TestCheckInputHashed(t *testing.T) {
	engine := newTestEngine(t)
	jsonOutput, hashed = true, true
	t.Cleanup(func() { jsonOutput, hashed = false, false })

	var out bytes.Buffer
	if err := checkInput(context.Background(), engine, "5baa6"+strings.ToLower(passwordSuffix), &out); err != nil {
		t.Fatalf("Should not fail checking hash: %s", err)
	}
	if !strings.Contains(out.String(), `"found": true`) {
		t.Errorf("Expected a found breach result, got %s", out.String())
	}

	if err := checkInput(context.Background(), engine, "not-a-hash", &out); err == nil {
		t.Errorf("Should fail checking an invalid hash")
	}
}

func TestRunBatch(t *testing.T) {
	engine := newTestEngine(t)
	in := strings.NewReader("password\n\nCorrect-Horse-Battery-9\nqwerty\n")

	s, err := runBatch(context.Background(), engine, in, 2)
	if err != nil {
		t.Fatalf("Should not fail running batch: %s", err)
	}

	if s.Total != 4 {
		t.Errorf("Expected 4 results, got %d", s.Total)
	}
	if s.Pwned != 1 {
		t.Errorf("Expected 1 pwned password, got %d", s.Pwned)
	}
	if s.Errored != 0 {
		t.Errorf("Expected no failed lookups, got %d", s.Errored)
	}
	if s.ByLabel["Empty"] != 1 {
		t.Errorf("Expected 1 empty line, got %d", s.ByLabel["Empty"])
	}
	if s.MedianBits <= 0 || s.P90Bits < s.MedianBits {
		t.Errorf("Unexpected percentiles: median %f, p90 %f", s.MedianBits, s.P90Bits)
	}
}

func TestSummarize(t *testing.T) {
	s := summarize([]lineResult{
		{line: 1, label: "Weak", bits: 40, found: true},
		{line: 2, label: "Strong", bits: 80},
		{line: 3, label: "Strong", bits: 60, errored: true},
		{line: 4, label: "Empty"},
		{line: 5, label: "Very strong", bits: 120},
	})

	if s.Total != 5 || s.Pwned != 1 || s.Errored != 1 {
		t.Errorf("Unexpected counts: %+v", s)
	}
	if s.ByLabel["Strong"] != 2 {
		t.Errorf("Expected 2 strong passwords, got %d", s.ByLabel["Strong"])
	}
	// empty lines are left out of the percentiles: 40, 60, 80, 120
	if s.MedianBits != 60 {
		t.Errorf("Expected median 60, got %f", s.MedianBits)
	}
	if s.P90Bits != 120 {
		t.Errorf("Expected 90th percentile 120, got %f", s.P90Bits)
	}
}
