// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"bytes"
	"encoding/json"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"net/http/httptest"
	"pwd-assessor/internal/assess"
	"pwd-assessor/pkg/hasher"
	"pwd-assessor/pkg/hibp"
	"strings"
	"testing"
	"time"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	corpus := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("1E4C9B93F3F0682250B6CF8331B7EE68FD8:12345\r\n"))
	}))
	t.Cleanup(corpus.Close)

	reg := prometheus.NewRegistry()
	metrics, err := assess.NewMetrics(reg)
	if err != nil {
		t.Fatalf("Should not fail creating metrics: %s", err)
	}
	h, _ := hasher.New(hasher.WithIterations(1000))

	engine, err := assess.New(assess.Config{LookupTimeout: time.Second},
		assess.WithBreachChecker(hibp.NewClient(hibp.WithEndpoint(corpus.URL))),
		assess.WithHasher(h),
		assess.WithMetrics(metrics),
	)
	if err != nil {
		t.Fatalf("Should not fail creating engine: %s", err)
	}

	return NewRouter(engine, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}

func post(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCheckPassword(t *testing.T) {
	router := newTestRouter(t)

	w := post(router, "/v1/check/password", `{"password":"password"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Status: %d, want: 200. %s", w.Code, w.Body)
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Errorf("Response should carry a request id")
	}

	var report assess.Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("Should not fail decoding the report: %s", err)
	}
	if report.Breach != (hibp.Result{Found: true, Count: 12345}) {
		t.Errorf("Breach should be found, have %+v", report.Breach)
	}
	if report.Crack == nil || report.Hashing == nil || report.InsecureHashes == nil {
		t.Errorf("Report should have every section: %s", w.Body)
	}
	if report.InsecureHashes.SHA1 != "5baa61e4c9b93f3f0682250b6cf8331b7ee68fd8" {
		t.Errorf("Unexpected sha1 %s", report.InsecureHashes.SHA1)
	}
}

func TestCheckPassword_Empty(t *testing.T) {
	router := newTestRouter(t)

	w := post(router, "/v1/check/password", `{}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Status: %d, want: 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"label":"Empty"`) || !strings.Contains(body, `"crack":null`) {
		t.Errorf("Empty password should get the empty report, have %s", body)
	}
}

func TestCheckPassword_BadRequest(t *testing.T) {
	router := newTestRouter(t)

	if w := post(router, "/v1/check/password", `{"password":`); w.Code != http.StatusBadRequest {
		t.Errorf("Status: %d, want: 400", w.Code)
	}
}

func TestCheckHash(t *testing.T) {
	router := newTestRouter(t)

	w := post(router, "/v1/check/hash", `{"hash":"5baa61e4c9b93f3f0682250b6cf8331b7ee68fd8"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Status: %d, want: 200. %s", w.Code, w.Body)
	}
	if !strings.Contains(w.Body.String(), `"count":12345`) {
		t.Errorf("Hash should be found, have %s", w.Body)
	}

	if w = post(router, "/v1/check/hash", `{"hash":"zzz"}`); w.Code != http.StatusBadRequest {
		t.Errorf("Status: %d, want: 400", w.Code)
	}
	if w = post(router, "/v1/check/hash", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("Status: %d, want: 400", w.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t)
	post(router, "/v1/check/password", `{"password":"password"}`)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("Health should be ok, have %d %s", w.Code, w.Body)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(w.Body.String(), "pwd_assessor_breach_lookups_total") {
		t.Errorf("Metrics should expose the lookup counter")
	}
}
