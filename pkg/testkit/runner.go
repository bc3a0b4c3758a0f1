package testkit

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	cataloghttp "github.com/shashiranjanraj/catalog/pkg/http"
)

// ─── Public API ───────────────────────────────────────────────────────────────

// Run executes a single scenario from a JSON file against the provided handler.
//
// Lifecycle per scenario:
//  1. Load the scenario JSON file.
//  2. Read request body from requestFileName (if set).
//  3. Install the HTTP mock transport on the shared outgoing client.
//  4. Fire the request against handler using httptest (repeat times).
//  5. Assert status code, headers and fields.
//  6. Assert response body (JSON diff) against responseFileName (if set).
//  7. Verify all isMock=true steps were called.
func Run(t *testing.T, handler http.Handler, scenarioPath string) {
	t.Helper()

	s, err := LoadScenario(scenarioPath)
	if err != nil {
		t.Fatalf("testkit: load scenario %q: %v", scenarioPath, err)
	}

	t.Run(s.Name, func(t *testing.T) {
		RunScenario(t, handler, s)
	})
}

// RunDir runs every scenario in dir as a t.Run subtest, in file name order.
// Scenario files that fail to parse are reported as test failures.
func RunDir(t *testing.T, handler http.Handler, dir string) {
	t.Helper()

	scenarios, errs := LoadAllFromDir(dir)
	for _, err := range errs {
		t.Errorf("%v", err)
	}
	if len(scenarios) == 0 {
		t.FailNow()
	}

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			RunScenario(t, handler, s)
		})
	}
}

// RunScenario fires an already loaded scenario and asserts on the result.
// It returns the last recorded response.
func RunScenario(t *testing.T, handler http.Handler, s *Scenario) *httptest.ResponseRecorder {
	t.Helper()

	var body []byte
	if p := s.RequestBodyPath(); p != "" {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("[%s] read request file %q: %v", s.Name, p, err)
		}
		body = data
	}

	mt := NewMockTransport(s)
	original := cataloghttp.DefaultClient.Transport
	cataloghttp.DefaultClient.Transport = mt
	defer func() { cataloghttp.DefaultClient.Transport = original }()

	method := strings.ToUpper(s.RequestMethod)
	if method == "" {
		method = http.MethodGet
	}

	times := s.Repeat
	if times < 1 {
		times = 1
	}

	var rec *httptest.ResponseRecorder
	for i := 0; i < times; i++ {
		var reqBody io.Reader
		if body != nil {
			reqBody = bytes.NewReader(body)
		}
		req := httptest.NewRequest(method, s.RequestURL, reqBody)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		for k, v := range s.Headers {
			req.Header.Set(k, v)
		}

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
	}

	AssertStatusCode(t, s, rec.Code)
	AssertHeaders(t, s, rec.Header())
	AssertFields(t, s, rec.Body.Bytes())

	if p := s.ResponseBodyPath(); p != "" {
		expected, err := os.ReadFile(p)
		if err != nil {
			t.Errorf("[%s] read response file %q: %v", s.Name, p, err)
		} else {
			AssertJSONBody(t, s, expected, rec.Body.Bytes())
		}
	}

	AssertMocksAllCalled(t, s, mt)
	return rec
}
