// Package testkit provides a JSON-scenario-driven REST API testing framework.
//
// Each scenario is a JSON file that describes:
//   - The HTTP request to fire (method, URL, body file, headers)
//   - Expected HTTP status code, headers and body fields
//   - Expected response body file (optional, for JSON diff assertion)
//   - Mock steps for outgoing HTTP calls made through pkg/http
//
// Scenario files live next to your *_test.go files:
//
//	testdata/
//	  show_product.json        ← scenario
//	  show_product_res.json    ← expected response body
//
// Example _test.go:
//
//	func TestAPI(t *testing.T) {
//	    handler := kernel.Handler(opts)
//	    testkit.RunDir(t, handler, "testdata")
//	}
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ─── Schema ───────────────────────────────────────────────────────────────────

// Scenario describes a single REST API test case loaded from a JSON file.
type Scenario struct {
	// Meta
	Name        string `json:"name"`
	Description string `json:"description"`

	// Request
	RequestMethod   string            `json:"requestMethod"`   // GET, POST, …
	RequestURL      string            `json:"requestUrl"`      // e.g. /api/products
	RequestFileName string            `json:"requestFileName"` // path to request body file (relative to scenario dir)
	Headers         map[string]string `json:"headers"`         // extra request headers

	// Repeat fires the request this many times and asserts on the last
	// response. Zero means once.
	Repeat int `json:"repeat"`

	// Response assertions
	ResponseFileName   string            `json:"responseFileName"`   // path to expected response JSON file
	ExpectedCode       int               `json:"expectedCode"`       // expected HTTP status code
	ExpectedStatusCode int               `json:"expectedStatusCode"` // alias for expectedCode
	ExpectedHeaders    map[string]string `json:"expectedHeaders"`
	// ExpectedFields maps dotted paths ("data.0.code", "message") to their
	// expected JSON values. A path mapped to "<present>" only has to exist.
	ExpectedFields map[string]any `json:"expectedFields"`
	// ExpectedLength maps dotted paths of arrays to their length.
	ExpectedLength map[string]int `json:"expectedLength"`

	// Behaviour flags
	IsMockRequired bool `json:"isMockRequired"` // fail if an outgoing call has no matching mock

	// Mock steps, matched in definition order.
	NetUtilMockStep []MockStep `json:"netUtilMockStep"`

	// resolved at load time, not in JSON
	dir string
}

// MockStep describes one intercepted outgoing HTTP call.
type MockStep struct {
	// Method identifies what is being mocked. Only "httprequest" is handled.
	Method string `json:"method"`

	// IsMock: when true the step is intercepted and returnData is returned.
	IsMock bool `json:"isMock"`

	// MatchURL is matched as a prefix of the outgoing request URL.
	// Leave empty to match ANY outgoing HTTP request.
	MatchURL string `json:"matchUrl"`

	// ReturnData is the synthetic response returned by the mock.
	ReturnData MockReturnData `json:"returnData"`
}

// MockReturnData is the synthetic response for a mock step.
type MockReturnData struct {
	// StatusCode defaults to 200.
	StatusCode int `json:"statusCode"`

	// Body is the base64-encoded response body.
	Body string `json:"body"`

	// JSON is an inline response body, used when Body is empty.
	JSON json.RawMessage `json:"json"`

	// Error makes the transport fail with this message instead of answering.
	Error string `json:"error"`
}

// ─── Loading ──────────────────────────────────────────────────────────────────

// LoadScenario reads and validates a scenario from a JSON file.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}

	s.dir = filepath.Dir(abs)
	return &s, nil
}

// validate performs basic sanity checks on the loaded scenario.
func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		s.ExpectedCode = s.ExpectedStatusCode
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = "GET"
	}
	for i, step := range s.NetUtilMockStep {
		if step.Method == "" {
			return fmt.Errorf("netUtilMockStep[%d].method is required", i)
		}
	}
	return nil
}

// RequestBodyPath returns the absolute path to the request body file,
// resolved relative to the scenario file's directory.
// Returns "" when RequestFileName is not set.
func (s *Scenario) RequestBodyPath() string {
	return s.resolve(s.RequestFileName)
}

// ResponseBodyPath returns the absolute path to the expected response file.
// Returns "" when ResponseFileName is not set.
func (s *Scenario) ResponseBodyPath() string {
	return s.resolve(s.ResponseFileName)
}

func (s *Scenario) resolve(name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// LoadAllFromDir loads every *.json scenario in dir. Files whose name ends
// in _req.json or _res.json are bodies, not scenarios, and are skipped.
// Files that fail to parse are collected as errors.
func LoadAllFromDir(dir string) ([]*Scenario, []error) {
	paths, err := scenarioFiles(dir)
	if err != nil {
		return nil, []error{err}
	}

	var (
		scenarios []*Scenario
		errs      []error
	)
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, errs
}

func scenarioFiles(dir string) ([]string, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("testkit: glob %q: %w", dir, err)
	}

	var out []string
	for _, p := range entries {
		base := filepath.Base(p)
		if matched, _ := filepath.Match("*_re[qs].json", base); matched {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("testkit: no scenario files found in %q", dir)
	}
	return out, nil
}
