package testkit

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Present as an ExpectedFields value only asserts that the path exists.
const Present = "<present>"

// AssertStatusCode checks the response code with testify.
func AssertStatusCode(t *testing.T, scenario *Scenario, got int) {
	t.Helper()
	assert.Equal(t, scenario.ExpectedCode, got,
		"[%s] HTTP status code mismatch", scenario.Name)
}

// AssertJSONBody deep-compares actual response bytes against the expected file
// contents after normalising both through JSON unmarshal, so key order and
// whitespace never matter.
func AssertJSONBody(t *testing.T, scenario *Scenario, expected, actual []byte) {
	t.Helper()
	if len(expected) == 0 {
		return
	}

	var expVal, actVal any

	require.NoError(t,
		json.Unmarshal(expected, &expVal),
		"[%s] expected response file is not valid JSON", scenario.Name,
	)

	if !assert.NoError(t,
		json.Unmarshal(actual, &actVal),
		"[%s] actual response is not valid JSON\nbody: %s", scenario.Name, string(actual),
	) {
		return
	}

	assert.Equal(t, expVal, actVal,
		"[%s] response body mismatch", scenario.Name)
}

// AssertHeaders checks every expected response header.
func AssertHeaders(t *testing.T, scenario *Scenario, got map[string][]string) {
	t.Helper()
	for k, want := range scenario.ExpectedHeaders {
		var value string
		for name, vs := range got {
			if strings.EqualFold(name, k) && len(vs) > 0 {
				value = vs[0]
			}
		}
		assert.Equal(t, want, value, "[%s] header %s", scenario.Name, k)
	}
}

// AssertFields checks ExpectedFields and ExpectedLength against the decoded
// body.
func AssertFields(t *testing.T, scenario *Scenario, body []byte) {
	t.Helper()
	if len(scenario.ExpectedFields) == 0 && len(scenario.ExpectedLength) == 0 {
		return
	}

	var doc any
	if !assert.NoError(t, json.Unmarshal(body, &doc),
		"[%s] response is not valid JSON\nbody: %s", scenario.Name, string(body)) {
		return
	}

	for path, want := range scenario.ExpectedFields {
		got, ok := Lookup(doc, path)
		if !assert.True(t, ok, "[%s] %s missing in response", scenario.Name, path) {
			continue
		}
		if want == Present {
			continue
		}
		assert.Equal(t, want, got, "[%s] %s", scenario.Name, path)
	}

	for path, n := range scenario.ExpectedLength {
		got, ok := Lookup(doc, path)
		arr, isArr := got.([]any)
		if assert.True(t, ok && isArr, "[%s] %s is not an array", scenario.Name, path) {
			assert.Len(t, arr, n, "[%s] %s", scenario.Name, path)
		}
	}
}

// Lookup walks a decoded JSON document along a dotted path. Numeric segments
// index arrays. An empty path returns doc itself.
func Lookup(doc any, path string) (any, bool) {
	if path == "" {
		return doc, true
	}
	cur := doc
	for _, seg := range strings.Split(path, ".") {
		switch v := cur.(type) {
		case map[string]any:
			next, ok := v[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(v) {
				return nil, false
			}
			cur = v[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// AssertMocksAllCalled fails the test if any isMock=true step was never triggered.
func AssertMocksAllCalled(t *testing.T, scenario *Scenario, mt *MockTransport) {
	t.Helper()
	for _, err := range mt.AssertAllCalled() {
		assert.NoError(t, err, "[%s]", scenario.Name)
	}
}
