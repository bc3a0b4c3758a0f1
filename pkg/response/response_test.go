package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/pkg/clock"
)

var fixed = time.Date(2024, 5, 1, 12, 30, 15, 123456789, time.FixedZone("CEST", 2*3600))

func TestTimestamp_UTCMillis(t *testing.T) {
	assert.Equal(t, "2024-05-01T10:30:15.123Z", Timestamp(fixed))

	parsed, err := time.Parse(time.RFC3339Nano, Timestamp(fixed))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(fixed.Truncate(time.Millisecond)))
}

func TestSuccess(t *testing.T) {
	defer SetClock(clock.NewMock(fixed))()

	rec := httptest.NewRecorder()
	Success(rec, "Products retrieved successfully", []string{"a", "b"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body Envelope[[]string]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 200, body.Status)
	assert.Equal(t, "Products retrieved successfully", body.Message)
	assert.Equal(t, []string{"a", "b"}, body.Data)
	assert.Equal(t, "2024-05-01T10:30:15.123Z", body.Timestamp)
}

func TestError_DataIsNull(t *testing.T) {
	defer SetClock(clock.NewMock(fixed))()

	rec := httptest.NewRecorder()
	Error(rec, http.StatusNotFound, "Route not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Contains(t, raw, "data")
	assert.Nil(t, raw["data"])
	assert.Equal(t, float64(404), raw["status"])
	assert.Equal(t, "Route not found", raw["message"])
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestTrackedWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	tw := Track(rec)
	assert.Same(t, tw, Track(tw))
	assert.False(t, tw.Started())

	_, err := tw.Write([]byte("hi"))
	require.NoError(t, err)
	assert.True(t, tw.Started())
	assert.Equal(t, http.StatusOK, tw.Status())

	tw.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusOK, rec.Code)
}
