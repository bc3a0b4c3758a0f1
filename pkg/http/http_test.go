package http

import (
	"context"
	"errors"
	gohttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*gohttp.Request) (*gohttp.Response, error)

func (f roundTripFunc) RoundTrip(r *gohttp.Request) (*gohttp.Response, error) { return f(r) }

func TestGet_DecodesJSON(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "yes", r.Header.Get("X-Test"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":200,"message":"ok"}`))
	}))
	defer srv.Close()

	resp, err := Get(srv.URL).Header("X-Test", "yes").Send()
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, "application/json", resp.Header("Content-Type"))

	var body struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, resp.JSON(&body))
	assert.Equal(t, 200, body.Status)
}

func TestGet_NonSuccessIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, _ *gohttp.Request) {
		w.WriteHeader(gohttp.StatusNotFound)
	}))
	defer srv.Close()

	resp, err := Get(srv.URL).Retry(3, time.Millisecond).Send()
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, gohttp.StatusNotFound, resp.StatusCode)
}

func TestSend_RetriesTransportErrors(t *testing.T) {
	var calls atomic.Int32
	DefaultClient.Transport = roundTripFunc(func(r *gohttp.Request) (*gohttp.Response, error) {
		calls.Add(1)
		return nil, errors.New("connection refused")
	})
	defer ResetTransport()

	_, err := Get("http://catalog.invalid/api/products").Retry(3, time.Millisecond).Send()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, int32(3), calls.Load())
}

func TestSend_StopsWhenContextCancelled(t *testing.T) {
	var calls atomic.Int32
	DefaultClient.Transport = roundTripFunc(func(r *gohttp.Request) (*gohttp.Response, error) {
		calls.Add(1)
		return nil, errors.New("connection refused")
	})
	defer ResetTransport()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Get("http://catalog.invalid/").WithContext(ctx).Retry(5, time.Hour).Send()

	require.Error(t, err)
	assert.LessOrEqual(t, calls.Load(), int32(1))
}
