package upstream

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"swapbridge/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type echo struct {
	Method string         `json:"method"`
	Body   map[string]any `json:"body"`
}

func TestClient_PostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		_ = json.NewEncoder(w).Encode(echo{Method: r.Method, Body: body})
	}))
	defer srv.Close()

	c := NewClient("test", time.Second, nil, zap.NewNop())
	var out echo
	require.NoError(t, c.PostJSON(context.Background(), srv.URL, map[string]any{"size": 5}, &out))

	assert.Equal(t, http.MethodPost, out.Method)
	assert.Equal(t, float64(5), out.Body["size"])
}

func TestClient_GetJSON_Gzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte(`{"method":"GET"}`))
		_ = gz.Close()
	}))
	defer srv.Close()

	c := NewClient("test", time.Second, nil, zap.NewNop())
	var out echo
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, &out))
	assert.Equal(t, "GET", out.Method)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"not found", http.StatusNotFound, `{}`, apperrors.ErrNotFound},
		{"server error", http.StatusInternalServerError, `oops`, apperrors.ErrExternalServiceFailure},
		{"too many requests", http.StatusTooManyRequests, ``, apperrors.ErrExternalServiceFailure},
		{"invalid json", http.StatusOK, `{not json`, apperrors.ErrExternalServiceFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient("test", time.Second, nil, zap.NewNop())
			var out echo
			err := c.GetJSON(context.Background(), srv.URL, &out)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient("test", time.Second, nil, zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.GetJSON(ctx, srv.URL, nil)
	assert.True(t, errors.Is(err, apperrors.ErrTimeout), "got %v", err)
}

func TestClient_TransportError(t *testing.T) {
	c := NewClient("test", time.Second, nil, zap.NewNop())
	err := c.GetJSON(context.Background(), "http://127.0.0.1:1/unreachable", nil)
	assert.True(t, errors.Is(err, apperrors.ErrExternalServiceFailure), "got %v", err)
}
