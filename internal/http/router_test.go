package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRouter_RequestIDAndAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := NewRouter(zap.New(core))
	r.Handle("/ping", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusTeapot, Ok("pong"))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-Id"))

	entries := logs.FilterMessage("http request").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-123", fields["request_id"])
		assert.Equal(t, int64(http.StatusTeapot), fields["status"])
		assert.Equal(t, "/ping", fields["path"])
	}
}

func TestRouter_GeneratesRequestID(t *testing.T) {
	r := NewRouter(nil)
	r.Handle("/ping", func(w http.ResponseWriter, _ *http.Request) {})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Len(t, w.Header().Get("X-Request-Id"), 36)
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12", 12, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"1/2", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseID(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
