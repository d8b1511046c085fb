package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
)

func TestRateLimiterAllowsBurstThenThrottles(t *testing.T) {
	rl := NewRateLimiter()
	handler := rl.Limit(func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	codes := make(map[int]int)
	for i := 0; i < 25; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		w := httptest.NewRecorder()
		handler(w, req, nil)
		codes[w.Code]++
	}

	if codes[http.StatusOK] < 20 {
		t.Errorf("allowed %d requests, want at least the burst of 20", codes[http.StatusOK])
	}
	if codes[http.StatusTooManyRequests] == 0 {
		t.Error("no request was throttled")
	}
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	rl := NewRateLimiter()
	handler := rl.Limit(func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	// Exhaust one client's burst.
	for i := 0; i < 25; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		handler(httptest.NewRecorder(), req, nil)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.2:1234"
	w := httptest.NewRecorder()
	handler(w, req, nil)
	if w.Code != http.StatusOK {
		t.Errorf("fresh client got %d, want 200", w.Code)
	}
}
