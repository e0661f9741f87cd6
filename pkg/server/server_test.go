package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerServesSSR(t *testing.T) {
	s := New(DefaultConfig(), counterDef())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<button") {
		t.Errorf("body missing rendered component:\n%s", rec.Body.String())
	}
}

func TestMiddlewareBeforeHandlerRoutes(t *testing.T) {
	s := New(DefaultConfig(), counterDef())

	// Middleware added through the router must precede the server's own
	// routes; chi panics if Use arrives after the first route.
	s.Router().Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Test", "1")
			next.ServeHTTP(w, r)
		})
	})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-Test") != "1" {
		t.Error("middleware did not run")
	}
}
