package middleware

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
)

var requestIDFormat = regexp.MustCompile(`^[0-9a-f]{16}$`)

// TestRequestIDFormat verifies the middleware emits a 16-character lowercase
// hex X-Request-Id (8 random bytes).
func TestRequestIDFormat(t *testing.T) {
	handler := RequestID()(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodGet, "/api/convert", nil))

	id := rr.Header().Get("X-Request-Id")
	if !requestIDFormat.MatchString(id) {
		t.Fatalf("X-Request-Id = %q, want 16 lowercase hex chars", id)
	}
}

// TestRequestIDVisibleToHandler verifies the ID is on the response headers
// before the wrapped handler runs, so handlers can log it alongside
// conversion failures.
func TestRequestIDVisibleToHandler(t *testing.T) {
	var seenByHandler string
	handler := RequestID()(func(w http.ResponseWriter, r *http.Request) {
		seenByHandler = w.Header().Get("X-Request-Id")
	})

	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if seenByHandler == "" {
		t.Fatal("handler ran before the request ID was set")
	}
	if got := rr.Header().Get("X-Request-Id"); got != seenByHandler {
		t.Fatalf("response ID %q differs from the one the handler saw %q", got, seenByHandler)
	}
}

// TestRequestIDUniqueness verifies consecutive requests never share an ID.
func TestRequestIDUniqueness(t *testing.T) {
	handler := RequestID()(func(w http.ResponseWriter, r *http.Request) {})

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		rr := httptest.NewRecorder()
		handler(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rr.Header().Get("X-Request-Id")
		if seen[id] {
			t.Fatalf("duplicate request ID on iteration %d: %q", i, id)
		}
		seen[id] = true
	}
}
