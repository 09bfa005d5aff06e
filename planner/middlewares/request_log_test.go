package middlewares

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"planner/planner/utils/logging"
)

func TestRequestLogWritesRequestLog(t *testing.T) {
	dir := t.TempDir()
	logging.InitLogger(dir)

	handler := RequestLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat/", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("expected middleware to pass status through, got %d", rec.Code)
	}
	data, err := os.ReadFile(filepath.Join(dir, "request.log"))
	if err != nil {
		t.Fatalf("expected request.log written: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected a request line in request.log")
	}
}
