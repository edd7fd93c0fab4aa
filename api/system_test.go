package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthHandler(t *testing.T) {
	h := &SystemHandler{}
	w := httptest.NewRecorder()
	h.HealthHandler(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "ok" || body["service"] != "genie-hi" {
		t.Errorf("body = %v", body)
	}
}

func TestVersionHandler(t *testing.T) {
	h := &SystemHandler{}
	w := httptest.NewRecorder()
	h.VersionHandler("1.2.3", "2026-01-01T00:00:00Z")(w, httptest.NewRequest(http.MethodGet, "/version", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["version"] != "1.2.3" || body["buildTime"] != "2026-01-01T00:00:00Z" {
		t.Errorf("body = %v", body)
	}
}
