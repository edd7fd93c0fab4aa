package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func startSessionRoundTrip(t *testing.T, a *testAPI, token string) string {
	t.Helper()
	body := `{"resume_text":"my resume","jd_text":"the jd"}`
	req := authed(httptest.NewRequest(http.MethodPost, "/v1/sessions", strings.NewReader(body)), token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("start session status = %d body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID == "" {
		t.Fatal("empty session id")
	}
	return resp.SessionID
}

func TestStartSession(t *testing.T) {
	a := newTestAPI(t)
	token := a.token(t, "u1", "u1@x.com")

	sid := startSessionRoundTrip(t, a, token)

	sess, _ := a.mocks.Sessions.GetSession(t.Context(), sid)
	if sess == nil || sess.UserID != "u1" || sess.ResumeText != "my resume" {
		t.Errorf("stored session = %+v", sess)
	}
}

func TestStartSessionUnauthorized(t *testing.T) {
	a := newTestAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	// An auth failure clears the persisted cookie.
	if raw := w.Header().Get("Set-Cookie"); !strings.Contains(raw, "Max-Age=0") {
		t.Errorf("Set-Cookie = %q, want cleared cookie", raw)
	}
}

func TestStartSessionBadBody(t *testing.T) {
	a := newTestAPI(t)
	token := a.token(t, "u1", "u1@x.com")
	req := authed(httptest.NewRequest(http.MethodPost, "/v1/sessions", strings.NewReader("{not json")), token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGetSession(t *testing.T) {
	a := newTestAPI(t)
	token := a.token(t, "u1", "u1@x.com")
	sid := startSessionRoundTrip(t, a, token)

	req := authed(httptest.NewRequest(http.MethodGet, "/v1/sessions/"+sid, nil), token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	var resp map[string]json.RawMessage
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if _, ok := resp["session"]; !ok {
		t.Error("response has no session field")
	}
	if _, ok := resp["final"]; ok {
		t.Error("final present before any edit")
	}
}

func TestGetSessionOwnership(t *testing.T) {
	a := newTestAPI(t)
	owner := a.token(t, "u1", "u1@x.com")
	other := a.token(t, "u2", "u2@x.com")
	sid := startSessionRoundTrip(t, a, owner)

	// Another user's session looks like a missing one.
	req := authed(httptest.NewRequest(http.MethodGet, "/v1/sessions/"+sid, nil), other)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	a := newTestAPI(t)
	token := a.token(t, "u1", "u1@x.com")
	req := authed(httptest.NewRequest(http.MethodGet, "/v1/sessions/does-not-exist", nil), token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGenerate(t *testing.T) {
	a := newTestAPI(t)
	token := a.token(t, "u1", "u1@x.com")
	sid := startSessionRoundTrip(t, a, token)

	req := authed(httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/sessions/%s/generate", sid),
		strings.NewReader(`{"highlights":"go"}`)), token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Draft string `json:"draft"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Draft != a.gen.out {
		t.Errorf("draft = %q", resp.Draft)
	}
}

func TestGenerateUnknownSession(t *testing.T) {
	a := newTestAPI(t)
	token := a.token(t, "u1", "u1@x.com")
	req := authed(httptest.NewRequest(http.MethodPost, "/v1/sessions/nope/generate", strings.NewReader(`{}`)), token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGenerateUnknownStyle(t *testing.T) {
	a := newTestAPI(t)
	token := a.token(t, "u1", "u1@x.com")
	sid := startSessionRoundTrip(t, a, token)

	req := authed(httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/sessions/%s/generate", sid),
		strings.NewReader(`{"length_pref":"haiku"}`)), token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGenerateUpstreamFailure(t *testing.T) {
	a := newTestAPI(t)
	token := a.token(t, "u1", "u1@x.com")
	sid := startSessionRoundTrip(t, a, token)
	a.gen.err = errors.New("model offline")

	req := authed(httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/sessions/%s/generate", sid),
		strings.NewReader(`{}`)), token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
}

func TestEditFlow(t *testing.T) {
	a := newTestAPI(t)
	token := a.token(t, "u1", "u1@x.com")
	sid := startSessionRoundTrip(t, a, token)

	generate := func() {
		req := authed(httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/sessions/%s/generate", sid),
			strings.NewReader(`{}`)), token)
		w := httptest.NewRecorder()
		a.router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("generate status = %d", w.Code)
		}
	}
	edit := func(text string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]string{"text": text})
		req := authed(httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/sessions/%s/edits", sid),
			bytes.NewReader(body)), token)
		w := httptest.NewRecorder()
		a.router.ServeHTTP(w, req)
		return w
	}

	generate()

	w := edit("a changed letter")
	if w.Code != http.StatusOK {
		t.Fatalf("edit status = %d body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Version int `json:"version"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Version != 1 {
		t.Errorf("version = %d, want 1", resp.Version)
	}

	// Same text again is a no-op.
	if w := edit("a changed letter"); w.Code != http.StatusNoContent {
		t.Errorf("unchanged edit status = %d, want 204", w.Code)
	}

	if w := edit("changed again"); w.Code != http.StatusOK {
		t.Errorf("second edit status = %d", w.Code)
	}

	// The final is now visible on the session resource.
	req := authed(httptest.NewRequest(http.MethodGet, "/v1/sessions/"+sid, nil), token)
	getW := httptest.NewRecorder()
	a.router.ServeHTTP(getW, req)
	var sessResp map[string]json.RawMessage
	if err := json.NewDecoder(getW.Body).Decode(&sessResp); err != nil {
		t.Fatal(err)
	}
	if _, ok := sessResp["final"]; !ok {
		t.Error("final missing after edits")
	}
}

func TestFeedback(t *testing.T) {
	a := newTestAPI(t)
	token := a.token(t, "u1", "u1@x.com")
	sid := startSessionRoundTrip(t, a, token)

	post := func(body string) *httptest.ResponseRecorder {
		req := authed(httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/sessions/%s/feedback", sid),
			strings.NewReader(body)), token)
		w := httptest.NewRecorder()
		a.router.ServeHTTP(w, req)
		return w
	}

	// Before any draft: accepted but nothing saved.
	w := post(`{"thumb":1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if saved, _ := resp["saved"].(bool); saved {
		t.Error("saved = true with no draft")
	}
	if len(a.mocks.Feedback.Stored) != 0 {
		t.Errorf("feedback rows = %d, want 0", len(a.mocks.Feedback.Stored))
	}

	// Invalid thumb.
	if w := post(`{"thumb":0}`); w.Code != http.StatusBadRequest {
		t.Errorf("thumb=0 status = %d, want 400", w.Code)
	}

	// Generate, then feedback lands.
	req := authed(httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/sessions/%s/generate", sid),
		strings.NewReader(`{}`)), token)
	genW := httptest.NewRecorder()
	a.router.ServeHTTP(genW, req)
	if genW.Code != http.StatusOK {
		t.Fatalf("generate status = %d", genW.Code)
	}

	w = post(`{"thumb":-1,"reason":"too stiff","text":"my rewrite"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	resp = map[string]any{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if saved, _ := resp["saved"].(bool); !saved {
		t.Error("saved = false after a draft exists")
	}
	if len(a.mocks.Feedback.Stored) != 1 {
		t.Fatalf("feedback rows = %d, want 1", len(a.mocks.Feedback.Stored))
	}
	if fb := a.mocks.Feedback.Stored[0]; fb.Thumb != -1 || fb.Reason != "too stiff" {
		t.Errorf("feedback = %+v", fb)
	}
}
