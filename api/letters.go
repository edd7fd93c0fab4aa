package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/gabya-ai/Smart-Intro/internal/letters"
	"github.com/gabya-ai/Smart-Intro/pkg/models"
	"github.com/gabya-ai/Smart-Intro/pkg/repository"
)

type LettersHandler struct {
	manager     *letters.Manager
	sessionRepo repository.SessionRepo
	finalRepo   repository.FinalRepo
}

func NewLettersHandler(m *letters.Manager, sr repository.SessionRepo, fr repository.FinalRepo) *LettersHandler {
	return &LettersHandler{manager: m, sessionRepo: sr, finalRepo: fr}
}

type startSessionRequest struct {
	ResumeText string `json:"resume_text"`
	JDText     string `json:"jd_text"`
	LengthPref string `json:"length_pref,omitempty"`
	FormatPref string `json:"format_pref,omitempty"`
	Highlights string `json:"highlights,omitempty"`
}

type startSessionResponse struct {
	SessionID string `json:"session_id"`
}

func (h *LettersHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	ident, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	params := models.GenerationParams{
		LengthPref: req.LengthPref,
		FormatPref: req.FormatPref,
		Highlights: req.Highlights,
	}
	sid, err := h.manager.StartSession(r.Context(), ident.UserID, req.ResumeText, req.JDText, params)
	if err != nil {
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, startSessionResponse{SessionID: sid}, http.StatusCreated)
}

func (h *LettersHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	ident, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sid := mux.Vars(r)["session_id"]
	sess, err := h.sessionRepo.GetSession(r.Context(), sid)
	if err != nil {
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}
	if sess == nil || sess.UserID != ident.UserID {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	resp := map[string]any{"session": sess}
	if final, err := h.finalRepo.GetFinal(r.Context(), sid); err == nil && final != nil {
		resp["final"] = final
	}

	writeJSON(w, resp, http.StatusOK)
}

type generateRequest struct {
	Highlights   string `json:"highlights,omitempty"`
	LengthPref   string `json:"length_pref,omitempty"`
	FormatChoice string `json:"format_choice,omitempty"`
}

type generateResponse struct {
	Draft string `json:"draft"`
}

func (h *LettersHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ident, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sid := mux.Vars(r)["session_id"]

	var req generateRequest
	if r.Body != nil {
		// an empty body means defaults
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	in := letters.PromptInput{
		Highlights:  req.Highlights,
		LengthStyle: req.LengthPref,
		FormatStyle: req.FormatChoice,
	}
	draft, err := h.manager.RecordGeneration(r.Context(), ident.UserID, ident.Email, sid, in)
	if err != nil {
		switch {
		case errors.Is(err, letters.ErrSessionNotFound):
			http.Error(w, "not found", http.StatusNotFound)
		case errors.Is(err, letters.ErrUnknownStyle):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			// generation failure blocks forward progress: no draft to show
			http.Error(w, "generation failed", http.StatusBadGateway)
		}
		return
	}

	writeJSON(w, generateResponse{Draft: draft}, http.StatusOK)
}

type editRequest struct {
	Text string `json:"text"`
}

type editResponse struct {
	Version int `json:"version"`
}

func (h *LettersHandler) Edit(w http.ResponseWriter, r *http.Request) {
	ident, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sid := mux.Vars(r)["session_id"]

	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	version, changed, err := h.manager.RecordEdit(r.Context(), ident.UserID, ident.Email, sid, req.Text)
	if err != nil {
		if errors.Is(err, letters.ErrSessionNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to record edit", http.StatusInternalServerError)
		return
	}

	if !changed {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, editResponse{Version: version}, http.StatusOK)
}

type feedbackRequest struct {
	Thumb  int    `json:"thumb"`
	Reason string `json:"reason,omitempty"`
	Text   string `json:"text,omitempty"`
}

func (h *LettersHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	ident, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sid := mux.Vars(r)["session_id"]

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	err := h.manager.SubmitFeedback(r.Context(), ident.UserID, ident.Email, sid, req.Thumb, strings.TrimSpace(req.Reason), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, letters.ErrSessionNotFound):
			http.Error(w, "not found", http.StatusNotFound)
		case errors.Is(err, letters.ErrInvalidThumb):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, letters.ErrNothingToSave):
			// informational, not an error
			writeJSON(w, map[string]any{"saved": false, "message": "generate a draft first"}, http.StatusOK)
		default:
			http.Error(w, "failed to save feedback", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, map[string]any{"saved": true}, http.StatusOK)
}
