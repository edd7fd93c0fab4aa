// Package letters owns the session and versioning logic for cover-letter
// drafts: when a new session begins, how successive edits are versioned, when
// an edit is meaningful enough to persist, and how feedback is attached to the
// latest final text.
package letters

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gabya-ai/Smart-Intro/internal/analytics"
	"github.com/gabya-ai/Smart-Intro/internal/config"
	"github.com/gabya-ai/Smart-Intro/pkg/models"
	"github.com/gabya-ai/Smart-Intro/pkg/ollama"
	"github.com/gabya-ai/Smart-Intro/pkg/repository"
)

// package-level logger; can be set via SetLogger from caller
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger installs a logger for the letters package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Generator is the opaque text-generation capability. Implementations make
// exactly one synchronous call per invocation.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// sessionState is the per-session editing state: the last-seen snapshot used
// to detect meaningful changes, the cycle's generated draft text, the edit
// version counter, and the one-shot no_edit flag for the current generation
// cycle.
type sessionState struct {
	snapshot     string
	draft        string
	version      int
	noEditLogged bool
	genID        string
	genNum       int
}

// Manager orchestrates sessions, letter artifacts, final/metric records,
// feedback, and the interaction log.
type Manager struct {
	mu     sync.Mutex
	states map[string]*sessionState

	sessions repository.SessionRepo
	letters  repository.LetterRepo
	finals   repository.FinalRepo
	feedback repository.FeedbackRepo
	rec      *analytics.Recorder
	gen      Generator

	cfg      config.EngineConfig
	template string
}

// NewManager creates a Manager. The prompt template is loaded from the store
// at construction; a missing template is a startup error.
func NewManager(
	ctx context.Context,
	cfg config.EngineConfig,
	gen Generator,
	sessions repository.SessionRepo,
	letterRepo repository.LetterRepo,
	finals repository.FinalRepo,
	feedbackRepo repository.FeedbackRepo,
	templates repository.TemplateRepo,
	rec *analytics.Recorder,
) (*Manager, error) {
	// apply sensible defaults
	if cfg.PromptName == "" {
		cfg.PromptName = "cover_letter"
	}
	if cfg.PromptVersion == "" {
		cfg.PromptVersion = "p1.0"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if sessions == nil || letterRepo == nil || finals == nil || feedbackRepo == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if templates == nil {
		return nil, fmt.Errorf("template repo is required")
	}

	tpl, err := templates.GetTemplate(ctx, cfg.PromptName, cfg.PromptVersion)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	if tpl == nil || tpl.TemplateTxt == "" {
		return nil, fmt.Errorf("template %s:%s not found", cfg.PromptName, cfg.PromptVersion)
	}

	// fail fast on an unparsable template
	if _, err := ollama.RenderTemplate(tpl.TemplateTxt, PromptInput{}); err != nil {
		return nil, fmt.Errorf("invalid template %s:%s: %w", cfg.PromptName, cfg.PromptVersion, err)
	}

	return &Manager{
		states:   make(map[string]*sessionState),
		sessions: sessions,
		letters:  letterRepo,
		finals:   finals,
		feedback: feedbackRepo,
		rec:      rec,
		gen:      gen,
		cfg:      cfg,
		template: tpl.TemplateTxt,
	}, nil
}

// StartSession allocates a session id and persists the immutable session
// record. Store-layer failures here are surfaced: without the session row no
// artifact can reference it.
func (m *Manager) StartSession(ctx context.Context, userID, resumeText, jdText string, params models.GenerationParams) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}
	if params.Model == "" {
		params.Model = m.cfg.Model
	}
	if params.PromptVersion == "" {
		params.PromptVersion = m.cfg.PromptVersion
	}

	s := &models.Session{
		ID:         uuid.NewString(),
		UserID:     userID,
		ResumeText: resumeText,
		JDText:     jdText,
		Params:     params,
		Created:    now(),
	}
	if err := m.sessions.CreateSession(ctx, s); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	m.mu.Lock()
	m.states[s.ID] = &sessionState{}
	m.mu.Unlock()

	return s.ID, nil
}

// RecordGeneration builds the prompt, calls the model, persists the result as
// the draft artifact, and resets the edit cycle: version counter back to 0,
// snapshot set to the draft, no_edit flag rearmed. Only a generation failure
// blocks the flow; the draft store write is diagnostic-only.
func (m *Manager) RecordGeneration(ctx context.Context, userID, email, sessionID string, in PromptInput) (string, error) {
	sess, err := m.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return "", ErrSessionNotFound
	}

	if in.Resume == "" {
		in.Resume = sess.ResumeText
	}
	if in.JD == "" {
		in.JD = sess.JDText
	}
	if err := in.normalize(); err != nil {
		return "", err
	}

	prompt, err := ollama.RenderTemplate(m.template, in)
	if err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}

	ctxReq, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	draft, err := m.gen.Generate(ctxReq, m.cfg.Model, prompt)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	if strings.TrimSpace(draft) == "" {
		return "", ErrEmptyDraft
	}

	m.mu.Lock()
	st, ok := m.states[sessionID]
	if !ok {
		st = &sessionState{}
		m.states[sessionID] = st
	}
	st.snapshot = draft
	st.draft = draft
	st.version = 0
	st.noEditLogged = false
	st.genID = strings.ReplaceAll(uuid.NewString(), "-", "")
	st.genNum++
	genID, genNum := st.genID, st.genNum
	m.mu.Unlock()

	letter := &models.Letter{
		SessionID: sessionID,
		Kind:      models.KindDraft,
		Version:   0,
		Content:   draft,
		Created:   now(),
	}
	if _, err := m.letters.CreateLetter(ctx, letter); err != nil {
		logger.Warn("saving draft failed", slog.String("session_id", sessionID), slog.Any("err", err))
	}

	m.rec.Record(ctx, userID, email, sessionID, models.EventDraftGenerated, map[string]any{
		"gen_id":          genID,
		"gen_num":         genNum,
		"resume":          in.Resume,
		"job_description": in.JD,
		"highlights":      in.Highlights,
		"length_pref":     in.LengthStyle,
		"format_choice":   in.FormatStyle,
		"model":           m.cfg.Model,
		"draft_text":      draft,
	})

	return draft, nil
}

// RecordEdit compares currentText against the last snapshot for this session.
// A meaningful change gets the next version number, its own letter artifact,
// and a final/metric upsert; an identical text is a no-op that logs a single
// no_edit event per generation cycle. Returns the current version and whether
// the text changed.
func (m *Manager) RecordEdit(ctx context.Context, userID, email, sessionID, currentText string) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.stateLocked(ctx, sessionID)
	if err != nil {
		return 0, false, err
	}

	version, changed, _ := m.recordEditLocked(ctx, userID, email, sessionID, st, currentText, true)
	return version, changed, nil
}

// SubmitFeedback requires thumb in {+1, -1}. It first forces a final-state
// autosave against currentText (falling back to the last snapshot), then
// persists the feedback record and its log entry. With no draft generated yet
// it performs zero store writes and returns ErrNothingToSave.
func (m *Manager) SubmitFeedback(ctx context.Context, userID, email, sessionID string, thumb int, reason, currentText string) error {
	if thumb != 1 && thumb != -1 {
		return ErrInvalidThumb
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.stateLocked(ctx, sessionID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(st.snapshot) == "" {
		return ErrNothingToSave
	}

	finalText := strings.TrimSpace(currentText)
	if finalText == "" {
		finalText = strings.TrimSpace(st.snapshot)
	}

	triggeredBy := "thumbs_up"
	if thumb < 0 {
		triggeredBy = "thumbs_down"
	}

	// the autosave never emits a no_edit event; it only versions real changes
	_, _, dist := m.recordEditLocked(ctx, userID, email, sessionID, st, finalText, false)

	m.rec.Record(ctx, userID, email, sessionID, models.EventFinalSaved, map[string]any{
		"final_text":    finalText,
		"edit_distance": dist,
		"triggered_by":  triggeredBy,
	})

	fb := &models.Feedback{
		SessionID: sessionID,
		UserID:    userID,
		Email:     email,
		Thumb:     thumb,
		Reason:    strings.TrimSpace(reason),
		Created:   now(),
	}
	if _, err := m.feedback.CreateFeedback(ctx, fb); err != nil {
		logger.Warn("saving feedback failed", slog.String("session_id", sessionID), slog.Any("err", err))
	}

	m.rec.Record(ctx, userID, email, sessionID, models.EventFeedbackSubmitted, map[string]any{
		"thumb":      thumb,
		"feedback":   strings.TrimSpace(reason),
		"final_text": finalText,
	})

	return nil
}

// recordEditLocked is the shared edit path. When logNoEdit is false an
// unchanged text is silently skipped instead of logging the one-shot no_edit
// event. Caller holds m.mu.
func (m *Manager) recordEditLocked(ctx context.Context, userID, email, sessionID string, st *sessionState, currentText string, logNoEdit bool) (int, bool, float64) {
	if strings.TrimSpace(currentText) == strings.TrimSpace(st.snapshot) {
		if logNoEdit && !st.noEditLogged {
			m.rec.Record(ctx, userID, email, sessionID, models.EventNoEdit, map[string]any{
				"user_email": email,
				"gen_id":     st.genID,
				"gen_num":    st.genNum,
				"timestamp":  utcNowISO(),
				"draft_text": st.draft,
			})
			st.noEditLogged = true
		}
		return st.version, false, 0
	}

	st.version++
	version := st.version

	letter := &models.Letter{
		SessionID: sessionID,
		Kind:      fmt.Sprintf("%s%d", models.KindEditPrefix, version),
		Version:   version,
		Content:   currentText,
		Created:   now(),
	}
	if _, err := m.letters.CreateLetter(ctx, letter); err != nil {
		logger.Warn("saving edit version failed", slog.Int("version", version), slog.Any("err", err))
	}

	dist := m.upsertFinalLocked(ctx, sessionID, st, currentText)
	st.snapshot = currentText

	m.rec.Record(ctx, userID, email, sessionID, models.EventEditVersion, map[string]any{
		"gen_id":      st.genID,
		"gen_num":     st.genNum,
		"version":     version,
		"timestamp":   utcNowISO(),
		"edited_text": currentText,
	})

	return version, true, dist
}

// upsertFinalLocked updates the latest-final record with the distance from the
// previous final text (falling back to the pre-edit snapshot when the session
// has no final record yet). Store failures are diagnostic-only.
func (m *Manager) upsertFinalLocked(ctx context.Context, sessionID string, st *sessionState, newText string) float64 {
	prev := st.snapshot
	if f, err := m.finals.GetFinal(ctx, sessionID); err != nil {
		logger.Warn("loading final record failed", slog.String("session_id", sessionID), slog.Any("err", err))
	} else if f != nil {
		prev = f.FinalText
	}

	dist := Distance(prev, newText)
	rec := &models.FinalRecord{
		SessionID:    sessionID,
		FinalText:    strings.TrimSpace(newText),
		EditDistance: dist,
		Updated:      now(),
	}
	if err := m.finals.UpsertFinal(ctx, rec); err != nil {
		logger.Warn("autosave upsert failed", slog.String("session_id", sessionID), slog.Any("err", err))
	}

	return dist
}

// stateLocked returns the in-memory state for a session, rehydrating the
// snapshot and version from the latest persisted letter when the process has
// no state yet (e.g. after a restart). Caller holds m.mu.
func (m *Manager) stateLocked(ctx context.Context, sessionID string) (*sessionState, error) {
	if st, ok := m.states[sessionID]; ok {
		return st, nil
	}

	sess, err := m.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	// The newest artifact by insert order carries both the snapshot and the
	// cycle's version counter: a regeneration appends a fresh draft at
	// version 0, which must win over the previous cycle's numbered edits.
	st := &sessionState{}
	if last, err := m.letters.LatestLetter(ctx, sessionID); err != nil {
		logger.Warn("loading latest letter failed", slog.String("session_id", sessionID), slog.Any("err", err))
	} else if last != nil {
		st.snapshot = last.Content
		st.version = last.Version
	}
	if all, err := m.letters.ListLetters(ctx, sessionID); err != nil {
		logger.Warn("loading letters failed", slog.String("session_id", sessionID), slog.Any("err", err))
	} else {
		for _, l := range all {
			if l.Kind == models.KindDraft {
				st.draft = l.Content
			}
		}
	}

	m.states[sessionID] = st
	return st, nil
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

func utcNowISO() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
