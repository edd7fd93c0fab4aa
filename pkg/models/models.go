package models

import "encoding/json"

// Domain models matching the database schema in db/migrations/0001_init.sql

// Interaction log event types.
const (
	EventDraftGenerated    = "draft_generated"
	EventEditVersion       = "edit_version"
	EventNoEdit            = "no_edit"
	EventFinalSaved        = "final_saved"
	EventFeedbackSubmitted = "feedback_submitted"
	EventHeartbeat         = "heartbeat"
)

// Letter kinds. Edits use KindEditPrefix + version, e.g. "edit_v3".
const (
	KindDraft      = "draft"
	KindEditPrefix = "edit_v"
)

type User struct {
	ID           string `json:"id" db:"id"`
	Email        string `json:"email" db:"email" validate:"required,email"`
	Created      int64  `json:"created" db:"created"`
	PasswordHash string `json:"password_hash,omitempty" db:"password_hash"`
}

// GenerationParams are the optional knobs captured when a session is created.
type GenerationParams struct {
	LengthPref    string `json:"length_pref,omitempty" db:"length_pref"`
	FormatPref    string `json:"format_pref,omitempty" db:"format_pref"`
	Highlights    string `json:"highlights,omitempty" db:"highlights"`
	Model         string `json:"model,omitempty" db:"model"`
	PromptVersion string `json:"prompt_version,omitempty" db:"prompt_version"`
}

// Session is one resume+job-description generation context. Core fields are
// immutable once created.
type Session struct {
	ID         string           `json:"id" db:"id"`
	UserID     string           `json:"user_id" db:"user_id"`
	ResumeText string           `json:"resume_text" db:"resume_text"`
	JDText     string           `json:"jd_text" db:"jd_text"`
	Params     GenerationParams `json:"params"`
	Created    int64            `json:"created" db:"created"`
}

// Letter is a persisted snapshot of cover-letter text. Append-only; one row
// per draft or numbered edit. Version is 0 for drafts, >= 1 for edits.
type Letter struct {
	ID        int64  `json:"id" db:"id"`
	SessionID string `json:"session_id" db:"session_id"`
	Kind      string `json:"kind" db:"kind"`
	Version   int    `json:"version" db:"version"`
	Content   string `json:"content" db:"content"`
	Created   int64  `json:"created" db:"created"`
}

// FinalRecord is the latest-edit-text-plus-distance summary for a session.
// One row per session, upserted on every meaningful edit.
type FinalRecord struct {
	SessionID    string  `json:"session_id" db:"session_id"`
	FinalText    string  `json:"final_text" db:"final_text"`
	EditDistance float64 `json:"edit_distance" db:"edit_distance"`
	Updated      int64   `json:"updated" db:"updated"`
}

type Feedback struct {
	ID        int64  `json:"id" db:"id"`
	SessionID string `json:"session_id" db:"session_id"`
	UserID    string `json:"user_id" db:"user_id"`
	Email     string `json:"email" db:"email"`
	Thumb     int    `json:"thumb" db:"thumb"`
	Reason    string `json:"reason,omitempty" db:"reason"`
	Created   int64  `json:"created" db:"created"`
}

// InteractionLog is one append-only analytics event.
type InteractionLog struct {
	ID         int64           `json:"id" db:"id"`
	UserID     string          `json:"user_id" db:"user_id"`
	Email      string          `json:"email" db:"email"`
	SessionID  string          `json:"session_id" db:"session_id"`
	Event      string          `json:"event" db:"event"`
	Payload    json.RawMessage `json:"payload" db:"payload"`
	ServerTime int64           `json:"server_time" db:"server_time"`
}

// EventSchema holds a JSON schema used to validate interaction log payloads.
type EventSchema struct {
	Version     string `json:"version" db:"version"`
	Description string `json:"description,omitempty" db:"description"`
	SchemaJSON  string `json:"schema_json" db:"schema_json"`
	Created     int64  `json:"created" db:"created"`
	Updated     int64  `json:"updated" db:"updated"`
}

type PromptTemplate struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Version     string  `json:"version" db:"version"`
	TemplateTxt string  `json:"template_text" db:"template_text"`
	Metadata    *string `json:"metadata,omitempty" db:"metadata"`
	Created     int64   `json:"created" db:"created"`
	Updated     int64   `json:"updated" db:"updated"`
}
