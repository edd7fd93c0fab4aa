// Package analytics writes interaction-log events. Log writes are advisory:
// failures are reported through the logger and never surface to the caller,
// so a broken analytics path cannot interrupt a user-facing flow.
package analytics

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/gabya-ai/Smart-Intro/pkg/models"
	"github.com/gabya-ai/Smart-Intro/pkg/repository"
)

// package-level logger; can be set via SetLogger from caller
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger installs a logger for the analytics package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Recorder appends events to the interaction log, validating payloads
// against the seeded event schema first. Validation is advisory: an invalid
// payload is logged and the event is still written.
type Recorder struct {
	repo          repository.LogRepo
	loader        *SchemaLoader
	schemaVersion string
}

func NewRecorder(ctx context.Context, lr repository.LogRepo, sr repository.SchemaRepo) (*Recorder, error) {
	loader, err := NewSchemaLoader(ctx, sr)
	if err != nil {
		return nil, err
	}
	return &Recorder{repo: lr, loader: loader, schemaVersion: "v1"}, nil
}

// NewUnvalidatedRecorder builds a recorder without a schema loader; payloads
// are written as-is. Used by tests and tooling that has no schema store.
func NewUnvalidatedRecorder(lr repository.LogRepo) *Recorder {
	return &Recorder{repo: lr}
}

// Record appends one event. Never returns an error: any failure is emitted as
// a diagnostic and swallowed.
func (r *Recorder) Record(ctx context.Context, userID, email, sessionID, event string, payload map[string]any) {
	if r == nil || r.repo == nil {
		return
	}

	b, err := json.Marshal(payload)
	if err != nil {
		logger.Warn("analytics: marshal payload failed", slog.String("event", event), slog.Any("err", err))
		b = []byte("{}")
	}

	if r.loader != nil {
		if schema, ok := r.loader.GetSchema(r.schemaVersion); ok {
			if keyErrs, err := schema.ValidateBytes(ctx, b); err != nil {
				logger.Warn("analytics: schema validation error", slog.String("event", event), slog.Any("err", err))
			} else if len(keyErrs) > 0 {
				logger.Warn("analytics: payload does not match schema", slog.String("event", event), slog.Any("violations", keyErrs))
			}
		}
	}

	entry := &models.InteractionLog{
		UserID:     userID,
		Email:      email,
		SessionID:  sessionID,
		Event:      event,
		Payload:    b,
		ServerTime: time.Now().UTC().UnixMilli(),
	}
	if _, err := r.repo.CreateLog(ctx, entry); err != nil {
		logger.Warn("analytics: log write failed", slog.String("event", event), slog.Any("err", err))
	}
}
