package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/gabya-ai/Smart-Intro/pkg/models"
	"github.com/gabya-ai/Smart-Intro/pkg/repository/mock"
)

const testSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"gen_num": {"type": "integer"}
	}
}`

func TestRecorderWritesEvent(t *testing.T) {
	mocks := mock.NewMocks()
	rec := NewUnvalidatedRecorder(mocks.Logs)

	rec.Record(context.Background(), "u1", "u1@x.com", "s1", models.EventHeartbeat, map[string]any{"source": "test"})

	if len(mocks.Logs.Stored) != 1 {
		t.Fatalf("logs = %d, want 1", len(mocks.Logs.Stored))
	}
	e := mocks.Logs.Stored[0]
	if e.UserID != "u1" || e.Email != "u1@x.com" || e.SessionID != "s1" || e.Event != models.EventHeartbeat {
		t.Errorf("entry = %+v", e)
	}
	if e.ServerTime == 0 {
		t.Error("server time not stamped")
	}

	var payload map[string]any
	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		t.Fatalf("payload not valid JSON: %v", err)
	}
	if payload["source"] != "test" {
		t.Errorf("payload = %v", payload)
	}
}

func TestRecorderUnmarshalablePayload(t *testing.T) {
	mocks := mock.NewMocks()
	rec := NewUnvalidatedRecorder(mocks.Logs)

	// A func value cannot be marshalled; the event is still written with an
	// empty payload.
	rec.Record(context.Background(), "u1", "e", "s1", models.EventNoEdit, map[string]any{"f": func() {}})

	if len(mocks.Logs.Stored) != 1 {
		t.Fatalf("logs = %d, want 1", len(mocks.Logs.Stored))
	}
	if got := string(mocks.Logs.Stored[0].Payload); got != "{}" {
		t.Errorf("payload = %q, want {}", got)
	}
}

func TestRecorderStoreFailureIsSwallowed(t *testing.T) {
	mocks := mock.NewMocks()
	mocks.Logs.CreateErr = errors.New("disk full")
	rec := NewUnvalidatedRecorder(mocks.Logs)

	// Must not panic or surface the error.
	rec.Record(context.Background(), "u1", "e", "s1", models.EventHeartbeat, nil)
}

func TestRecorderNilSafe(t *testing.T) {
	var rec *Recorder
	rec.Record(context.Background(), "u1", "e", "s1", models.EventHeartbeat, nil)
}

func TestRecorderValidationIsAdvisory(t *testing.T) {
	mocks := mock.NewMocks()
	mocks.Schemas.Stored = []models.EventSchema{{Version: "v1", SchemaJSON: testSchema}}

	rec, err := NewRecorder(context.Background(), mocks.Logs, mocks.Schemas)
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}

	// gen_num as a string violates the schema; the event is written anyway.
	rec.Record(context.Background(), "u1", "e", "s1", models.EventDraftGenerated, map[string]any{"gen_num": "three"})

	if len(mocks.Logs.Stored) != 1 {
		t.Fatalf("logs = %d, want invalid payload written anyway", len(mocks.Logs.Stored))
	}
}

func TestNewRecorderSchemaLoadFailure(t *testing.T) {
	mocks := mock.NewMocks()
	mocks.Schemas.ListErr = errors.New("no such table")

	if _, err := NewRecorder(context.Background(), mocks.Logs, mocks.Schemas); err == nil {
		t.Fatal("expected error when schemas cannot be loaded")
	}
}

func TestSchemaLoader(t *testing.T) {
	mocks := mock.NewMocks()
	mocks.Schemas.Stored = []models.EventSchema{{Version: "v1", SchemaJSON: testSchema}}

	loader, err := NewSchemaLoader(context.Background(), mocks.Schemas)
	if err != nil {
		t.Fatalf("NewSchemaLoader() error = %v", err)
	}

	if _, ok := loader.GetSchema("v1"); !ok {
		t.Error("v1 schema not cached")
	}
	if _, ok := loader.GetSchema("v9"); ok {
		t.Error("unknown version reported as cached")
	}

	// Reload picks up new rows.
	mocks.Schemas.Stored = append(mocks.Schemas.Stored, models.EventSchema{Version: "v2", SchemaJSON: testSchema})
	if err := loader.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if _, ok := loader.GetSchema("v2"); !ok {
		t.Error("v2 schema not cached after reload")
	}
}

func TestSchemaLoaderBadSchema(t *testing.T) {
	mocks := mock.NewMocks()
	mocks.Schemas.Stored = []models.EventSchema{{Version: "v1", SchemaJSON: "{not json"}}

	if _, err := NewSchemaLoader(context.Background(), mocks.Schemas); err == nil {
		t.Fatal("expected error for an uncompilable schema")
	}
}
