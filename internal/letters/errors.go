package letters

import "errors"

var (
	// ErrSessionNotFound is returned when an operation references a session id
	// that was never created.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNothingToSave is returned by SubmitFeedback when no draft has been
	// generated for the session yet. Callers surface it as an informational
	// message, not a failure.
	ErrNothingToSave = errors.New("nothing to save")

	ErrInvalidThumb = errors.New("thumb must be +1 or -1")

	ErrUnknownStyle = errors.New("unknown length or format style")

	// ErrEmptyDraft is returned when the model produced no usable text; no
	// partial draft is persisted in that case.
	ErrEmptyDraft = errors.New("model returned empty draft")
)
