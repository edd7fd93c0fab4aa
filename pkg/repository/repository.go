package repository

import (
	"context"

	"github.com/gabya-ai/Smart-Intro/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

type UserRepo interface {
	// EnsureUser creates the profile row on first sign-in; it is a no-op when
	// the user already exists.
	EnsureUser(ctx context.Context, id, email string) error
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type SessionRepo interface {
	CreateSession(ctx context.Context, s *models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
}

type LetterRepo interface {
	CreateLetter(ctx context.Context, l *models.Letter) (int64, error)
	LatestLetter(ctx context.Context, sessionID string) (*models.Letter, error)
	ListLetters(ctx context.Context, sessionID string) ([]models.Letter, error)
}

type FinalRepo interface {
	UpsertFinal(ctx context.Context, f *models.FinalRecord) error
	GetFinal(ctx context.Context, sessionID string) (*models.FinalRecord, error)
}

type FeedbackRepo interface {
	CreateFeedback(ctx context.Context, f *models.Feedback) (int64, error)
	ListFeedback(ctx context.Context, sessionID string) ([]models.Feedback, error)
}

type LogRepo interface {
	CreateLog(ctx context.Context, e *models.InteractionLog) (int64, error)
}

type SchemaRepo interface {
	ListSchemas(ctx context.Context) ([]models.EventSchema, error)
	GetSchemaByVersion(ctx context.Context, version string) (*models.EventSchema, error)
}

type TemplateRepo interface {
	GetTemplate(ctx context.Context, name, version string) (*models.PromptTemplate, error)
}
