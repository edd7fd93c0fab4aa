package sqlite

import (
	"time"

	"github.com/gabya-ai/Smart-Intro/internal/db"
	"github.com/gabya-ai/Smart-Intro/pkg/repository"
)

// SQLiteRepo implements the repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn *db.DB
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.UserRepo = (*SQLiteRepo)(nil)
var _ repository.SessionRepo = (*SQLiteRepo)(nil)
var _ repository.LetterRepo = (*SQLiteRepo)(nil)
var _ repository.FinalRepo = (*SQLiteRepo)(nil)
var _ repository.FeedbackRepo = (*SQLiteRepo)(nil)
var _ repository.LogRepo = (*SQLiteRepo)(nil)
var _ repository.SchemaRepo = (*SQLiteRepo)(nil)
var _ repository.TemplateRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB) *SQLiteRepo {
	return &SQLiteRepo{conn: conn}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}
