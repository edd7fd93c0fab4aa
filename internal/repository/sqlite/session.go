package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gabya-ai/Smart-Intro/pkg/models"
)

func (r *SQLiteRepo) CreateSession(ctx context.Context, s *models.Session) error {
	if s == nil {
		return fmt.Errorf("session is nil")
	}

	_, err := r.conn.Exec(ctx,
		`INSERT INTO sessions (id, user_id, resume_text, jd_text, length_pref, format_pref, highlights, model, prompt_version, created) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.ResumeText, s.JDText, s.Params.LengthPref, s.Params.FormatPref, s.Params.Highlights, s.Params.Model, s.Params.PromptVersion, s.Created)
	return err
}

func (r *SQLiteRepo) GetSession(ctx context.Context, id string) (*models.Session, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT id, user_id, resume_text, jd_text, length_pref, format_pref, highlights, model, prompt_version, created FROM sessions WHERE id = ?`, id)
	var s models.Session
	if err := row.Scan(&s.ID, &s.UserID, &s.ResumeText, &s.JDText, &s.Params.LengthPref, &s.Params.FormatPref, &s.Params.Highlights, &s.Params.Model, &s.Params.PromptVersion, &s.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &s, nil
}
