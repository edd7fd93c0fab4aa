package sqlite

import (
	"context"
	"fmt"

	"github.com/gabya-ai/Smart-Intro/pkg/models"
)

func (r *SQLiteRepo) CreateFeedback(ctx context.Context, f *models.Feedback) (int64, error) {
	if f == nil {
		return 0, fmt.Errorf("feedback is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO feedback (session_id, user_id, email, thumb, reason, created) VALUES (?, ?, ?, ?, ?, ?)`,
		f.SessionID, f.UserID, f.Email, f.Thumb, f.Reason, f.Created)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) ListFeedback(ctx context.Context, sessionID string) ([]models.Feedback, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, session_id, user_id, email, thumb, reason, created FROM feedback WHERE session_id = ? ORDER BY id ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Feedback
	for rows.Next() {
		var f models.Feedback
		if err := rows.Scan(&f.ID, &f.SessionID, &f.UserID, &f.Email, &f.Thumb, &f.Reason, &f.Created); err != nil {
			return nil, err
		}

		out = append(out, f)
	}

	return out, rows.Err()
}
