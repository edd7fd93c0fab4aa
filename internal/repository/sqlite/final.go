package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gabya-ai/Smart-Intro/pkg/models"
)

// UpsertFinal creates or merges the single final/metric row for a session.
func (r *SQLiteRepo) UpsertFinal(ctx context.Context, f *models.FinalRecord) error {
	if f == nil {
		return fmt.Errorf("final record is nil")
	}

	_, err := r.conn.Exec(ctx,
		`INSERT INTO session_finals (session_id, final_text, edit_distance, updated) VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET final_text=excluded.final_text, edit_distance=excluded.edit_distance, updated=excluded.updated`,
		f.SessionID, f.FinalText, f.EditDistance, f.Updated)
	return err
}

func (r *SQLiteRepo) GetFinal(ctx context.Context, sessionID string) (*models.FinalRecord, error) {
	row := r.conn.QueryRow(ctx, `SELECT session_id, final_text, edit_distance, updated FROM session_finals WHERE session_id = ?`, sessionID)
	var f models.FinalRecord
	if err := row.Scan(&f.SessionID, &f.FinalText, &f.EditDistance, &f.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &f, nil
}
