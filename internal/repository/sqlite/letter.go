package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gabya-ai/Smart-Intro/pkg/models"
)

// CreateLetter appends one artifact row. Letters are never updated or deleted.
func (r *SQLiteRepo) CreateLetter(ctx context.Context, l *models.Letter) (int64, error) {
	if l == nil {
		return 0, fmt.Errorf("letter is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO letters (session_id, kind, version, content, created) VALUES (?, ?, ?, ?, ?)`,
		l.SessionID, l.Kind, l.Version, l.Content, l.Created)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

// LatestLetter returns the most recently appended artifact for a session.
// Insert order is chronology here: a regeneration writes a fresh draft at
// version 0, which supersedes the previous cycle's numbered edits.
func (r *SQLiteRepo) LatestLetter(ctx context.Context, sessionID string) (*models.Letter, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, session_id, kind, version, content, created FROM letters WHERE session_id = ? ORDER BY id DESC LIMIT 1`, sessionID)
	var l models.Letter
	if err := row.Scan(&l.ID, &l.SessionID, &l.Kind, &l.Version, &l.Content, &l.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &l, nil
}

func (r *SQLiteRepo) ListLetters(ctx context.Context, sessionID string) ([]models.Letter, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, session_id, kind, version, content, created FROM letters WHERE session_id = ? ORDER BY id ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Letter
	for rows.Next() {
		var l models.Letter
		if err := rows.Scan(&l.ID, &l.SessionID, &l.Kind, &l.Version, &l.Content, &l.Created); err != nil {
			return nil, err
		}

		out = append(out, l)
	}

	return out, rows.Err()
}
