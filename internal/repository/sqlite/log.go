package sqlite

import (
	"context"
	"fmt"

	"github.com/gabya-ai/Smart-Intro/pkg/models"
)

// CreateLog appends one interaction-log row with a server-assigned timestamp
// when the entry does not carry one.
func (r *SQLiteRepo) CreateLog(ctx context.Context, e *models.InteractionLog) (int64, error) {
	if e == nil {
		return 0, fmt.Errorf("log entry is nil")
	}

	payload := string(e.Payload)
	if payload == "" {
		payload = "{}"
	}
	serverTime := e.ServerTime
	if serverTime == 0 {
		serverTime = now()
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO interaction_logs (user_id, email, session_id, event, payload, server_time) VALUES (?, ?, ?, ?, ?, ?)`,
		e.UserID, e.Email, e.SessionID, e.Event, payload, serverTime)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}
