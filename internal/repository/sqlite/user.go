package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gabya-ai/Smart-Intro/pkg/models"
)

// EnsureUser creates the profile row on first sign-in. Existing rows are left
// untouched; user profiles are never deleted by this system.
func (r *SQLiteRepo) EnsureUser(ctx context.Context, id, email string) error {
	if id == "" {
		return fmt.Errorf("user id is empty")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO users (id, email, created) VALUES (?, ?, ?) ON CONFLICT(id) DO NOTHING`, id, email, now())
	return err
}

func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}

	var pw any
	if u.PasswordHash != "" {
		pw = u.PasswordHash
	}
	_, err := r.conn.Exec(ctx, `INSERT INTO users (id, email, password_hash, created) VALUES (?, ?, ?, ?)`, u.ID, u.Email, pw, now())
	return err
}

func (r *SQLiteRepo) GetUser(ctx context.Context, id string) (*models.User, error) {
	return r.scanUser(r.conn.QueryRow(ctx, `SELECT id, email, password_hash, created FROM users WHERE id = ?`, id))
}

func (r *SQLiteRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanUser(r.conn.QueryRow(ctx, `SELECT id, email, password_hash, created FROM users WHERE email = ?`, email))
}

func (r *SQLiteRepo) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var pw sql.NullString
	if err := row.Scan(&u.ID, &u.Email, &pw, &u.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	if pw.Valid {
		u.PasswordHash = pw.String
	}

	return &u, nil
}
