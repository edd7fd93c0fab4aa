package sqlite

import (
	"context"
	"database/sql"

	"github.com/gabya-ai/Smart-Intro/pkg/models"
)

func (r *SQLiteRepo) GetTemplate(ctx context.Context, name, version string) (*models.PromptTemplate, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, name, version, template_text, metadata, created, updated FROM prompt_templates WHERE name = ? AND version = ?`, name, version)
	var t models.PromptTemplate
	if err := row.Scan(&t.ID, &t.Name, &t.Version, &t.TemplateTxt, &t.Metadata, &t.Created, &t.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
