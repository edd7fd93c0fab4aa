package sqlite

import (
	"context"
	"database/sql"

	"github.com/gabya-ai/Smart-Intro/pkg/models"
)

func (r *SQLiteRepo) ListSchemas(ctx context.Context) ([]models.EventSchema, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT version, description, schema_json, created, updated FROM event_schemas ORDER BY version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.EventSchema
	for rows.Next() {
		var s models.EventSchema
		var desc sql.NullString
		if err := rows.Scan(&s.Version, &desc, &s.SchemaJSON, &s.Created, &s.Updated); err != nil {
			return nil, err
		}

		if desc.Valid {
			s.Description = desc.String
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) GetSchemaByVersion(ctx context.Context, version string) (*models.EventSchema, error) {
	row := r.conn.QueryRow(ctx, `SELECT version, description, schema_json, created, updated FROM event_schemas WHERE version = ?`, version)
	var s models.EventSchema
	var desc sql.NullString
	if err := row.Scan(&s.Version, &desc, &s.SchemaJSON, &s.Created, &s.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	if desc.Valid {
		s.Description = desc.String
	}

	return &s, nil
}
