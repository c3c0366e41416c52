package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PostgresStore keeps each document as a JSONB row in a single documents
// table keyed by (collection, id). Versions increment on every replace.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (Doc, error) {
	var d Doc
	d.ID = id
	err := s.db.QueryRowContext(ctx, `
		SELECT doc, version
		FROM documents
		WHERE collection = $1 AND id = $2
	`, collection, id).Scan(&d.Data, &d.Version)
	if err == sql.ErrNoRows {
		return Doc{}, ErrNotFound
	}
	if err != nil {
		return Doc{}, err
	}
	return d, nil
}

func (s *PostgresStore) Insert(ctx context.Context, collection, id string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, doc, version, created_at)
		VALUES ($1, $2, $3, 1, NOW())
	`, collection, id, data)
	return err
}

func (s *PostgresStore) Replace(ctx context.Context, collection, id string, data []byte, version int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE documents
		SET doc = $3, version = version + 1
		WHERE collection = $1 AND id = $2 AND version = $4
	`, collection, id, data, version)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish a missing document from a stale version.
		var exists bool
		if err := s.db.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM documents WHERE collection = $1 AND id = $2)
		`, collection, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM documents WHERE collection = $1 AND id = $2
	`, collection, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, collection string, filters map[string]string, offset, limit int) ([]Doc, int, error) {
	where := []string{"collection = $1"}
	args := []any{collection}
	for field, value := range filters {
		// Field names come from code, never from request input; values are
		// always bound parameters.
		where = append(where, fmt.Sprintf("doc->>'%s' = $%d", field, len(args)+1))
		args = append(args, value)
	}
	cond := strings.Join(where, " AND ")

	var count int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE "+cond, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := "SELECT id, doc, version FROM documents WHERE " + cond + " ORDER BY created_at, id"
	if limit > 0 {
		query += fmt.Sprintf(" OFFSET $%d LIMIT $%d", len(args)+1, len(args)+2)
		args = append(args, offset, limit)
	} else if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var docs []Doc
	for rows.Next() {
		var d Doc
		if err := rows.Scan(&d.ID, &d.Data, &d.Version); err != nil {
			return nil, 0, err
		}
		docs = append(docs, d)
	}
	return docs, count, rows.Err()
}

func (s *PostgresStore) Collections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT collection FROM documents ORDER BY collection
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
