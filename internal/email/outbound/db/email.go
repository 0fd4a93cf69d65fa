package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/mailgate/internal/email/entity"
)

func (s *DB) SaveEmail(ctx context.Context, toAddr, subject, content string) (id string, err error) {
	ctx, span := s.startSpan(ctx, "SaveEmail")
	defer func() { s.endSpan(span, err) }()

	query := `
		INSERT INTO emails (to_address, subject, content)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	if err = s.conn.QueryRow(ctx, query, toAddr, subject, content).Scan(&id); err != nil {
		return "", s.mapError(err)
	}

	return id, nil
}

func (s *DB) GetEmail(ctx context.Context, id string) (rec *entity.Record, err error) {
	ctx, span := s.startSpan(ctx, "GetEmail")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT id, to_address, subject, content, sent_at
		FROM emails
		WHERE id = $1
	`

	rec = &entity.Record{}
	err = s.conn.QueryRow(ctx, query, id).
		Scan(&rec.ID, &rec.ToAddress, &rec.Subject, &rec.Content, &rec.SentAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return rec, nil
}

func (s *DB) ListEmails(ctx context.Context) (recs []entity.Record, err error) {
	ctx, span := s.startSpan(ctx, "ListEmails")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT id, to_address, subject, content, sent_at
		FROM emails
		ORDER BY sent_at DESC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	recs, err = pgx.CollectRows(rows, pgx.RowToStructByPos[entity.Record])
	if err != nil {
		return nil, s.mapError(err)
	}

	return recs, nil
}
