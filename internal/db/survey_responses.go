package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/feedback-survey/internal/survey"
)

// responseColumns returns the quoted column list for the 13 survey fields, in display order.
func responseColumns() []string {
	ids := survey.FieldIDs()
	cols := make([]string, len(ids))
	for i, id := range ids {
		cols[i] = pgx.Identifier{id}.Sanitize()
	}
	return cols
}

// nullIfEmpty stores unanswered optional fields as NULL.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// InsertSurveyResponse stores one submitted record and returns the row id assigned by the database.
func (db *DB) InsertSurveyResponse(ctx context.Context, rec survey.Record) (uuid.UUID, error) {
	cols := responseColumns()
	placeholders := make([]string, 0, len(cols)+1)
	args := make([]any, 0, len(cols)+1)

	for i, f := range survey.Fields() {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		value := rec.Response.Value(f.ID)
		if f.Required {
			args = append(args, value)
		} else {
			args = append(args, nullIfEmpty(value))
		}
	}
	placeholders = append(placeholders, fmt.Sprintf("$%d", len(cols)+1))
	args = append(args, rec.SubmittedAt)

	query := fmt.Sprintf(
		`INSERT INTO survey_responses (%s, submitted_at) VALUES (%s) RETURNING id`,
		strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)

	var id uuid.UUID
	if err := db.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert survey response: %w", err)
	}
	return id, nil
}

// selectResponsesSQL returns the SELECT prefix shared by the read queries.
func selectResponsesSQL() string {
	return fmt.Sprintf(`SELECT id, %s, submitted_at, created_at FROM survey_responses`,
		strings.Join(responseColumns(), ", "))
}

func scanResponse(row pgx.Row) (*StoredResponse, error) {
	ids := survey.FieldIDs()
	values := make([]*string, len(ids))

	var stored StoredResponse
	dest := make([]any, 0, len(ids)+3)
	dest = append(dest, &stored.ID)
	for i := range values {
		dest = append(dest, &values[i])
	}
	dest = append(dest, &stored.Record.SubmittedAt, &stored.CreatedAt)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	stored.Record.Response = survey.NewResponse()
	for i, id := range ids {
		if values[i] != nil {
			stored.Record.Response[id] = *values[i]
		}
	}
	return &stored, nil
}

// GetSurveyResponse retrieves a stored response by id. Returns nil, nil when absent.
func (db *DB) GetSurveyResponse(ctx context.Context, id uuid.UUID) (*StoredResponse, error) {
	row := db.pool.QueryRow(ctx, selectResponsesSQL()+` WHERE id = $1`, id)
	stored, err := scanResponse(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get survey response: %w", err)
	}
	return stored, nil
}

// ListSurveyResponses retrieves the most recently submitted responses.
func (db *DB) ListSurveyResponses(ctx context.Context, limit int) ([]StoredResponse, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := db.pool.Query(ctx, selectResponsesSQL()+` ORDER BY submitted_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list survey responses: %w", err)
	}
	defer rows.Close()

	var responses []StoredResponse
	for rows.Next() {
		stored, err := scanResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan survey response: %w", err)
		}
		responses = append(responses, *stored)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list survey responses: %w", err)
	}
	return responses, nil
}

// CountSurveyResponses returns the number of stored responses.
func (db *DB) CountSurveyResponses(ctx context.Context) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM survey_responses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count survey responses: %w", err)
	}
	return n, nil
}
