package db

import (
	"context"
	"time"
)

const getEvent = `-- name: GetEvent :one
SELECT vlr_url, name, series, created_at, updated_at
FROM events
WHERE vlr_url = ?
`

func (q *Queries) GetEvent(ctx context.Context, vlrUrl string) (Event, error) {
	row := q.db.QueryRowContext(ctx, getEvent, vlrUrl)
	var i Event
	err := row.Scan(
		&i.VlrUrl,
		&i.Name,
		&i.Series,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listEventsByName = `-- name: ListEventsByName :many
SELECT vlr_url, name, series, created_at, updated_at
FROM events
WHERE name = ?
ORDER BY vlr_url ASC
`

func (q *Queries) ListEventsByName(ctx context.Context, name string) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, listEventsByName, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Event
	for rows.Next() {
		var i Event
		if err := rows.Scan(
			&i.VlrUrl,
			&i.Name,
			&i.Series,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertEvent = `-- name: UpsertEvent :exec
INSERT INTO events (vlr_url, name, series, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(vlr_url) DO UPDATE SET
    name = excluded.name,
    series = excluded.series,
    updated_at = excluded.updated_at
`

type UpsertEventParams struct {
	VlrUrl    string
	Name      string
	Series    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) UpsertEvent(ctx context.Context, arg UpsertEventParams) error {
	_, err := q.db.ExecContext(ctx, upsertEvent,
		arg.VlrUrl,
		arg.Name,
		arg.Series,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}
