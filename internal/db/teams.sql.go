package db

import (
	"context"
	"time"
)

const getTeam = `-- name: GetTeam :one
SELECT vlr_id, name, tag, rating, last_updated, created_at, updated_at
FROM teams
WHERE vlr_id = ?
`

func (q *Queries) GetTeam(ctx context.Context, vlrID string) (Team, error) {
	row := q.db.QueryRowContext(ctx, getTeam, vlrID)
	var i Team
	err := row.Scan(
		&i.VlrID,
		&i.Name,
		&i.Tag,
		&i.Rating,
		&i.LastUpdated,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listTeams = `-- name: ListTeams :many
SELECT vlr_id, name, tag, rating, last_updated, created_at, updated_at
FROM teams
ORDER BY rating DESC, name ASC
`

func (q *Queries) ListTeams(ctx context.Context) ([]Team, error) {
	rows, err := q.db.QueryContext(ctx, listTeams)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Team
	for rows.Next() {
		var i Team
		if err := rows.Scan(
			&i.VlrID,
			&i.Name,
			&i.Tag,
			&i.Rating,
			&i.LastUpdated,
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

const upsertTeam = `-- name: UpsertTeam :exec
INSERT INTO teams (vlr_id, name, tag, rating, last_updated, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(vlr_id) DO UPDATE SET
    name = excluded.name,
    tag = excluded.tag,
    rating = excluded.rating,
    last_updated = excluded.last_updated,
    updated_at = excluded.updated_at
`

type UpsertTeamParams struct {
	VlrID       string
	Name        string
	Tag         string
	Rating      int64
	LastUpdated time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) UpsertTeam(ctx context.Context, arg UpsertTeamParams) error {
	_, err := q.db.ExecContext(ctx, upsertTeam,
		arg.VlrID,
		arg.Name,
		arg.Tag,
		arg.Rating,
		arg.LastUpdated,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}
