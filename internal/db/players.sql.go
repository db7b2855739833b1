package db

import (
	"context"
	"database/sql"
	"time"
)

const getPlayer = `-- name: GetPlayer :one
SELECT vlr_id, ign, real_name, team_id, last_updated, created_at, updated_at
FROM players
WHERE vlr_id = ?
`

func (q *Queries) GetPlayer(ctx context.Context, vlrID string) (Player, error) {
	row := q.db.QueryRowContext(ctx, getPlayer, vlrID)
	var i Player
	err := row.Scan(
		&i.VlrID,
		&i.Ign,
		&i.RealName,
		&i.TeamID,
		&i.LastUpdated,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listPlayersByTeam = `-- name: ListPlayersByTeam :many
SELECT vlr_id, ign, real_name, team_id, last_updated, created_at, updated_at
FROM players
WHERE team_id = ?
ORDER BY ign ASC
`

func (q *Queries) ListPlayersByTeam(ctx context.Context, teamID sql.NullString) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, listPlayersByTeam, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Player
	for rows.Next() {
		var i Player
		if err := rows.Scan(
			&i.VlrID,
			&i.Ign,
			&i.RealName,
			&i.TeamID,
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

const upsertPlayer = `-- name: UpsertPlayer :exec
INSERT INTO players (vlr_id, ign, real_name, team_id, last_updated, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(vlr_id) DO UPDATE SET
    ign = excluded.ign,
    real_name = excluded.real_name,
    team_id = excluded.team_id,
    last_updated = excluded.last_updated,
    updated_at = excluded.updated_at
`

type UpsertPlayerParams struct {
	VlrID       string
	Ign         string
	RealName    string
	TeamID      sql.NullString
	LastUpdated time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) UpsertPlayer(ctx context.Context, arg UpsertPlayerParams) error {
	_, err := q.db.ExecContext(ctx, upsertPlayer,
		arg.VlrID,
		arg.Ign,
		arg.RealName,
		arg.TeamID,
		arg.LastUpdated,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}
