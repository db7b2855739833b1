package db

import (
	"context"
	"time"
)

const listMapsByMatch = `-- name: ListMapsByMatch :many
SELECT game_id, match_id, name, map_number, team1_score, team2_score, created_at, updated_at
FROM maps
WHERE match_id = ?
ORDER BY map_number ASC
`

func (q *Queries) ListMapsByMatch(ctx context.Context, matchID string) ([]Map, error) {
	rows, err := q.db.QueryContext(ctx, listMapsByMatch, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Map
	for rows.Next() {
		var i Map
		if err := rows.Scan(
			&i.GameID,
			&i.MatchID,
			&i.Name,
			&i.MapNumber,
			&i.Team1Score,
			&i.Team2Score,
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

const upsertMap = `-- name: UpsertMap :exec
INSERT INTO maps (game_id, match_id, name, map_number, team1_score, team2_score, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(game_id) DO UPDATE SET
    match_id = excluded.match_id,
    name = excluded.name,
    map_number = excluded.map_number,
    team1_score = excluded.team1_score,
    team2_score = excluded.team2_score,
    updated_at = excluded.updated_at
`

type UpsertMapParams struct {
	GameID     string
	MatchID    string
	Name       string
	MapNumber  int64
	Team1Score int64
	Team2Score int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (q *Queries) UpsertMap(ctx context.Context, arg UpsertMapParams) error {
	_, err := q.db.ExecContext(ctx, upsertMap,
		arg.GameID,
		arg.MatchID,
		arg.Name,
		arg.MapNumber,
		arg.Team1Score,
		arg.Team2Score,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}
