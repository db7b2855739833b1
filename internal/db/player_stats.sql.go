package db

import (
	"context"
	"time"
)

const insertPlayerStatIfAbsent = `-- name: InsertPlayerStatIfAbsent :execrows
INSERT INTO player_stats (id, player_id, map_id, kills, deaths, assists, acs, agent, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(player_id, map_id) DO NOTHING
`

type InsertPlayerStatIfAbsentParams struct {
	ID        string
	PlayerID  string
	MapID     string
	Kills     int64
	Deaths    int64
	Assists   int64
	Acs       int64
	Agent     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) InsertPlayerStatIfAbsent(ctx context.Context, arg InsertPlayerStatIfAbsentParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, insertPlayerStatIfAbsent,
		arg.ID,
		arg.PlayerID,
		arg.MapID,
		arg.Kills,
		arg.Deaths,
		arg.Assists,
		arg.Acs,
		arg.Agent,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listPlayerStatsByMatch = `-- name: ListPlayerStatsByMatch :many
SELECT ps.id, ps.player_id, ps.map_id, ps.kills, ps.deaths, ps.assists, ps.acs, ps.agent, ps.created_at, ps.updated_at
FROM player_stats ps
JOIN maps m ON m.game_id = ps.map_id
WHERE m.match_id = ?
ORDER BY m.map_number ASC, ps.acs DESC, ps.player_id ASC
`

func (q *Queries) ListPlayerStatsByMatch(ctx context.Context, matchID string) ([]PlayerStat, error) {
	return q.listPlayerStats(ctx, listPlayerStatsByMatch, matchID)
}

const listPlayerStatsByPlayer = `-- name: ListPlayerStatsByPlayer :many
SELECT id, player_id, map_id, kills, deaths, assists, acs, agent, created_at, updated_at
FROM player_stats
WHERE player_id = ?
ORDER BY created_at DESC
`

func (q *Queries) ListPlayerStatsByPlayer(ctx context.Context, playerID string) ([]PlayerStat, error) {
	return q.listPlayerStats(ctx, listPlayerStatsByPlayer, playerID)
}

func (q *Queries) listPlayerStats(ctx context.Context, query string, args ...interface{}) ([]PlayerStat, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PlayerStat
	for rows.Next() {
		var i PlayerStat
		if err := rows.Scan(
			&i.ID,
			&i.PlayerID,
			&i.MapID,
			&i.Kills,
			&i.Deaths,
			&i.Assists,
			&i.Acs,
			&i.Agent,
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
