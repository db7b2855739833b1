package db

import (
	"context"
	"time"
)

const matchColumns = `vlr_id, event_url, team1_id, team2_id, date_played, is_finished, team1_score, team2_score, created_at, updated_at`

const getMatch = `-- name: GetMatch :one
SELECT ` + matchColumns + `
FROM matches
WHERE vlr_id = ?
`

func (q *Queries) GetMatch(ctx context.Context, vlrID string) (Match, error) {
	row := q.db.QueryRowContext(ctx, getMatch, vlrID)
	var i Match
	err := row.Scan(
		&i.VlrID,
		&i.EventUrl,
		&i.Team1ID,
		&i.Team2ID,
		&i.DatePlayed,
		&i.IsFinished,
		&i.Team1Score,
		&i.Team2Score,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listMatches = `-- name: ListMatches :many
SELECT ` + matchColumns + `
FROM matches
ORDER BY date_played DESC, vlr_id DESC
`

func (q *Queries) ListMatches(ctx context.Context) ([]Match, error) {
	return q.listMatches(ctx, listMatches)
}

const listUpcomingMatches = `-- name: ListUpcomingMatches :many
SELECT ` + matchColumns + `
FROM matches
WHERE is_finished = 0
ORDER BY date_played ASC, vlr_id ASC
`

func (q *Queries) ListUpcomingMatches(ctx context.Context) ([]Match, error) {
	return q.listMatches(ctx, listUpcomingMatches)
}

const listMatchesByTeam = `-- name: ListMatchesByTeam :many
SELECT ` + matchColumns + `
FROM matches
WHERE team1_id = ?1 OR team2_id = ?1
ORDER BY date_played DESC, vlr_id DESC
`

func (q *Queries) ListMatchesByTeam(ctx context.Context, teamID string) ([]Match, error) {
	return q.listMatches(ctx, listMatchesByTeam, teamID)
}

func (q *Queries) listMatches(ctx context.Context, query string, args ...interface{}) ([]Match, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Match
	for rows.Next() {
		var i Match
		if err := rows.Scan(
			&i.VlrID,
			&i.EventUrl,
			&i.Team1ID,
			&i.Team2ID,
			&i.DatePlayed,
			&i.IsFinished,
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

const upsertFinishedMatch = `-- name: UpsertFinishedMatch :exec
INSERT INTO matches (vlr_id, event_url, team1_id, team2_id, date_played, is_finished, team1_score, team2_score, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, 1, ?, ?, ?, ?)
ON CONFLICT(vlr_id) DO UPDATE SET
    event_url = excluded.event_url,
    team1_id = excluded.team1_id,
    team2_id = excluded.team2_id,
    date_played = excluded.date_played,
    is_finished = 1,
    team1_score = excluded.team1_score,
    team2_score = excluded.team2_score,
    updated_at = excluded.updated_at
`

type UpsertFinishedMatchParams struct {
	VlrID      string
	EventUrl   string
	Team1ID    string
	Team2ID    string
	DatePlayed time.Time
	Team1Score int64
	Team2Score int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (q *Queries) UpsertFinishedMatch(ctx context.Context, arg UpsertFinishedMatchParams) error {
	_, err := q.db.ExecContext(ctx, upsertFinishedMatch,
		arg.VlrID,
		arg.EventUrl,
		arg.Team1ID,
		arg.Team2ID,
		arg.DatePlayed,
		arg.Team1Score,
		arg.Team2Score,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

// Scores and the finished flag are only written on insert; a row that is
// already finished keeps its result.
const upsertScheduledMatch = `-- name: UpsertScheduledMatch :exec
INSERT INTO matches (vlr_id, event_url, team1_id, team2_id, date_played, is_finished, team1_score, team2_score, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, 0, 0, 0, ?, ?)
ON CONFLICT(vlr_id) DO UPDATE SET
    event_url = excluded.event_url,
    team1_id = excluded.team1_id,
    team2_id = excluded.team2_id,
    date_played = excluded.date_played,
    updated_at = excluded.updated_at
`

type UpsertScheduledMatchParams struct {
	VlrID      string
	EventUrl   string
	Team1ID    string
	Team2ID    string
	DatePlayed time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (q *Queries) UpsertScheduledMatch(ctx context.Context, arg UpsertScheduledMatchParams) error {
	_, err := q.db.ExecContext(ctx, upsertScheduledMatch,
		arg.VlrID,
		arg.EventUrl,
		arg.Team1ID,
		arg.Team2ID,
		arg.DatePlayed,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}
