package db

import (
	"database/sql"
	"time"
)

type Event struct {
	VlrUrl    string
	Name      string
	Series    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Map struct {
	GameID     string
	MatchID    string
	Name       string
	MapNumber  int64
	Team1Score int64
	Team2Score int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Match struct {
	VlrID      string
	EventUrl   string
	Team1ID    string
	Team2ID    string
	DatePlayed time.Time
	IsFinished bool
	Team1Score int64
	Team2Score int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Player struct {
	VlrID       string
	Ign         string
	RealName    string
	TeamID      sql.NullString
	LastUpdated time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type PlayerStat struct {
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

type Team struct {
	VlrID       string
	Name        string
	Tag         string
	Rating      int64
	LastUpdated time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
