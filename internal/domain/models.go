package domain

import (
	"time"
)

type Team struct {
	VlrID       string
	Name        string
	Tag         string
	Rating      int
	LastUpdated time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Player struct {
	VlrID       string
	IGN         string
	RealName    string
	TeamID      string // empty when the player has no team
	LastUpdated time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Event is one stage of a tournament; stages of the same tournament share Name.
type Event struct {
	VlrURL    string
	Name      string
	Series    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Match struct {
	VlrID      string
	EventURL   string
	Team1ID    string
	Team2ID    string
	DatePlayed time.Time // UTC
	IsFinished bool
	Team1Score int
	Team2Score int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Map struct {
	GameID     string
	MatchID    string
	Name       string
	MapNumber  int // 1-based play order
	Team1Score int
	Team2Score int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type PlayerStats struct {
	ID        string // nanoid
	PlayerID  string
	MapID     string
	Kills     int
	Deaths    int
	Assists   int
	ACS       int
	Agent     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
