package parser

import (
	"time"
	"vlr-scraper/internal/constants"
)

type RawEvent struct {
	Name      string
	Stages    []string
	StageURLs []string
}

type RosterEntry struct {
	RealName string
	IGN      string
	URL      string
}

type RawTeam struct {
	Name   string
	Tag    string
	Rating int
	Roster [constants.RosterSize]RosterEntry
}

type RawPlayer struct {
	IGN      string
	RealName string
	TeamURL  string
}

// MatchHeader is shared by both match variants.
type MatchHeader struct {
	EventURL string
	Date     time.Time
	Team1URL string
	Team2URL string
}

// RawMatch is either a ScheduledMatch or a FinishedMatch.
type RawMatch interface {
	Header() MatchHeader
	isRawMatch()
}

type ScheduledMatch struct {
	MatchHeader
}

type FinishedMatch struct {
	MatchHeader
	Team1Score int
	Team2Score int
	Maps       []RawMap
}

func (m ScheduledMatch) Header() MatchHeader { return m.MatchHeader }
func (m FinishedMatch) Header() MatchHeader  { return m.MatchHeader }

func (ScheduledMatch) isRawMatch() {}
func (FinishedMatch) isRawMatch()  {}

func (m FinishedMatch) MapsPlayed() int { return len(m.Maps) }

type RawMap struct {
	Team1Score int
	Team2Score int
	Name       string
	GameID     string
	Team1Stats [constants.RosterSize]RawPlayerStat
	Team2Stats [constants.RosterSize]RawPlayerStat
}

// Stats returns team 1's rows followed by team 2's.
func (m RawMap) Stats() []RawPlayerStat {
	out := make([]RawPlayerStat, 0, 2*constants.RosterSize)
	out = append(out, m.Team1Stats[:]...)
	return append(out, m.Team2Stats[:]...)
}

type RawPlayerStat struct {
	PlayerURL string
	Kills     int
	Deaths    int
	Assists   int
	ACS       int
	Agent     string
}
