package server

type TeamResponse struct {
	VlrID       string `json:"vlr_id"`
	Name        string `json:"name"`
	Tag         string `json:"team_tag"`
	Rating      int    `json:"team_rating"`
	LastUpdated string `json:"last_updated"`
}

type TeamDetailResponse struct {
	TeamResponse
	Players []PlayerResponse `json:"players"`
}

type PlayerResponse struct {
	VlrID       string `json:"vlr_id"`
	IGN         string `json:"ign"`
	RealName    string `json:"real_name"`
	TeamID      string `json:"team_id,omitempty"`
	LastUpdated string `json:"last_updated"`
}

type PlayerDetailResponse struct {
	PlayerResponse
	Stats []StatResponse `json:"stats"`
}

type EventResponse struct {
	VlrURL string `json:"vlr_url"`
	Name   string `json:"name"`
	Series string `json:"series"`
}

type MatchResponse struct {
	VlrID      string `json:"vlr_id"`
	Event      string `json:"event"`
	Series     string `json:"series"`
	EventURL   string `json:"event_url"`
	Team1ID    string `json:"team1_id"`
	Team2ID    string `json:"team2_id"`
	Team1      string `json:"team1"`
	Team2      string `json:"team2"`
	DatePlayed string `json:"date_played"`
	IsFinished bool   `json:"is_finished"`
	Team1Score int    `json:"team1_score"`
	Team2Score int    `json:"team2_score"`
}

type MatchDetailResponse struct {
	MatchResponse
	Maps []MapResponse `json:"maps"`
}

type MapResponse struct {
	GameID     string         `json:"game_id"`
	Name       string         `json:"name"`
	MapNumber  int            `json:"map_number"`
	Team1Score int            `json:"team1_score"`
	Team2Score int            `json:"team2_score"`
	Stats      []StatResponse `json:"stats"`
}

type StatResponse struct {
	PlayerID string `json:"player_id"`
	MapID    string `json:"map_id"`
	Kills    int    `json:"kills"`
	Deaths   int    `json:"deaths"`
	Assists  int    `json:"assists"`
	ACS      int    `json:"acs"`
	Agent    string `json:"agent"`
}
