package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
	"vlr-scraper/internal/domain"
	"vlr-scraper/internal/repository"
	"vlr-scraper/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Server serves the stored data as JSON.
type Server struct {
	querySvc *service.QueryService
	logger   zerolog.Logger
}

func NewServer(querySvc *service.QueryService, logger zerolog.Logger) *Server {
	return &Server{querySvc: querySvc, logger: logger}
}

func (s *Server) Routes() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.Health).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/teams", s.GetTeams).Methods(http.MethodGet)
	api.HandleFunc("/team/{id}", s.GetTeam).Methods(http.MethodGet)
	api.HandleFunc("/team/{id}/matches", s.GetTeamMatches).Methods(http.MethodGet)
	api.HandleFunc("/events", s.GetEvents).Methods(http.MethodGet)
	api.HandleFunc("/matches", s.GetMatches).Methods(http.MethodGet)
	api.HandleFunc("/match/{id}", s.GetMatch).Methods(http.MethodGet)
	api.HandleFunc("/upcoming_matches", s.GetUpcomingMatches).Methods(http.MethodGet)
	api.HandleFunc("/player/{id}", s.GetPlayer).Methods(http.MethodGet)

	return router
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) GetTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.querySvc.Teams(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := make([]TeamResponse, len(teams))
	for i, t := range teams {
		resp[i] = toTeamResponse(t)
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) GetTeam(w http.ResponseWriter, r *http.Request) {
	detail, err := s.querySvc.Team(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := TeamDetailResponse{
		TeamResponse: toTeamResponse(detail.Team),
		Players:      make([]PlayerResponse, len(detail.Players)),
	}
	for i, p := range detail.Players {
		resp.Players[i] = toPlayerResponse(p)
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) GetTeamMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.querySvc.TeamMatches(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toMatchResponses(matches))
}

// GetEvents returns the stages stored under ?name=.
func (s *Server) GetEvents(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	events, err := s.querySvc.EventStages(r.Context(), name)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := make([]EventResponse, len(events))
	for i, e := range events {
		resp[i] = EventResponse{VlrURL: e.VlrURL, Name: e.Name, Series: e.Series}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) GetMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.querySvc.Matches(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toMatchResponses(matches))
}

func (s *Server) GetUpcomingMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.querySvc.UpcomingMatches(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toMatchResponses(matches))
}

func (s *Server) GetMatch(w http.ResponseWriter, r *http.Request) {
	detail, err := s.querySvc.Match(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := MatchDetailResponse{
		MatchResponse: toMatchResponse(detail.MatchSummary),
		Maps:          make([]MapResponse, len(detail.Maps)),
	}
	for i, m := range detail.Maps {
		mr := MapResponse{
			GameID:     m.Map.GameID,
			Name:       m.Map.Name,
			MapNumber:  m.Map.MapNumber,
			Team1Score: m.Map.Team1Score,
			Team2Score: m.Map.Team2Score,
			Stats:      make([]StatResponse, len(m.Stats)),
		}
		for j, st := range m.Stats {
			mr.Stats[j] = toStatResponse(st)
		}
		resp.Maps[i] = mr
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) GetPlayer(w http.ResponseWriter, r *http.Request) {
	detail, err := s.querySvc.Player(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := PlayerDetailResponse{
		PlayerResponse: toPlayerResponse(detail.Player),
		Stats:          make([]StatResponse, len(detail.Stats)),
	}
	for i, st := range detail.Stats {
		resp.Stats[i] = toStatResponse(st)
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	respondError(w, http.StatusInternalServerError, "internal error")
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":  message,
		"status": status,
	})
}

func toTeamResponse(t domain.Team) TeamResponse {
	return TeamResponse{
		VlrID:       t.VlrID,
		Name:        t.Name,
		Tag:         t.Tag,
		Rating:      t.Rating,
		LastUpdated: t.LastUpdated.UTC().Format(time.RFC3339),
	}
}

func toPlayerResponse(p domain.Player) PlayerResponse {
	return PlayerResponse{
		VlrID:       p.VlrID,
		IGN:         p.IGN,
		RealName:    p.RealName,
		TeamID:      p.TeamID,
		LastUpdated: p.LastUpdated.UTC().Format(time.RFC3339),
	}
}

func toMatchResponse(m service.MatchSummary) MatchResponse {
	return MatchResponse{
		VlrID:      m.Match.VlrID,
		Event:      m.EventName,
		Series:     m.Series,
		EventURL:   m.Match.EventURL,
		Team1ID:    m.Match.Team1ID,
		Team2ID:    m.Match.Team2ID,
		Team1:      m.Team1Name,
		Team2:      m.Team2Name,
		DatePlayed: m.Match.DatePlayed.UTC().Format(time.RFC3339),
		IsFinished: m.Match.IsFinished,
		Team1Score: m.Match.Team1Score,
		Team2Score: m.Match.Team2Score,
	}
}

func toMatchResponses(matches []service.MatchSummary) []MatchResponse {
	resp := make([]MatchResponse, len(matches))
	for i, m := range matches {
		resp[i] = toMatchResponse(m)
	}
	return resp
}

func toStatResponse(st domain.PlayerStats) StatResponse {
	return StatResponse{
		PlayerID: st.PlayerID,
		MapID:    st.MapID,
		Kills:    st.Kills,
		Deaths:   st.Deaths,
		Assists:  st.Assists,
		ACS:      st.ACS,
		Agent:    st.Agent,
	}
}
