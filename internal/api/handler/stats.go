package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/guildfordrfc/teamsheet-data/internal/api/respond"
	"github.com/guildfordrfc/teamsheet-data/internal/stats"
)

// GetLeaderboard returns the all-time appearance leaderboard.
// @Summary Appearance leaderboard
// @Description Ranks every player by distinct matches played.
// @Tags stats
// @Produce json
// @Success 200 {array} stats.LeaderboardEntry
// @Router /leaderboard [get]
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Snapshot(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, stats.Leaderboard(snap, h.schema))
}

// GetSeasons lists known season keys, most recent first.
// @Summary List seasons
// @Tags stats
// @Produce json
// @Success 200 {array} string
// @Router /seasons [get]
func (h *Handler) GetSeasons(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Snapshot(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, stats.Seasons(snap))
}

// GetSeasonView returns the aggregate view of one season. Season keys
// contain a slash, so the path segment is URL-escaped ("2023%2F24").
// @Summary Season summary
// @Tags stats
// @Produce json
// @Param season path string true "Season key, URL-escaped"
// @Success 200 {object} stats.SeasonSummary
// @Failure 404 {object} respond.ErrorResponse
// @Router /seasons/{season} [get]
func (h *Handler) GetSeasonView(w http.ResponseWriter, r *http.Request) {
	season := chi.URLParam(r, "season")
	if unescaped, err := url.PathUnescape(season); err == nil {
		season = unescaped
	}

	snap, err := h.store.Snapshot(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	view, err := stats.SeasonView(snap, season, h.schema)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, view)
}

// GetPlayers lists all players.
// @Summary List players
// @Tags stats
// @Produce json
// @Success 200 {array} club.Player
// @Router /players [get]
func (h *Handler) GetPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.store.ListPlayers(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, players)
}

// GetPlayerView returns the career view for one player.
// @Summary Player summary
// @Tags stats
// @Produce json
// @Param playerID path int true "Player ID"
// @Success 200 {object} stats.PlayerSummary
// @Failure 404 {object} respond.ErrorResponse
// @Router /players/{playerID} [get]
func (h *Handler) GetPlayerView(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "playerID"), 10, 64)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "playerID must be an integer")
		return
	}

	snap, err := h.store.Snapshot(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	view, err := stats.PlayerView(snap, id, h.schema)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, view)
}
