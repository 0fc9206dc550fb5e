package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/guildfordrfc/teamsheet-data/internal/api/respond"
	"github.com/guildfordrfc/teamsheet-data/internal/dedupe"
)

// maxSheetBytes caps the request body for teamsheet ingestion. A sheet is a
// few hundred bytes; anything near the cap is not a teamsheet.
const maxSheetBytes = 64 << 10

// PostTeamsheet ingests a raw teamsheet from the request body.
// @Summary Ingest a teamsheet
// @Description Parses raw teamsheet text and persists the match with its appearances. The optional "league" query parameter labels the match.
// @Tags admin
// @Accept plain
// @Produce json
// @Param league query string false "League label"
// @Success 201 {object} ingest.Result
// @Failure 400 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Router /teamsheets [post]
func (h *Handler) PostTeamsheet(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxSheetBytes))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "could not read request body")
		return
	}

	result, err := h.ingest.IngestSheet(r.Context(), string(raw), r.URL.Query().Get("league"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusCreated, result)
}

// PutMatch re-ingests a teamsheet for an existing match (the edit flow).
// @Summary Replace a match's teamsheet
// @Tags admin
// @Accept plain
// @Produce json
// @Param matchID path int true "Match ID"
// @Param league query string false "League label"
// @Success 200 {object} ingest.Result
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /matches/{matchID} [put]
func (h *Handler) PutMatch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "matchID"), 10, 64)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "matchID must be an integer")
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxSheetBytes))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "could not read request body")
		return
	}

	result, err := h.ingest.ReplaceSheet(r.Context(), id, string(raw), r.URL.Query().Get("league"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, result)
}

// DeleteMatch removes a match; its appearances cascade.
// @Summary Delete a match
// @Tags admin
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} respond.ErrorResponse
// @Router /matches/{matchID} [delete]
func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "matchID"), 10, 64)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "matchID must be an integer")
		return
	}
	if err := h.store.DeleteMatch(r.Context(), id); err != nil {
		h.writeDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"deleted": id})
}

// GetDuplicates scans the player population for candidate duplicate groups.
// @Summary Candidate duplicate players
// @Description Clusters players whose names score at or above the threshold. Proposals only; merging requires an explicit POST /merges.
// @Tags admin
// @Produce json
// @Param threshold query number false "Similarity threshold (0..1), defaults to the configured value"
// @Success 200 {array} dedupe.Group
// @Failure 400 {object} respond.ErrorResponse
// @Router /duplicates [get]
func (h *Handler) GetDuplicates(w http.ResponseWriter, r *http.Request) {
	threshold := h.cfg.DuplicateThreshold
	if v := r.URL.Query().Get("threshold"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil || t < 0 || t > 1 {
			respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "threshold must be a number in [0,1]")
			return
		}
		threshold = t
	}

	players, err := h.store.ListPlayers(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	groups := dedupe.FindGroups(players, threshold, dedupe.TokenSortScorer{})
	if groups == nil {
		groups = []dedupe.Group{}
	}
	respond.WriteJSONObject(w, http.StatusOK, groups)
}

type mergeRequest struct {
	CanonicalID int64   `json:"canonical_id"`
	LoserIDs    []int64 `json:"loser_ids"`
}

// PostMerge merges duplicate players into one canonical record.
// @Summary Merge players
// @Description Reassigns every appearance of the losers to the canonical player and deletes the losers, atomically.
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} merge.Result
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /merges [post]
func (h *Handler) PostMerge(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}

	result, err := h.merger.Merge(r.Context(), req.CanonicalID, req.LoserIDs)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, result)
}
