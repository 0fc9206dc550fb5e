// Package ingest turns raw teamsheet text into persisted match and
// appearance rows: parse, resolve names against the existing player
// population, then write everything in one transaction.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/guildfordrfc/teamsheet-data/internal/club"
	"github.com/guildfordrfc/teamsheet-data/internal/dedupe"
	"github.com/guildfordrfc/teamsheet-data/internal/namekey"
	"github.com/guildfordrfc/teamsheet-data/internal/store"
	"github.com/guildfordrfc/teamsheet-data/internal/teamsheet"
)

// Options tunes the ingestion pipeline.
type Options struct {
	Schema    teamsheet.PositionSchema
	Threshold float64       // fuzzy-duplicate cutoff for new names
	Scorer    dedupe.Scorer // nil → dedupe.TokenSortScorer{}
	Strict    bool          // treat fuzzy matches as errors instead of warnings
}

// Warning flags a new name that looks like an existing player. The sheet is
// still ingested (unless Strict); admins review warnings on the duplicates
// screen before deciding to merge.
type Warning struct {
	Name      string  `json:"name"`
	BestMatch string  `json:"best_match"`
	Score     float64 `json:"score"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%q is not an existing player; did you mean %q? (similarity %.2f)", w.Name, w.BestMatch, w.Score)
}

// Result reports one ingested sheet.
type Result struct {
	Match          club.Match    `json:"match"`
	Appearances    int           `json:"appearances"`
	CreatedPlayers []club.Player `json:"created_players,omitempty"`
	Warnings       []Warning     `json:"warnings,omitempty"`
}

// StrictIngestError aborts a strict-mode ingest that raised fuzzy warnings.
type StrictIngestError struct {
	Warnings []Warning
}

func (e *StrictIngestError) Error() string {
	return fmt.Sprintf("ingest blocked: %d possible duplicate name(s); review or merge first", len(e.Warnings))
}

// Service ingests teamsheets against a Store.
type Service struct {
	store  store.Store
	opts   Options
	logger *slog.Logger
}

// New creates an ingestion service.
func New(st store.Store, opts Options, logger *slog.Logger) *Service {
	if opts.Scorer == nil {
		opts.Scorer = dedupe.TokenSortScorer{}
	}
	if opts.Threshold == 0 {
		opts.Threshold = dedupe.DefaultThreshold
	}
	return &Service{store: st, opts: opts, logger: logger}
}

// IngestSheet parses raw text and persists a new match with its
// appearances. League is not part of the row format; pass it separately.
func (s *Service) IngestSheet(ctx context.Context, raw, league string) (*Result, error) {
	sheet, entries, warnings, err := s.prepare(ctx, raw)
	if err != nil {
		return nil, err
	}

	m := metaToMatch(sheet.Meta, league)
	created, err := s.store.CreateMatch(ctx, &m, entries)
	if err != nil {
		return nil, fmt.Errorf("persist teamsheet: %w", err)
	}

	s.logger.Info("Ingested teamsheet",
		"match_id", m.ID, "season", m.Season, "opposition", m.Opposition,
		"appearances", len(entries), "new_players", len(created), "warnings", len(warnings))

	return &Result{Match: m, Appearances: len(entries), CreatedPlayers: created, Warnings: warnings}, nil
}

// ReplaceSheet re-ingests raw text for an existing match, replacing its
// metadata and appearances (the edit flow).
func (s *Service) ReplaceSheet(ctx context.Context, matchID int64, raw, league string) (*Result, error) {
	sheet, entries, warnings, err := s.prepare(ctx, raw)
	if err != nil {
		return nil, err
	}

	m := metaToMatch(sheet.Meta, league)
	m.ID = matchID
	created, err := s.store.ReplaceMatch(ctx, &m, entries)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Replaced teamsheet",
		"match_id", m.ID, "appearances", len(entries), "new_players", len(created))

	return &Result{Match: m, Appearances: len(entries), CreatedPlayers: created, Warnings: warnings}, nil
}

// prepare parses and validates raw sheet text and resolves its names:
// in-sheet canonical duplicates are rejected, new names are fuzzy-checked
// against the existing population.
func (s *Service) prepare(ctx context.Context, raw string) (*teamsheet.Sheet, []store.SheetEntry, []Warning, error) {
	sheet, err := teamsheet.Parse(raw, s.opts.Schema)
	if err != nil {
		return nil, nil, nil, err
	}

	entries := make([]store.SheetEntry, 0, len(sheet.Slots))
	seen := make(map[string]int) // canonical key -> first position
	for _, slot := range sheet.Slots {
		key := namekey.Canonical(slot.Name)
		if key == "" {
			return nil, nil, nil, &club.MalformedInputError{
				Line: 1, Field: fmt.Sprintf("player%d", slot.Position),
				Reason: fmt.Sprintf("name %q is empty after normalization", slot.Name),
			}
		}
		if first, dup := seen[key]; dup {
			return nil, nil, nil, &club.MalformedInputError{
				Line: 1, Field: fmt.Sprintf("player%d", slot.Position),
				Reason: fmt.Sprintf("%q duplicates the player at position %d", slot.Name, first),
			}
		}
		seen[key] = slot.Position
		entries = append(entries, store.SheetEntry{Name: slot.Name, Key: key, Position: slot.Position})
	}

	existing, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list players: %w", err)
	}
	names := make([]string, len(existing))
	known := make(map[string]bool, len(existing))
	for i, p := range existing {
		names[i] = p.Name
		known[namekey.Canonical(p.Name)] = true
	}

	var warnings []Warning
	for _, e := range entries {
		if known[e.Key] {
			continue // exact match resolves to the existing player
		}
		if m := dedupe.Check(e.Name, names, s.opts.Threshold, s.opts.Scorer); m.IsDuplicate {
			warnings = append(warnings, Warning{Name: e.Name, BestMatch: m.BestMatch, Score: m.Score})
		}
	}
	if s.opts.Strict && len(warnings) > 0 {
		return nil, nil, nil, &StrictIngestError{Warnings: warnings}
	}

	return sheet, entries, warnings, nil
}

func metaToMatch(meta teamsheet.MatchMeta, league string) club.Match {
	if league == "" {
		league = meta.League
	}
	return club.Match{
		League:           league,
		Season:           meta.Season,
		Date:             meta.Date,
		Opposition:       meta.Opposition,
		Location:         meta.Location,
		Result:           meta.Result,
		ClubPoints:       meta.ClubPoints,
		OppositionPoints: meta.OppositionPoints,
	}
}
