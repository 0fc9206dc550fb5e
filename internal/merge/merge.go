// Package merge collapses duplicate player records into one canonical
// player. A merge is modeled as snapshot → plan → atomic apply: the plan is
// computed from a consistent read of the affected rows, then applied in a
// single transaction, so a failure anywhere leaves no partial state.
package merge

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/guildfordrfc/teamsheet-data/internal/club"
)

// Store is the storage surface the engine needs. Both the in-memory and the
// Postgres stores implement it.
type Store interface {
	ListPlayers(ctx context.Context) ([]club.Player, error)
	AppearancesByPlayers(ctx context.Context, playerIDs []int64) ([]club.Appearance, error)
	ApplyMergePlan(ctx context.Context, plan *Plan) error
}

// Plan is the computed outcome of a merge, ready to apply atomically.
// ReassignIDs are loser appearance rows repointed at the canonical player;
// DropIDs are loser rows discarded because the canonical player already
// holds the same (match, position) slot — the canonical's pre-existing row
// always wins.
type Plan struct {
	CanonicalID int64
	LoserIDs    []int64
	ReassignIDs []int64
	DropIDs     []int64
}

// Result summarizes an applied merge.
type Result struct {
	Canonical            club.Player `json:"canonical"`
	PlayersMerged        int         `json:"players_merged"`
	Reassigned           int         `json:"reassigned"`
	DroppedAppearanceIDs []int64     `json:"dropped_appearance_ids,omitempty"`
}

// BuildPlan validates a merge request against the given players and
// appearances and computes the reassignment plan. It is pure: no state is
// touched. Validation failures return *club.InvalidMergeError or
// *club.NotFoundError.
func BuildPlan(players []club.Player, appearances []club.Appearance, canonicalID int64, loserIDs []int64) (*Plan, error) {
	if len(loserIDs) == 0 {
		return nil, &club.InvalidMergeError{Reason: "no players to merge"}
	}

	byID := make(map[int64]club.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	if _, ok := byID[canonicalID]; !ok {
		return nil, &club.NotFoundError{Kind: "player", ID: canonicalID}
	}

	losers := make(map[int64]bool, len(loserIDs))
	for _, id := range loserIDs {
		if id == canonicalID {
			return nil, &club.InvalidMergeError{Reason: fmt.Sprintf("player %d cannot be merged into itself", id)}
		}
		if losers[id] {
			return nil, &club.InvalidMergeError{Reason: fmt.Sprintf("player %d listed twice", id)}
		}
		if _, ok := byID[id]; !ok {
			return nil, &club.NotFoundError{Kind: "player", ID: id}
		}
		losers[id] = true
	}

	// Slots already held by the canonical player. A loser appearance landing
	// on an occupied slot is dropped, not duplicated.
	type slot struct {
		matchID  int64
		position int
	}
	taken := make(map[slot]bool)
	for _, a := range appearances {
		if a.PlayerID == canonicalID {
			taken[slot{a.MatchID, a.Position}] = true
		}
	}

	var loserApps []club.Appearance
	for _, a := range appearances {
		if losers[a.PlayerID] {
			loserApps = append(loserApps, a)
		}
	}
	// Deterministic conflict resolution when two losers hold the same slot:
	// the lowest appearance ID survives.
	sort.Slice(loserApps, func(i, j int) bool { return loserApps[i].ID < loserApps[j].ID })

	plan := &Plan{CanonicalID: canonicalID, LoserIDs: append([]int64(nil), loserIDs...)}
	for _, a := range loserApps {
		s := slot{a.MatchID, a.Position}
		if taken[s] {
			plan.DropIDs = append(plan.DropIDs, a.ID)
			continue
		}
		taken[s] = true
		plan.ReassignIDs = append(plan.ReassignIDs, a.ID)
	}
	return plan, nil
}

// Engine runs merges against a Store.
type Engine struct {
	store  Store
	logger *slog.Logger
}

// NewEngine creates a merge engine.
func NewEngine(store Store, logger *slog.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// Merge reassigns every appearance of the losers to the canonical player and
// deletes the loser records, atomically. A loser removed by a concurrent
// merge surfaces as *club.NotFoundError; nothing is applied in that case.
func (e *Engine) Merge(ctx context.Context, canonicalID int64, loserIDs []int64) (*Result, error) {
	players, err := e.store.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	affected := append(append([]int64(nil), loserIDs...), canonicalID)
	appearances, err := e.store.AppearancesByPlayers(ctx, affected)
	if err != nil {
		return nil, fmt.Errorf("load appearances: %w", err)
	}

	plan, err := BuildPlan(players, appearances, canonicalID, loserIDs)
	if err != nil {
		return nil, err
	}

	if err := e.store.ApplyMergePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("apply merge plan: %w", err)
	}

	var canonical club.Player
	for _, p := range players {
		if p.ID == canonicalID {
			canonical = p
			break
		}
	}

	e.logger.Info("Merged players",
		"canonical_id", canonicalID, "canonical_name", canonical.Name,
		"losers", len(loserIDs), "reassigned", len(plan.ReassignIDs),
		"dropped", len(plan.DropIDs))

	return &Result{
		Canonical:            canonical,
		PlayersMerged:        len(loserIDs),
		Reassigned:           len(plan.ReassignIDs),
		DroppedAppearanceIDs: plan.DropIDs,
	}, nil
}
