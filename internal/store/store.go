// Package store persists the club collection. Two implementations are
// provided: MemoryStore for tests and dry runs, PostgresStore for real
// deployments. Both apply multi-row mutations (ingest, replace, merge,
// cascade delete) atomically.
package store

import (
	"context"

	"github.com/guildfordrfc/teamsheet-data/internal/club"
	"github.com/guildfordrfc/teamsheet-data/internal/merge"
)

// SheetEntry is one resolved teamsheet slot handed to the store: the raw
// display name, its canonical key, and the shirt position. The store
// finds-or-creates the player by canonical key inside the same transaction
// that writes the match.
type SheetEntry struct {
	Name     string
	Key      string
	Position int
}

// Store is the storage surface used by the ingestion service, the merge
// engine, and the read views.
type Store interface {
	// Snapshot returns a consistent read of the whole collection.
	Snapshot(ctx context.Context) (*club.Snapshot, error)

	ListPlayers(ctx context.Context) ([]club.Player, error)
	GetPlayer(ctx context.Context, id int64) (*club.Player, error)
	GetMatch(ctx context.Context, id int64) (*club.Match, error)

	// CreateMatch writes a match and its appearances in one transaction,
	// creating players for unseen canonical keys. It assigns m.ID and
	// returns the players created along the way.
	CreateMatch(ctx context.Context, m *club.Match, entries []SheetEntry) ([]club.Player, error)

	// ReplaceMatch rewrites an existing match's metadata and appearances in
	// one transaction (the edit flow: prior appearances are dropped first).
	ReplaceMatch(ctx context.Context, m *club.Match, entries []SheetEntry) ([]club.Player, error)

	// DeleteMatch removes a match and cascades to its appearances.
	DeleteMatch(ctx context.Context, id int64) error

	AppearancesByPlayers(ctx context.Context, playerIDs []int64) ([]club.Appearance, error)

	// ApplyMergePlan reassigns and drops the planned appearances and deletes
	// the loser players, all-or-nothing.
	ApplyMergePlan(ctx context.Context, plan *merge.Plan) error
}
