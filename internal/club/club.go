// Package club defines the domain model shared by every layer: matches,
// players, appearances, and the error taxonomy the API and CLI translate
// into user-facing messages.
package club

import "time"

// Position sentinel for a player recorded on the sheet without a shirt
// number (bench / unpositioned slot).
const PositionUnassigned = 0

// Match is one fixture. Deleting a match cascades to its appearances.
type Match struct {
	ID               int64     `json:"id"`
	League           string    `json:"league"`
	Season           string    `json:"season"` // e.g. "2023/24"
	Date             time.Time `json:"date"`
	Opposition       string    `json:"opposition"`
	Location         string    `json:"location"`
	Result           string    `json:"result"` // "W", "D", "L"
	ClubPoints       int       `json:"club_points"`
	OppositionPoints int       `json:"opposition_points"`
}

// Player is one identity. Name is unique under namekey.Canonical, not under
// raw string equality; two raw spellings with the same canonical key are the
// same player once merged or prevented at ingestion.
type Player struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Appearance links a player to a match at a shirt position. The same player
// may hold several positions within one match when the sheet records a
// substitution; those rows are distinct and must never be collapsed.
type Appearance struct {
	ID       int64 `json:"id"`
	PlayerID int64 `json:"player_id"`
	MatchID  int64 `json:"match_id"`
	Position int   `json:"position"` // 1..SquadSize, or PositionUnassigned
}

// Snapshot is a consistent read of the whole collection, the input to every
// aggregation. Views are recomputed from a fresh snapshot on each query;
// there are no independently mutated counters.
type Snapshot struct {
	Matches     []Match
	Players     []Player
	Appearances []Appearance
}
