package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/guildfordrfc/teamsheet-data/internal/club"
	"github.com/guildfordrfc/teamsheet-data/internal/merge"
)

// ErrSimulatedFailure is returned by ApplyMergePlan when FailOnReassign
// triggers. Exported for tests that assert rollback behavior.
var ErrSimulatedFailure = errors.New("simulated reassignment failure")

// MemoryStore is a mutex-guarded in-memory Store. It backs the unit tests
// and the CLI's --dry-run paths. Mutations build against scratch copies and
// commit only on success, matching the transactional discipline of the
// Postgres store.
type MemoryStore struct {
	mu          sync.RWMutex
	players     map[int64]club.Player
	keys        map[string]int64 // canonical key -> player ID
	matches     map[int64]club.Match
	appearances map[int64]club.Appearance
	nextID      int64

	// FailOnReassign, when > 0, makes ApplyMergePlan fail just before the
	// Nth reassignment commits. Used to exercise merge atomicity.
	FailOnReassign int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		players:     make(map[int64]club.Player),
		keys:        make(map[string]int64),
		matches:     make(map[int64]club.Match),
		appearances: make(map[int64]club.Appearance),
	}
}

func (s *MemoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *MemoryStore) Snapshot(ctx context.Context) (*club.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &club.Snapshot{}
	for _, m := range s.matches {
		snap.Matches = append(snap.Matches, m)
	}
	for _, p := range s.players {
		snap.Players = append(snap.Players, p)
	}
	for _, a := range s.appearances {
		snap.Appearances = append(snap.Appearances, a)
	}
	sort.Slice(snap.Matches, func(i, j int) bool { return snap.Matches[i].ID < snap.Matches[j].ID })
	sort.Slice(snap.Players, func(i, j int) bool { return snap.Players[i].ID < snap.Players[j].ID })
	sort.Slice(snap.Appearances, func(i, j int) bool { return snap.Appearances[i].ID < snap.Appearances[j].ID })
	return snap, nil
}

func (s *MemoryStore) ListPlayers(ctx context.Context) ([]club.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make([]club.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players, nil
}

func (s *MemoryStore) GetPlayer(ctx context.Context, id int64) (*club.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[id]
	if !ok {
		return nil, &club.NotFoundError{Kind: "player", ID: id}
	}
	return &p, nil
}

func (s *MemoryStore) GetMatch(ctx context.Context, id int64) (*club.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.matches[id]
	if !ok {
		return nil, &club.NotFoundError{Kind: "match", ID: id}
	}
	return &m, nil
}

func (s *MemoryStore) CreateMatch(ctx context.Context, m *club.Match, entries []SheetEntry) ([]club.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = s.id()
	s.matches[m.ID] = *m
	return s.writeAppearances(m.ID, entries), nil
}

func (s *MemoryStore) ReplaceMatch(ctx context.Context, m *club.Match, entries []SheetEntry) ([]club.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.matches[m.ID]; !ok {
		return nil, &club.NotFoundError{Kind: "match", ID: m.ID}
	}
	for id, a := range s.appearances {
		if a.MatchID == m.ID {
			delete(s.appearances, id)
		}
	}
	s.matches[m.ID] = *m
	return s.writeAppearances(m.ID, entries), nil
}

// writeAppearances resolves entries to players (creating unseen canonical
// keys) and inserts appearance rows. Caller holds the write lock.
func (s *MemoryStore) writeAppearances(matchID int64, entries []SheetEntry) []club.Player {
	var created []club.Player
	for _, e := range entries {
		playerID, ok := s.keys[e.Key]
		if !ok {
			p := club.Player{ID: s.id(), Name: e.Name}
			s.players[p.ID] = p
			s.keys[e.Key] = p.ID
			playerID = p.ID
			created = append(created, p)
		}
		a := club.Appearance{ID: s.id(), PlayerID: playerID, MatchID: matchID, Position: e.Position}
		s.appearances[a.ID] = a
	}
	return created
}

func (s *MemoryStore) DeleteMatch(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.matches[id]; !ok {
		return &club.NotFoundError{Kind: "match", ID: id}
	}
	delete(s.matches, id)
	for aid, a := range s.appearances {
		if a.MatchID == id {
			delete(s.appearances, aid)
		}
	}
	return nil
}

func (s *MemoryStore) AppearancesByPlayers(ctx context.Context, playerIDs []int64) ([]club.Appearance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := make(map[int64]bool, len(playerIDs))
	for _, id := range playerIDs {
		want[id] = true
	}
	var out []club.Appearance
	for _, a := range s.appearances {
		if want[a.PlayerID] {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) ApplyMergePlan(ctx context.Context, plan *merge.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range plan.LoserIDs {
		if _, ok := s.players[id]; !ok {
			return &club.NotFoundError{Kind: "player", ID: id}
		}
	}
	if _, ok := s.players[plan.CanonicalID]; !ok {
		return &club.NotFoundError{Kind: "player", ID: plan.CanonicalID}
	}

	// Stage every change against a scratch copy; commit only if the whole
	// plan applies.
	scratch := make(map[int64]club.Appearance, len(s.appearances))
	for id, a := range s.appearances {
		scratch[id] = a
	}
	for i, id := range plan.ReassignIDs {
		if s.FailOnReassign > 0 && i+1 == s.FailOnReassign {
			return ErrSimulatedFailure
		}
		a, ok := scratch[id]
		if !ok {
			return &club.NotFoundError{Kind: "appearance", ID: id}
		}
		a.PlayerID = plan.CanonicalID
		scratch[id] = a
	}
	for _, id := range plan.DropIDs {
		delete(scratch, id)
	}

	s.appearances = scratch
	for _, id := range plan.LoserIDs {
		loser := s.players[id]
		delete(s.players, id)
		for key, pid := range s.keys {
			if pid == loser.ID {
				delete(s.keys, key)
			}
		}
	}
	return nil
}
