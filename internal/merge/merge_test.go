package merge_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/guildfordrfc/teamsheet-data/internal/club"
	"github.com/guildfordrfc/teamsheet-data/internal/merge"
	"github.com/guildfordrfc/teamsheet-data/internal/store"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestBuildPlanValidation(t *testing.T) {
	players := []club.Player{{ID: 1, Name: "John Smith"}, {ID: 2, Name: "Jon Smith"}}

	tests := []struct {
		name      string
		canonical int64
		losers    []int64
		wantErr   any
	}{
		{"no losers", 1, nil, &club.InvalidMergeError{}},
		{"self merge", 1, []int64{1}, &club.InvalidMergeError{}},
		{"loser listed twice", 1, []int64{2, 2}, &club.InvalidMergeError{}},
		{"unknown canonical", 99, []int64{2}, &club.NotFoundError{}},
		{"unknown loser", 1, []int64{99}, &club.NotFoundError{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := merge.BuildPlan(players, nil, tc.canonical, tc.losers)
			require.Error(t, err)
			switch tc.wantErr.(type) {
			case *club.InvalidMergeError:
				var e *club.InvalidMergeError
				require.ErrorAs(t, err, &e)
			case *club.NotFoundError:
				var e *club.NotFoundError
				require.ErrorAs(t, err, &e)
			}
		})
	}
}

func TestBuildPlanReassignsAndDrops(t *testing.T) {
	players := []club.Player{{ID: 1, Name: "John Smith"}, {ID: 2, Name: "Jon Smith"}}
	appearances := []club.Appearance{
		// Canonical already holds match 10, position 9.
		{ID: 100, PlayerID: 1, MatchID: 10, Position: 9},
		// Loser row colliding with that slot is dropped.
		{ID: 101, PlayerID: 2, MatchID: 10, Position: 9},
		// Loser rows on free slots are reassigned.
		{ID: 102, PlayerID: 2, MatchID: 11, Position: 9},
		{ID: 103, PlayerID: 2, MatchID: 10, Position: 16},
	}

	plan, err := merge.BuildPlan(players, appearances, 1, []int64{2})
	require.NoError(t, err)
	require.Equal(t, int64(1), plan.CanonicalID)
	require.Equal(t, []int64{102, 103}, plan.ReassignIDs)
	require.Equal(t, []int64{101}, plan.DropIDs)
}

func TestBuildPlanLoserCollision(t *testing.T) {
	// Two losers hold the same free slot. The lowest appearance ID survives.
	players := []club.Player{
		{ID: 1, Name: "John Smith"},
		{ID: 2, Name: "Jon Smith"},
		{ID: 3, Name: "Smith, John"},
	}
	appearances := []club.Appearance{
		{ID: 201, PlayerID: 3, MatchID: 10, Position: 9},
		{ID: 200, PlayerID: 2, MatchID: 10, Position: 9},
	}

	plan, err := merge.BuildPlan(players, appearances, 1, []int64{2, 3})
	require.NoError(t, err)
	require.Equal(t, []int64{200}, plan.ReassignIDs)
	require.Equal(t, []int64{201}, plan.DropIDs)
}

// seedStore ingests two matches where the same person appears under two
// spellings, producing two player records to merge.
func seedStore(t *testing.T) (*store.MemoryStore, club.Player, club.Player) {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemoryStore()

	m1 := club.Match{Season: "2023/24", Opposition: "Camberley", Result: "W"}
	created, err := st.CreateMatch(ctx, &m1, []store.SheetEntry{
		{Name: "John Smith", Key: "john smith", Position: 9},
		{Name: "Ed Notley", Key: "ed notley", Position: 10},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	john := created[0]

	m2 := club.Match{Season: "2023/24", Opposition: "Old Alleynians", Result: "L"}
	created, err = st.CreateMatch(ctx, &m2, []store.SheetEntry{
		{Name: "Jon Smith", Key: "jon smith", Position: 9},
		{Name: "Ed Notley", Key: "ed notley", Position: 10},
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	jon := created[0]

	return st, john, jon
}

func TestEngineMerge(t *testing.T) {
	ctx := context.Background()
	st, john, jon := seedStore(t)

	engine := merge.NewEngine(st, discard)
	result, err := engine.Merge(ctx, john.ID, []int64{jon.ID})
	require.NoError(t, err)
	require.Equal(t, john, result.Canonical)
	require.Equal(t, 1, result.PlayersMerged)
	require.Equal(t, 1, result.Reassigned)
	require.Empty(t, result.DroppedAppearanceIDs)

	// Loser record is gone and all appearances point at the canonical.
	snap, err := st.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Players, 2) // John Smith and Ed Notley
	for _, p := range snap.Players {
		require.NotEqual(t, jon.ID, p.ID)
	}
	johnApps := 0
	for _, a := range snap.Appearances {
		require.NotEqual(t, jon.ID, a.PlayerID)
		if a.PlayerID == john.ID {
			johnApps++
		}
	}
	require.Equal(t, 2, johnApps)
}

func TestEngineMergeConflictDrops(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	// Both spellings appear in the same match. After merging, the canonical
	// keeps its own row and the loser's colliding row is dropped.
	m := club.Match{Season: "2023/24", Opposition: "Camberley", Result: "W"}
	created, err := st.CreateMatch(ctx, &m, []store.SheetEntry{
		{Name: "John Smith", Key: "john smith", Position: 9},
		{Name: "Jon Smith", Key: "jon smith", Position: 9},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	john, jon := created[0], created[1]

	engine := merge.NewEngine(st, discard)
	result, err := engine.Merge(ctx, john.ID, []int64{jon.ID})
	require.NoError(t, err)
	require.Equal(t, 0, result.Reassigned)
	require.Len(t, result.DroppedAppearanceIDs, 1)

	snap, err := st.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Appearances, 1)
	require.Equal(t, john.ID, snap.Appearances[0].PlayerID)
}

func TestEngineMergeAtomic(t *testing.T) {
	ctx := context.Background()
	st, john, jon := seedStore(t)
	st.FailOnReassign = 1

	before, err := st.Snapshot(ctx)
	require.NoError(t, err)

	engine := merge.NewEngine(st, discard)
	_, err = engine.Merge(ctx, john.ID, []int64{jon.ID})
	require.ErrorIs(t, err, store.ErrSimulatedFailure)

	// Nothing was applied: players and appearances are untouched.
	after, err := st.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestEngineMergeValidationSurfaces(t *testing.T) {
	ctx := context.Background()
	st, john, _ := seedStore(t)

	engine := merge.NewEngine(st, discard)

	_, err := engine.Merge(ctx, john.ID, []int64{john.ID})
	var invalid *club.InvalidMergeError
	require.ErrorAs(t, err, &invalid)

	_, err = engine.Merge(ctx, john.ID, []int64{9999})
	var notFound *club.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
