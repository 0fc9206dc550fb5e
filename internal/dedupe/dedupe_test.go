package dedupe

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/guildfordrfc/teamsheet-data/internal/club"
)

func TestLevenshteinScorer(t *testing.T) {
	s := LevenshteinScorer{}

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "john smith", "john smith", 1},
		{"both empty", "", "", 1},
		{"empty vs nonempty", "", "john", 0},
		{"one insertion", "jon smith", "john smith", 0.9},
		{"completely different", "abc", "xyz", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.InDelta(t, tc.want, s.Score(tc.a, tc.b), 1e-9)
		})
	}
}

func TestScorerSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"jon smith", "john smith"},
		{"smith john", "john smith"},
		{"a", "abcdef"},
		{"", "x"},
	}
	for _, scorer := range []Scorer{LevenshteinScorer{}, TokenSortScorer{}} {
		for _, p := range pairs {
			require.InDelta(t, scorer.Score(p[0], p[1]), scorer.Score(p[1], p[0]), 1e-9)
		}
	}
}

func TestTokenSortScorer(t *testing.T) {
	s := TokenSortScorer{}

	// Token reordering alone is a perfect match.
	require.InDelta(t, 1.0, s.Score("smith john", "john smith"), 1e-9)
	// Reorder plus a one-letter difference still scores high.
	require.Greater(t, s.Score("smith jon", "john smith"), 0.85)
}

func TestCheck(t *testing.T) {
	existing := []string{"John Smith", "David Jones", "Ed Notley"}

	t.Run("exact canonical match beats threshold", func(t *testing.T) {
		// Comma spelling folds to the same key, so even an impossible
		// threshold reports a definite duplicate.
		m := Check("Smith, John", existing, 1.1, LevenshteinScorer{})
		require.True(t, m.IsDuplicate)
		require.Equal(t, 1.0, m.Score)
		require.Equal(t, "John Smith", m.BestMatch)
	})

	t.Run("close name above threshold", func(t *testing.T) {
		m := Check("Jon Smith", existing, 0.85, LevenshteinScorer{})
		require.True(t, m.IsDuplicate)
		require.InDelta(t, 0.9, m.Score, 1e-9)
		require.Equal(t, "John Smith", m.BestMatch)
	})

	t.Run("close name below raised threshold", func(t *testing.T) {
		m := Check("Jon Smith", existing, 0.95, LevenshteinScorer{})
		require.False(t, m.IsDuplicate)
		require.Empty(t, m.BestMatch)
	})

	t.Run("unrelated name", func(t *testing.T) {
		m := Check("Zack Quartermain", existing, DefaultThreshold, LevenshteinScorer{})
		require.False(t, m.IsDuplicate)
	})

	t.Run("empty candidate", func(t *testing.T) {
		m := Check("   ", existing, DefaultThreshold, LevenshteinScorer{})
		require.False(t, m.IsDuplicate)
		require.Zero(t, m.Score)
	})

	t.Run("no existing players", func(t *testing.T) {
		m := Check("John Smith", nil, DefaultThreshold, LevenshteinScorer{})
		require.False(t, m.IsDuplicate)
	})
}

func TestFindGroups(t *testing.T) {
	players := []club.Player{
		{ID: 1, Name: "John Smith"},
		{ID: 2, Name: "Jon Smith"},
		{ID: 3, Name: "Smith, John"},
		{ID: 4, Name: "David Jones"},
		{ID: 5, Name: "Ed Notley"},
	}

	groups := FindGroups(players, DefaultThreshold, TokenSortScorer{})
	require.Len(t, groups, 1)

	g := groups[0]
	require.Len(t, g.Players, 3)
	ids := []int64{g.Players[0].ID, g.Players[1].ID, g.Players[2].ID}
	require.ElementsMatch(t, []int64{1, 2, 3}, ids)
	require.NotEmpty(t, g.Pairs)
}

func TestFindGroupsExactKeyIgnoresThreshold(t *testing.T) {
	players := []club.Player{
		{ID: 1, Name: "John Smith"},
		{ID: 2, Name: "Smith, John"},
	}
	// Threshold above 1 blocks every fuzzy pair; equal keys still group.
	groups := FindGroups(players, 1.1, TokenSortScorer{})
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Players, 2)
	require.Equal(t, 1.0, groups[0].Pairs[0].Score)
}

func TestFindGroupsTransitive(t *testing.T) {
	// A~B and B~C link all three even if A~C alone scores lower.
	players := []club.Player{
		{ID: 1, Name: "John Smith"},
		{ID: 2, Name: "Jon Smith"},
		{ID: 3, Name: "Jon Smyth"},
	}
	groups := FindGroups(players, 0.85, LevenshteinScorer{})
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Players, 3)
}

func TestFindGroupsNoDuplicates(t *testing.T) {
	players := []club.Player{
		{ID: 1, Name: "John Smith"},
		{ID: 2, Name: "David Jones"},
	}
	require.Empty(t, FindGroups(players, DefaultThreshold, TokenSortScorer{}))
	require.Empty(t, FindGroups(nil, DefaultThreshold, TokenSortScorer{}))
}
