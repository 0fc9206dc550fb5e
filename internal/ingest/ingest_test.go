package ingest_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/guildfordrfc/teamsheet-data/internal/club"
	"github.com/guildfordrfc/teamsheet-data/internal/ingest"
	"github.com/guildfordrfc/teamsheet-data/internal/store"
	"github.com/guildfordrfc/teamsheet-data/internal/teamsheet"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newService(st store.Store, strict bool) *ingest.Service {
	return ingest.New(st, ingest.Options{
		Schema:    teamsheet.DefaultSchema,
		Threshold: 0.85,
		Strict:    strict,
	}, discard)
}

func TestIngestSheet(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := newService(st, false)

	result, err := svc.IngestSheet(ctx,
		"2023/24,09/09/2023,Old Alleynians,Home,Win,24,17,Tom Baker,Sam Hill,Ed Notley",
		"London 1 South")
	require.NoError(t, err)

	require.NotZero(t, result.Match.ID)
	require.Equal(t, "London 1 South", result.Match.League)
	require.Equal(t, "W", result.Match.Result)
	require.Equal(t, 3, result.Appearances)
	require.Len(t, result.CreatedPlayers, 3)
	require.Empty(t, result.Warnings)

	snap, err := st.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Matches, 1)
	require.Len(t, snap.Players, 3)
	require.Len(t, snap.Appearances, 3)
}

func TestIngestSheetResolvesExistingPlayers(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := newService(st, false)

	_, err := svc.IngestSheet(ctx,
		"2023/24,09/09/2023,Old Alleynians,Home,W,24,17,Tom Baker,Sam Hill", "")
	require.NoError(t, err)

	// Second sheet: "Baker, Tom" folds to the same key as "Tom Baker", so
	// only the new name creates a player.
	result, err := svc.IngestSheet(ctx,
		"2023/24,16/09/2023,Camberley,Away,L,12,31,\"Baker, Tom\",Ed Notley", "")
	require.NoError(t, err)
	require.Len(t, result.CreatedPlayers, 1)
	require.Equal(t, "Ed Notley", result.CreatedPlayers[0].Name)

	snap, err := st.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Players, 3)
}

func TestIngestSheetWarnsOnFuzzyMatch(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := newService(st, false)

	_, err := svc.IngestSheet(ctx,
		"2023/24,09/09/2023,Old Alleynians,Home,W,24,17,John Smith", "")
	require.NoError(t, err)

	// "Jon Smith" is a new key but suspiciously close to an existing player.
	// The sheet still lands; the warning is advisory.
	result, err := svc.IngestSheet(ctx,
		"2023/24,16/09/2023,Camberley,Away,L,12,31,Jon Smith", "")
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	require.Equal(t, "Jon Smith", result.Warnings[0].Name)
	require.Equal(t, "John Smith", result.Warnings[0].BestMatch)
	require.InDelta(t, 0.9, result.Warnings[0].Score, 1e-9)

	snap, err := st.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Players, 2)
}

func TestIngestSheetStrictMode(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := newService(st, true)

	_, err := svc.IngestSheet(ctx,
		"2023/24,09/09/2023,Old Alleynians,Home,W,24,17,John Smith", "")
	require.NoError(t, err)

	_, err = svc.IngestSheet(ctx,
		"2023/24,16/09/2023,Camberley,Away,L,12,31,Jon Smith", "")
	var strictErr *ingest.StrictIngestError
	require.ErrorAs(t, err, &strictErr)
	require.Len(t, strictErr.Warnings, 1)

	// Nothing was written.
	snap, err := st.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Matches, 1)
	require.Len(t, snap.Players, 1)
}

func TestIngestSheetRejectsInSheetDuplicates(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := newService(st, false)

	_, err := svc.IngestSheet(ctx,
		"2023/24,09/09/2023,Oppo,Home,W,10,0,Tom Baker,\"Baker, Tom\"", "")
	var malformed *club.MalformedInputError
	require.ErrorAs(t, err, &malformed)

	snap, err := st.Snapshot(ctx)
	require.NoError(t, err)
	require.Empty(t, snap.Matches)
}

func TestIngestSheetRejectsEmptyName(t *testing.T) {
	ctx := context.Background()
	svc := newService(store.NewMemoryStore(), false)

	// "..." survives CSV parsing as a non-blank field but normalizes away.
	_, err := svc.IngestSheet(ctx,
		"2023/24,09/09/2023,Oppo,Home,W,10,0,...", "")
	var malformed *club.MalformedInputError
	require.ErrorAs(t, err, &malformed)
}

func TestIngestSheetParseErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	svc := newService(store.NewMemoryStore(), false)

	_, err := svc.IngestSheet(ctx, "2023/24,not a date,Oppo,Home,W,10,0,A Player", "")
	var malformed *club.MalformedInputError
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, "date", malformed.Field)
}

func TestReplaceSheet(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := newService(st, false)

	first, err := svc.IngestSheet(ctx,
		"2023/24,09/09/2023,Old Alleynians,Home,W,24,17,Tom Baker,Sam Hill", "")
	require.NoError(t, err)

	// Corrected sheet: fixed score, one lineup change.
	result, err := svc.ReplaceSheet(ctx, first.Match.ID,
		"2023/24,09/09/2023,Old Alleynians,Home,W,26,17,Tom Baker,Ed Notley", "")
	require.NoError(t, err)
	require.Equal(t, first.Match.ID, result.Match.ID)
	require.Equal(t, 26, result.Match.ClubPoints)
	require.Len(t, result.CreatedPlayers, 1)

	snap, err := st.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Matches, 1)
	require.Equal(t, 26, snap.Matches[0].ClubPoints)
	require.Len(t, snap.Appearances, 2)
	// Sam Hill's record survives even though the replacement drops the row.
	require.Len(t, snap.Players, 3)
}

func TestReplaceSheetUnknownMatch(t *testing.T) {
	ctx := context.Background()
	svc := newService(store.NewMemoryStore(), false)

	_, err := svc.ReplaceSheet(ctx, 404,
		"2023/24,09/09/2023,Oppo,Home,W,10,0,A Player", "")
	var notFound *club.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
