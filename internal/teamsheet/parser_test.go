package teamsheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/guildfordrfc/teamsheet-data/internal/club"
)

func TestParseSingleLine(t *testing.T) {
	raw := "2023/24,09/09/2023,Old Alleynians,Home,Win,24,17,Tom Baker,Sam Hill,,Ed Notley"

	sheet, err := Parse(raw, DefaultSchema)
	require.NoError(t, err)

	require.Equal(t, "2023/24", sheet.Meta.Season)
	require.Equal(t, time.Date(2023, 9, 9, 0, 0, 0, 0, time.UTC), sheet.Meta.Date)
	require.Equal(t, "Old Alleynians", sheet.Meta.Opposition)
	require.Equal(t, "Home", sheet.Meta.Location)
	require.Equal(t, "W", sheet.Meta.Result)
	require.Equal(t, 24, sheet.Meta.ClubPoints)
	require.Equal(t, 17, sheet.Meta.OppositionPoints)

	// Position 3 is blank and must be skipped, not errored.
	require.Equal(t, []Slot{
		{Position: 1, Name: "Tom Baker"},
		{Position: 2, Name: "Sam Hill"},
		{Position: 4, Name: "Ed Notley"},
	}, sheet.Slots)
}

func TestParseSingleLineFullSquad(t *testing.T) {
	raw := "2023/24,09/09/2023,Old Alleynians,Home,W,24,17"
	for i := 1; i <= DefaultSchema.SquadSize; i++ {
		raw += ",Player " + string(rune('A'+i-1))
	}

	sheet, err := Parse(raw, DefaultSchema)
	require.NoError(t, err)
	require.Len(t, sheet.Slots, DefaultSchema.SquadSize)
	require.Equal(t, 1, sheet.Slots[0].Position)
	require.Equal(t, DefaultSchema.SquadSize, sheet.Slots[len(sheet.Slots)-1].Position)
}

func TestParseSingleLineTrailingEmptyFields(t *testing.T) {
	// A full sheet with trailing commas: the empty fields past the squad
	// size are vacant slots, not overflow.
	raw := "2023/24,09/09/2023,Old Alleynians,Home,W,24,17"
	for i := 1; i <= DefaultSchema.SquadSize; i++ {
		raw += ",Player " + string(rune('A'+i-1))
	}
	raw += ",, "

	sheet, err := Parse(raw, DefaultSchema)
	require.NoError(t, err)
	require.Len(t, sheet.Slots, DefaultSchema.SquadSize)
}

func TestParseBlockForm(t *testing.T) {
	raw := `2023/24,16/09/2023,Camberley,Away,Loss,12,31
1,Tom Baker
2,Sam Hill
16,Joe Cole
0,Unknown Sub
`
	sheet, err := Parse(raw, DefaultSchema)
	require.NoError(t, err)
	require.Equal(t, "L", sheet.Meta.Result)
	require.Equal(t, []Slot{
		{Position: 1, Name: "Tom Baker"},
		{Position: 2, Name: "Sam Hill"},
		{Position: 16, Name: "Joe Cole"},
		{Position: 0, Name: "Unknown Sub"},
	}, sheet.Slots)
}

func TestParseBlockFormSurnameFirst(t *testing.T) {
	// Unquoted and quoted surname-first spellings must come out identically,
	// comma intact, so the normalizer's fold applies to both.
	raw := `2023/24,16/09/2023,Camberley,Away,W,20,10
9,Smith, John
10,"Baker, Tom"
`
	sheet, err := Parse(raw, DefaultSchema)
	require.NoError(t, err)
	require.Equal(t, []Slot{
		{Position: 9, Name: "Smith, John"},
		{Position: 10, Name: "Baker, Tom"},
	}, sheet.Slots)
}

func TestParseBlockFormBareNames(t *testing.T) {
	raw := `2023/24,16/09/2023,Camberley,Away,D,12,12
Tom Baker
Sam Hill
Ed Notley
`
	sheet, err := Parse(raw, DefaultSchema)
	require.NoError(t, err)
	// Bare names take positions in line order.
	require.Equal(t, []Slot{
		{Position: 1, Name: "Tom Baker"},
		{Position: 2, Name: "Sam Hill"},
		{Position: 3, Name: "Ed Notley"},
	}, sheet.Slots)
}

func TestParseDateFormats(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"09/09/2023", time.Date(2023, 9, 9, 0, 0, 0, 0, time.UTC)},
		{"09/09/23", time.Date(2023, 9, 9, 0, 0, 0, 0, time.UTC)},
		{"2023-09-09", time.Date(2023, 9, 9, 0, 0, 0, 0, time.UTC)},
		{"25/12/2022", time.Date(2022, 12, 25, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			sheet, err := Parse("2023/24,"+tc.in+",Oppo,Home,W,10,0,A Player", DefaultSchema)
			require.NoError(t, err)
			require.Equal(t, tc.want, sheet.Meta.Date)
		})
	}
}

func TestParseResultSpellings(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"W", "W"}, {"w", "W"}, {"Win", "W"}, {"WIN", "W"},
		{"D", "D"}, {"Draw", "D"},
		{"L", "L"}, {"Loss", "L"}, {"Lost", "L"},
	}
	for _, tc := range tests {
		sheet, err := Parse("2023/24,09/09/2023,Oppo,Home,"+tc.in+",10,0,A Player", DefaultSchema)
		require.NoError(t, err)
		require.Equal(t, tc.want, sheet.Meta.Result, "input %q", tc.in)
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{"empty input", "", ""},
		{"blank lines only", "\n\n  \n", ""},
		{"too few metadata fields", "2023/24,09/09/2023,Oppo", "metadata"},
		{"missing season", ",09/09/2023,Oppo,Home,W,10,0,A Player", "season"},
		{"bad date", "2023/24,Sept 9th,Oppo,Home,W,10,0,A Player", "date"},
		{"bad result", "2023/24,09/09/2023,Oppo,Home,Victory,10,0,A Player", "result"},
		{"non-numeric score", "2023/24,09/09/2023,Oppo,Home,W,ten,0,A Player", "for"},
		{"negative score", "2023/24,09/09/2023,Oppo,Home,W,10,-3,A Player", "against"},
		{
			"block form with trailing names on meta line",
			"2023/24,09/09/2023,Oppo,Home,W,10,0,A Player\n1,B Player\n",
			"metadata",
		},
		{
			"duplicate position in block",
			"2023/24,09/09/2023,Oppo,Home,W,10,0\n1,Tom Baker\n1,Sam Hill\n",
			"position",
		},
		{
			"position outside schema",
			"2023/24,09/09/2023,Oppo,Home,W,10,0\n23,Tom Baker\n",
			"position",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.raw, DefaultSchema)
			require.Error(t, err)
			var malformed *club.MalformedInputError
			require.ErrorAs(t, err, &malformed)
			if tc.field != "" {
				require.Equal(t, tc.field, malformed.Field)
			}
		})
	}
}

func TestParseTooManyInlineNames(t *testing.T) {
	raw := "2023/24,09/09/2023,Oppo,Home,W,10,0"
	for i := 0; i < DefaultSchema.SquadSize+1; i++ {
		raw += ",Someone"
	}
	_, err := Parse(raw, DefaultSchema)
	var malformed *club.MalformedInputError
	require.ErrorAs(t, err, &malformed)
}

func TestParseUnassignedDisallowed(t *testing.T) {
	schema := PositionSchema{Starters: 15, SquadSize: 22, AllowUnassigned: false}
	raw := "2023/24,09/09/2023,Oppo,Home,W,10,0\n0,Mystery Player\n"
	_, err := Parse(raw, schema)
	var malformed *club.MalformedInputError
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, "position", malformed.Field)
}

func TestPositionSchemaValid(t *testing.T) {
	s := DefaultSchema
	require.True(t, s.Valid(1))
	require.True(t, s.Valid(15))
	require.True(t, s.Valid(22))
	require.True(t, s.Valid(0)) // unassigned allowed by default
	require.False(t, s.Valid(23))
	require.False(t, s.Valid(-1))

	s.AllowUnassigned = false
	require.False(t, s.Valid(0))
}
