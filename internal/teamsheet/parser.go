// Package teamsheet parses raw teamsheet text into match metadata plus an
// ordered list of (position, name) slots.
//
// Two input shapes are accepted:
//
//	single CSV line:  season,date,opposition,location,result,for,against,name1,name2,...
//	multi-line block: the same metadata line first, then one line per player,
//	                  either "position,name" or a bare name (positions then
//	                  follow line order).
//
// The league is not part of the row format; callers set it on the returned
// metadata when the source provides one.
package teamsheet

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/guildfordrfc/teamsheet-data/internal/club"
)

// metaFields is the fixed metadata width of the first row.
const metaFields = 7

// PositionSchema describes the shirt numbering in use. Starters 1..Starters
// are starting positions, Starters+1..SquadSize the bench. Position 0 is the
// unpositioned sentinel, accepted only when AllowUnassigned is set.
type PositionSchema struct {
	Starters        int
	SquadSize       int
	AllowUnassigned bool
}

// DefaultSchema is the standard rugby union numbering: 15 starters, shirts
// up to 22, unpositioned entries allowed.
var DefaultSchema = PositionSchema{Starters: 15, SquadSize: 22, AllowUnassigned: true}

// Valid reports whether p is a usable position under the schema.
func (s PositionSchema) Valid(p int) bool {
	if p == club.PositionUnassigned {
		return s.AllowUnassigned
	}
	return p >= 1 && p <= s.SquadSize
}

// MatchMeta is the parsed match metadata from the first row.
type MatchMeta struct {
	League           string
	Season           string
	Date             time.Time
	Opposition       string
	Location         string
	Result           string // "W", "D", "L"
	ClubPoints       int
	OppositionPoints int
}

// Slot is one named position on the sheet. Empty slots never appear here;
// whitespace-only fields are skipped during parsing.
type Slot struct {
	Position int
	Name     string
}

// Sheet is the parsed form of one logical teamsheet unit.
type Sheet struct {
	Meta  MatchMeta
	Slots []Slot
}

// dateFormats are tried in order, matching the club's historical data entry
// conventions (UK day-first, then ISO).
var dateFormats = []string{"02/01/2006", "02/01/06", "2006-01-02"}

// Parse converts raw teamsheet text into a Sheet. Malformed rows return
// *club.MalformedInputError naming the offending line and field; the parser
// never coerces or guesses.
func Parse(raw string, schema PositionSchema) (*Sheet, error) {
	r := csv.NewReader(strings.NewReader(raw))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, &club.MalformedInputError{Line: 1, Reason: err.Error()}
	}

	// Drop fully blank records (trailing newlines and spacer lines).
	rows := records[:0]
	for _, rec := range records {
		if strings.TrimSpace(strings.Join(rec, "")) != "" {
			rows = append(rows, rec)
		}
	}
	if len(rows) == 0 {
		return nil, &club.MalformedInputError{Line: 1, Reason: "empty teamsheet"}
	}

	meta, err := parseMeta(rows[0])
	if err != nil {
		return nil, err
	}

	sheet := &Sheet{Meta: *meta}
	if len(rows) == 1 {
		// Single-line form: names trail the metadata, positions follow
		// column order.
		if err := parseInlineNames(sheet, rows[0][metaFields:], schema); err != nil {
			return nil, err
		}
		return sheet, nil
	}

	// Block form: the metadata row carries no names; player rows follow.
	if len(rows[0]) > metaFields {
		return nil, &club.MalformedInputError{
			Line: 1, Field: "metadata",
			Reason: fmt.Sprintf("expected %d metadata fields before player lines, got %d", metaFields, len(rows[0])),
		}
	}
	if err := parseBlockNames(sheet, rows[1:], schema); err != nil {
		return nil, err
	}
	return sheet, nil
}

func parseMeta(rec []string) (*MatchMeta, error) {
	if len(rec) < metaFields {
		return nil, &club.MalformedInputError{
			Line: 1, Field: "metadata",
			Reason: fmt.Sprintf("expected at least %d fields (season,date,opposition,location,result,for,against), got %d", metaFields, len(rec)),
		}
	}

	meta := &MatchMeta{
		Season:     strings.TrimSpace(rec[0]),
		Opposition: strings.TrimSpace(rec[2]),
		Location:   strings.TrimSpace(rec[3]),
	}
	if meta.Season == "" {
		return nil, &club.MalformedInputError{Line: 1, Field: "season", Reason: "season is required"}
	}

	date, ok := parseDate(rec[1])
	if !ok {
		return nil, &club.MalformedInputError{
			Line: 1, Field: "date",
			Reason: fmt.Sprintf("unrecognized date %q (want dd/mm/yyyy or yyyy-mm-dd)", strings.TrimSpace(rec[1])),
		}
	}
	meta.Date = date

	result, ok := parseResult(rec[4])
	if !ok {
		return nil, &club.MalformedInputError{
			Line: 1, Field: "result",
			Reason: fmt.Sprintf("unrecognized result %q (want W, D, or L)", strings.TrimSpace(rec[4])),
		}
	}
	meta.Result = result

	for _, f := range []struct {
		name  string
		value string
		dst   *int
	}{
		{"for", rec[5], &meta.ClubPoints},
		{"against", rec[6], &meta.OppositionPoints},
	} {
		n, err := strconv.Atoi(strings.TrimSpace(f.value))
		if err != nil || n < 0 {
			return nil, &club.MalformedInputError{
				Line: 1, Field: f.name,
				Reason: fmt.Sprintf("score %q must be a non-negative integer", strings.TrimSpace(f.value)),
			}
		}
		*f.dst = n
	}

	return meta, nil
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseResult maps result spellings onto the W/D/L codes. Historical sheets
// write "Win"/"Draw"/"Loss" in full; anything else is rejected.
func parseResult(s string) (string, bool) {
	switch v := strings.ToLower(strings.TrimSpace(s)); {
	case v == "w" || strings.HasPrefix(v, "win"):
		return "W", true
	case v == "d" || strings.HasPrefix(v, "draw"):
		return "D", true
	case v == "l" || strings.HasPrefix(v, "loss") || strings.HasPrefix(v, "lost"):
		return "L", true
	default:
		return "", false
	}
}

func parseInlineNames(sheet *Sheet, fields []string, schema PositionSchema) error {
	for i, f := range fields {
		pos := i + 1
		name := strings.TrimSpace(f)
		if name == "" {
			continue // empty slot, not an error even past the squad size
		}
		if pos > schema.SquadSize {
			return &club.MalformedInputError{
				Line: 1, Field: fmt.Sprintf("player%d", pos),
				Reason: fmt.Sprintf("position %d exceeds squad size %d", pos, schema.SquadSize),
			}
		}
		sheet.Slots = append(sheet.Slots, Slot{Position: pos, Name: name})
	}
	return nil
}

func parseBlockNames(sheet *Sheet, rows [][]string, schema PositionSchema) error {
	seen := make(map[int]bool)
	next := 1
	for i, rec := range rows {
		line := i + 2

		var pos int
		var name string
		switch {
		case len(rec) >= 2 && isInt(rec[0]):
			n, _ := strconv.Atoi(strings.TrimSpace(rec[0]))
			pos = n
			// An unquoted "Smith, John" splits across fields here. Rejoin
			// with the comma intact so surname-first spellings normalize
			// the same whether or not the field was quoted.
			name = strings.TrimSpace(strings.Join(rec[1:], ", "))
		case len(rec) == 1:
			pos = next
			name = strings.TrimSpace(rec[0])
		default:
			return &club.MalformedInputError{
				Line: line, Field: "player",
				Reason: fmt.Sprintf("expected \"position,name\" or a bare name, got %d fields", len(rec)),
			}
		}

		if name == "" {
			next = pos + 1
			continue
		}
		if !schema.Valid(pos) {
			return &club.MalformedInputError{
				Line: line, Field: "position",
				Reason: fmt.Sprintf("position %d outside schema 1..%d", pos, schema.SquadSize),
			}
		}
		if pos != club.PositionUnassigned && seen[pos] {
			return &club.MalformedInputError{
				Line: line, Field: "position",
				Reason: fmt.Sprintf("position %d listed twice", pos),
			}
		}
		seen[pos] = true
		sheet.Slots = append(sheet.Slots, Slot{Position: pos, Name: name})
		next = pos + 1
	}
	return nil
}

func isInt(s string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil
}
