// Package stats computes read-only views over the club collection. Every
// view is recomputed from a fresh snapshot; results always equal a direct
// recomputation over the current appearance rows.
package stats

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/guildfordrfc/teamsheet-data/internal/club"
	"github.com/guildfordrfc/teamsheet-data/internal/namekey"
	"github.com/guildfordrfc/teamsheet-data/internal/teamsheet"
)

// LeaderboardEntry is one row of the appearance leaderboard. Matches counts
// distinct matches — a player covering two positions in one match (a
// substitution row) is still one game played. Starts and Bench count
// appearance rows by shirt number.
type LeaderboardEntry struct {
	Player  club.Player `json:"player"`
	Matches int         `json:"matches"`
	Starts  int         `json:"starts"`
	Bench   int         `json:"bench"`
}

// ShirtCount is the usage of one shirt number.
type ShirtCount struct {
	Position int     `json:"position"`
	Count    int     `json:"count"`
	Pct      float64 `json:"pct"`
}

// Leaderboard ranks every player by distinct matches played, descending,
// ties broken by canonical name ascending. Players with no appearances are
// included with zero counts.
func Leaderboard(snap *club.Snapshot, schema teamsheet.PositionSchema) []LeaderboardEntry {
	entries := make(map[int64]*LeaderboardEntry, len(snap.Players))
	for _, p := range snap.Players {
		entries[p.ID] = &LeaderboardEntry{Player: p}
	}

	type playerMatch struct{ player, match int64 }
	seen := make(map[playerMatch]bool)
	for _, a := range snap.Appearances {
		e, ok := entries[a.PlayerID]
		if !ok {
			continue
		}
		if pm := (playerMatch{a.PlayerID, a.MatchID}); !seen[pm] {
			seen[pm] = true
			e.Matches++
		}
		if a.Position >= 1 && a.Position <= schema.Starters {
			e.Starts++
		} else {
			e.Bench++
		}
	}

	out := make([]LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Matches != out[j].Matches {
			return out[i].Matches > out[j].Matches
		}
		return namekey.Canonical(out[i].Player.Name) < namekey.Canonical(out[j].Player.Name)
	})
	return out
}

// SeasonSummary is the aggregate view of one season.
type SeasonSummary struct {
	Season           string             `json:"season"`
	Matches          []club.Match       `json:"matches"` // sorted by date
	TotalMatches     int                `json:"total_matches"`
	Wins             int                `json:"wins"`
	Draws            int                `json:"draws"`
	Losses           int                `json:"losses"`
	WinPct           float64            `json:"win_pct"`
	PointsFor        int                `json:"points_for"`
	PointsAgainst    int                `json:"points_against"`
	AvgPointsFor     float64            `json:"avg_points_for"`
	AvgPointsAgainst float64            `json:"avg_points_against"`
	PlayersUsed      int                `json:"players_used"`
	Debutants        []string           `json:"debutants"`
	Leavers          []string           `json:"leavers"`
	PreviousSeason   string             `json:"previous_season,omitempty"`
	ShirtDist        []ShirtCount       `json:"shirt_distribution"`
	Leaderboard      []LeaderboardEntry `json:"leaderboard"`
}

// SeasonView computes the summary for one season key. An unknown season
// returns *club.NotFoundError.
func SeasonView(snap *club.Snapshot, season string, schema teamsheet.PositionSchema) (*SeasonSummary, error) {
	var seasonMatches []club.Match
	matchSeason := make(map[int64]string, len(snap.Matches))
	for _, m := range snap.Matches {
		matchSeason[m.ID] = m.Season
		if m.Season == season {
			seasonMatches = append(seasonMatches, m)
		}
	}
	if len(seasonMatches) == 0 {
		return nil, &club.NotFoundError{Kind: "season", Key: season}
	}
	sort.Slice(seasonMatches, func(i, j int) bool {
		return seasonMatches[i].Date.Before(seasonMatches[j].Date)
	})

	s := &SeasonSummary{Season: season, Matches: seasonMatches, TotalMatches: len(seasonMatches)}
	inSeason := make(map[int64]bool, len(seasonMatches))
	for _, m := range seasonMatches {
		inSeason[m.ID] = true
		switch m.Result {
		case "W":
			s.Wins++
		case "D":
			s.Draws++
		default:
			s.Losses++
		}
		s.PointsFor += m.ClubPoints
		s.PointsAgainst += m.OppositionPoints
	}
	s.WinPct = 100 * float64(s.Wins) / float64(s.TotalMatches)
	s.AvgPointsFor = float64(s.PointsFor) / float64(s.TotalMatches)
	s.AvgPointsAgainst = float64(s.PointsAgainst) / float64(s.TotalMatches)

	// Season-scoped sub-snapshot drives the leaderboard with the same
	// counting rule as the global one.
	sub := &club.Snapshot{Matches: seasonMatches}
	seasonPlayerIDs := make(map[int64]bool)
	shirtCounts := make(map[int]int)
	totalShirts := 0
	for _, a := range snap.Appearances {
		if !inSeason[a.MatchID] {
			continue
		}
		sub.Appearances = append(sub.Appearances, a)
		seasonPlayerIDs[a.PlayerID] = true
		shirtCounts[a.Position]++
		totalShirts++
	}
	for _, p := range snap.Players {
		if seasonPlayerIDs[p.ID] {
			sub.Players = append(sub.Players, p)
		}
	}
	s.PlayersUsed = len(sub.Players)
	s.Leaderboard = Leaderboard(sub, schema)

	for pos, n := range shirtCounts {
		s.ShirtDist = append(s.ShirtDist, ShirtCount{
			Position: pos,
			Count:    n,
			Pct:      100 * float64(n) / float64(totalShirts),
		})
	}
	sort.Slice(s.ShirtDist, func(i, j int) bool { return s.ShirtDist[i].Position < s.ShirtDist[j].Position })

	// Debutants: earliest appearance across all recorded history falls in
	// this season. Earliest is by match date, match ID breaking date ties.
	first := firstMatchByPlayer(snap)
	names := make(map[int64]string, len(snap.Players))
	for _, p := range snap.Players {
		names[p.ID] = p.Name
	}
	for id := range seasonPlayerIDs {
		if m, ok := first[id]; ok && m.Season == season {
			s.Debutants = append(s.Debutants, names[id])
		}
	}
	sort.Strings(s.Debutants)

	// Leavers: appeared in the previous season but not in this one.
	s.PreviousSeason = previousSeason(Seasons(snap), season)
	if s.PreviousSeason != "" {
		prevPlayers := make(map[int64]bool)
		for _, a := range snap.Appearances {
			if matchSeason[a.MatchID] == s.PreviousSeason {
				prevPlayers[a.PlayerID] = true
			}
		}
		for id := range prevPlayers {
			if !seasonPlayerIDs[id] {
				s.Leavers = append(s.Leavers, names[id])
			}
		}
		sort.Strings(s.Leavers)
	}

	return s, nil
}

// MatchAppearance is one match a player featured in, with every position
// they covered that day.
type MatchAppearance struct {
	Match     club.Match `json:"match"`
	Positions []int      `json:"positions"`
}

// PlayerSummary is the per-player view.
type PlayerSummary struct {
	Player      club.Player       `json:"player"`
	Total       int               `json:"total"` // distinct matches
	Starts      int               `json:"starts"`
	Bench       int               `json:"bench"`
	Wins        int               `json:"wins"`
	WinPct      float64           `json:"win_pct"`
	FirstDate   *time.Time        `json:"first_date,omitempty"`
	LastDate    *time.Time        `json:"last_date,omitempty"`
	ByShirt     []ShirtCount      `json:"by_shirt"`
	Appearances []MatchAppearance `json:"appearances"` // date ascending
}

// PlayerView computes the career view for one player. An unknown identifier
// returns *club.NotFoundError; a player with no appearances reports zeros.
func PlayerView(snap *club.Snapshot, playerID int64, schema teamsheet.PositionSchema) (*PlayerSummary, error) {
	var player *club.Player
	for i := range snap.Players {
		if snap.Players[i].ID == playerID {
			player = &snap.Players[i]
			break
		}
	}
	if player == nil {
		return nil, &club.NotFoundError{Kind: "player", ID: playerID}
	}

	matches := make(map[int64]club.Match, len(snap.Matches))
	for _, m := range snap.Matches {
		matches[m.ID] = m
	}

	s := &PlayerSummary{Player: *player}
	positions := make(map[int64][]int)
	shirtCounts := make(map[int]int)
	totalRows := 0
	for _, a := range snap.Appearances {
		if a.PlayerID != playerID {
			continue
		}
		positions[a.MatchID] = append(positions[a.MatchID], a.Position)
		shirtCounts[a.Position]++
		totalRows++
		if a.Position >= 1 && a.Position <= schema.Starters {
			s.Starts++
		} else {
			s.Bench++
		}
	}

	for matchID, pos := range positions {
		m, ok := matches[matchID]
		if !ok {
			continue
		}
		sort.Ints(pos)
		s.Appearances = append(s.Appearances, MatchAppearance{Match: m, Positions: pos})
	}
	sort.Slice(s.Appearances, func(i, j int) bool {
		if !s.Appearances[i].Match.Date.Equal(s.Appearances[j].Match.Date) {
			return s.Appearances[i].Match.Date.Before(s.Appearances[j].Match.Date)
		}
		return s.Appearances[i].Match.ID < s.Appearances[j].Match.ID
	})

	s.Total = len(s.Appearances)
	for _, ma := range s.Appearances {
		if ma.Match.Result == "W" {
			s.Wins++
		}
	}
	if s.Total > 0 {
		s.WinPct = 100 * float64(s.Wins) / float64(s.Total)
		first := s.Appearances[0].Match.Date
		last := s.Appearances[len(s.Appearances)-1].Match.Date
		s.FirstDate, s.LastDate = &first, &last
	}

	for pos, n := range shirtCounts {
		s.ByShirt = append(s.ByShirt, ShirtCount{
			Position: pos,
			Count:    n,
			Pct:      100 * float64(n) / float64(totalRows),
		})
	}
	sort.Slice(s.ByShirt, func(i, j int) bool { return s.ByShirt[i].Position < s.ByShirt[j].Position })

	return s, nil
}

// Seasons lists the distinct season keys, most recent first. Ordering parses
// the leading four-digit year ("2023/24" → 2023) descending; labels without
// one sort last, lexicographically.
func Seasons(snap *club.Snapshot) []string {
	seen := make(map[string]bool)
	var seasons []string
	for _, m := range snap.Matches {
		if m.Season != "" && !seen[m.Season] {
			seen[m.Season] = true
			seasons = append(seasons, m.Season)
		}
	}
	sort.Slice(seasons, func(i, j int) bool {
		yi, oki := seasonYear(seasons[i])
		yj, okj := seasonYear(seasons[j])
		switch {
		case oki && okj:
			if yi != yj {
				return yi > yj
			}
			return seasons[i] < seasons[j]
		case oki:
			return true
		case okj:
			return false
		default:
			return seasons[i] < seasons[j]
		}
	})
	return seasons
}

func seasonYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return 0, false
	}
	y, err := strconv.Atoi(s[:4])
	if err != nil {
		return 0, false
	}
	return y, true
}

// previousSeason returns the season immediately before the given one in the
// most-recent-first ordering, or "" when it is the earliest on record.
func previousSeason(ordered []string, season string) string {
	for i, s := range ordered {
		if s == season && i+1 < len(ordered) {
			return ordered[i+1]
		}
	}
	return ""
}

// firstMatchByPlayer maps each player to the earliest match they appeared
// in, by date then match ID.
func firstMatchByPlayer(snap *club.Snapshot) map[int64]club.Match {
	matches := make(map[int64]club.Match, len(snap.Matches))
	for _, m := range snap.Matches {
		matches[m.ID] = m
	}
	first := make(map[int64]club.Match)
	for _, a := range snap.Appearances {
		m, ok := matches[a.MatchID]
		if !ok {
			continue
		}
		cur, ok := first[a.PlayerID]
		if !ok || m.Date.Before(cur.Date) || (m.Date.Equal(cur.Date) && m.ID < cur.ID) {
			first[a.PlayerID] = m
		}
	}
	return first
}
