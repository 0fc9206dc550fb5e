package dedupe

import (
	"sort"

	"github.com/guildfordrfc/teamsheet-data/internal/club"
	"github.com/guildfordrfc/teamsheet-data/internal/namekey"
)

// Match is the result of checking one candidate name against the existing
// population.
type Match struct {
	IsDuplicate bool    `json:"is_duplicate"`
	Score       float64 `json:"score"`
	BestMatch   string  `json:"best_match,omitempty"`
}

// Check scores a candidate name against a set of existing names and reports
// the best match. Names are canonicalized before scoring; an exact canonical
// match is a definite duplicate regardless of threshold. This is the
// incremental path used at ingestion, avoiding a full population rescan.
func Check(candidate string, existing []string, threshold float64, scorer Scorer) Match {
	key := namekey.Canonical(candidate)
	if key == "" {
		return Match{}
	}

	var best Match
	for _, name := range existing {
		other := namekey.Canonical(name)
		if other == "" {
			continue
		}
		if other == key {
			return Match{IsDuplicate: true, Score: 1, BestMatch: name}
		}
		if s := scorer.Score(key, other); s > best.Score {
			best.Score = s
			best.BestMatch = name
		}
	}
	best.IsDuplicate = best.Score >= threshold
	if !best.IsDuplicate {
		best.BestMatch = ""
	}
	return best
}

// Pair records one scored pair within a group.
type Pair struct {
	A     string  `json:"a"`
	B     string  `json:"b"`
	Score float64 `json:"score"`
}

// Group is a cluster of players proposed as one identity, with the pairwise
// scores that linked them.
type Group struct {
	Players []club.Player `json:"players"`
	Pairs   []Pair        `json:"pairs"`
}

// FindGroups clusters the full player population into candidate-duplicate
// groups. Players whose canonical keys are equal are always grouped; other
// pairs join a group when their score meets the threshold. Clustering is
// transitive (union-find), so "jon smith" ~ "john smith" ~ "john smyth" can
// land in one group even if the outer pair scores below threshold.
func FindGroups(players []club.Player, threshold float64, scorer Scorer) []Group {
	keys := make([]string, len(players))
	for i, p := range players {
		keys[i] = namekey.Canonical(p.Name)
	}

	parent := make([]int, len(players))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(i, j int) {
		parent[find(i)] = find(j)
	}

	type scored struct {
		i, j  int
		score float64
	}
	var links []scored
	for i := 0; i < len(players); i++ {
		if keys[i] == "" {
			continue
		}
		for j := i + 1; j < len(players); j++ {
			if keys[j] == "" {
				continue
			}
			var s float64
			if keys[i] == keys[j] {
				s = 1 // definite, threshold does not apply
			} else {
				s = scorer.Score(keys[i], keys[j])
				if s < threshold {
					continue
				}
			}
			union(i, j)
			links = append(links, scored{i, j, s})
		}
	}

	members := make(map[int][]int)
	for i := range players {
		root := find(i)
		members[root] = append(members[root], i)
	}

	var groups []Group
	for _, idxs := range members {
		if len(idxs) < 2 {
			continue
		}
		sort.Slice(idxs, func(a, b int) bool {
			return players[idxs[a]].Name < players[idxs[b]].Name
		})
		g := Group{}
		for _, i := range idxs {
			g.Players = append(g.Players, players[i])
		}
		for _, l := range links {
			if find(l.i) == find(idxs[0]) {
				g.Pairs = append(g.Pairs, Pair{
					A:     players[l.i].Name,
					B:     players[l.j].Name,
					Score: l.score,
				})
			}
		}
		groups = append(groups, g)
	}

	sort.Slice(groups, func(a, b int) bool {
		return groups[a].Players[0].Name < groups[b].Players[0].Name
	})
	return groups
}
