package gazetteer

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance is the largest edit distance Suggest tolerates.
const maxSuggestDistance = 2

// maxSuggestInputLen keeps Levenshtein cost bounded on hostile input.
const maxSuggestInputLen = 256

type suggestion struct {
	name string
	dist int
	pop  int64
	pos  int
}

// Suggest returns up to limit distinct primary names within a small edit
// distance of name, compared case-insensitively. Closer names come first,
// then more populous ones.
func (g *Gazetteer) Suggest(name string, limit int) []string {
	name = strings.TrimSpace(name)
	if name == "" || limit <= 0 {
		return nil
	}
	if runes := []rune(name); len(runes) > maxSuggestInputLen {
		name = string(runes[:maxSuggestInputLen])
	}
	q := toLower(name)
	qLen := len([]rune(q))

	best := make(map[string]suggestion)
	for i := range g.records {
		f := g.folded[i].name
		// Rune counts differing by more than the threshold cannot match.
		if d := len([]rune(f)) - qLen; d > maxSuggestDistance || d < -maxSuggestDistance {
			continue
		}
		dist := levenshtein.ComputeDistance(q, f)
		if dist > maxSuggestDistance {
			continue
		}
		r := &g.records[i]
		cur, seen := best[r.Name]
		if !seen || dist < cur.dist || (dist == cur.dist && r.Population > cur.pop) {
			best[r.Name] = suggestion{name: r.Name, dist: dist, pop: r.Population, pos: i}
		}
	}

	list := make([]suggestion, 0, len(best))
	for _, s := range best {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.dist != b.dist {
			return a.dist < b.dist
		}
		if a.pop != b.pop {
			return a.pop > b.pop
		}
		return a.pos < b.pos
	})

	if len(list) > limit {
		list = list[:limit]
	}
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.name
	}
	return out
}
