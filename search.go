package gazetteer

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// minQueryLen is the shortest query, in characters, Search accepts.
const minQueryLen = 2

// SearchHit is one record matched by Search. AltName is set when the record
// matched through an alias rather than its primary name.
type SearchHit struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AltName    string `json:"alt_name,omitempty"`
	Population int64  `json:"population"`
}

// SearchResult is the ranked, truncated outcome of Search. Found counts every
// match before truncation.
type SearchResult struct {
	Query   string      `json:"query"`
	Found   int         `json:"found"`
	Results []SearchHit `json:"results"`
}

// Search finds records whose name, or failing that one of whose aliases,
// starts with query (case-insensitive). Each record contributes at most one
// hit. Hits are ordered by population descending, ties kept in file order,
// and truncated to the configured limit.
func (g *Gazetteer) Search(query string) (SearchResult, error) {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < minQueryLen {
		return SearchResult{}, &ValidationError{
			Field:   "q",
			Message: "Query should be at least 2 characters long",
		}
	}
	q = toLower(q)

	var hits []SearchHit
	for i := range g.records {
		if hit, ok := g.matchPrefix(i, q); ok {
			hits = append(hits, hit)
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Population > hits[j].Population
	})

	res := SearchResult{Query: q, Found: len(hits), Results: []SearchHit{}}
	if len(hits) > g.config.SearchLimit {
		hits = hits[:g.config.SearchLimit]
	}
	res.Results = append(res.Results, hits...)
	return res, nil
}

// matchPrefix checks record i against the lowercased query q.
func (g *Gazetteer) matchPrefix(i int, q string) (SearchHit, bool) {
	r := &g.records[i]
	f := &g.folded[i]

	if strings.HasPrefix(f.name, q) {
		return SearchHit{ID: r.ID, Name: r.Name, Population: r.Population}, true
	}
	for j, alias := range f.aliases {
		if strings.HasPrefix(alias, q) {
			return SearchHit{
				ID:         r.ID,
				Name:       r.Name,
				AltName:    r.AlternateNames[j],
				Population: r.Population,
			}, true
		}
	}
	return SearchHit{}, false
}
