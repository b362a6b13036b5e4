// Package gazetteer answers lookup queries against a geonames-style city
// dataset held entirely in memory: fetch by id, paginated listing, prefix name
// search with alias resolution, and pairwise comparison.
//
// A Gazetteer is built once (see Load, LoadFile and New) and is immutable
// afterwards, so it is safe for concurrent use without locking.
package gazetteer

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang/geo/s2"
	"github.com/rs/zerolog"
)

const (
	defaultSearchLimit = 20
	defaultMaxPerPage  = 100
)

// Config contains the options a Gazetteer is built with.
type Config struct {
	Logger      zerolog.Logger   // Receives the load summary (default: no-op)
	Clock       func() time.Time // "Now" used for timezone offsets (default: time.Now)
	SearchLimit int              // Max results returned by Search (default: 20)
	MaxPerPage  int              // Upper clamp for List page size (default: 100)
}

// Option is a functional option for configuring a Gazetteer.
type Option func(*Config)

// WithLogger sets the logger used while loading.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithClock overrides the clock used to evaluate timezone offsets.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		if now != nil {
			c.Clock = now
		}
	}
}

// WithSearchLimit sets how many ranked matches Search returns.
func WithSearchLimit(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.SearchLimit = n
		}
	}
}

// WithMaxPerPage sets the upper bound List clamps perPage to.
func WithMaxPerPage(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxPerPage = n
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		Logger:      zerolog.Nop(),
		Clock:       time.Now,
		SearchLimit: defaultSearchLimit,
		MaxPerPage:  defaultMaxPerPage,
	}
}

// CityRecord is one row of the gazetteer.
type CityRecord struct {
	ID             string   `json:"geonameid"`
	Name           string   `json:"name"`
	ASCIIName      string   `json:"asciiname"`
	AlternateNames []string `json:"alternatenames"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	Population     int64    `json:"population"`
	Timezone       string   `json:"timezone"`
	Geohash        string   `json:"geohash"`
}

// foldedNames holds the lowercase forms used by prefix search.
type foldedNames struct {
	name    string
	aliases []string
}

// Gazetteer owns the loaded records and the indexes built over them.
type Gazetteer struct {
	records   []CityRecord        // file order; basis for List
	folded    []foldedNames       // parallel to records
	idIndex   map[string]int      // id -> position in records
	nameIndex map[string][]int    // exact name or alias -> positions, ascending
	cellIndex map[s2.CellID][]int // S2 cell -> positions, for Nearest
	config    *Config
}

// New builds a Gazetteer over records, which must already be in file order.
//
// Records sharing an id collapse into one entry: the later row replaces the
// earlier one but keeps the earlier row's position.
func New(records []CityRecord, opts ...Option) *Gazetteer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	g := &Gazetteer{
		records: make([]CityRecord, 0, len(records)),
		idIndex: make(map[string]int, len(records)),
		config:  cfg,
	}
	for _, r := range records {
		if pos, ok := g.idIndex[r.ID]; ok {
			g.records[pos] = r
			continue
		}
		g.idIndex[r.ID] = len(g.records)
		g.records = append(g.records, r)
	}

	g.buildNameIndex()
	g.buildCellIndex()
	return g
}

// buildNameIndex fills the exact-match index used by Compare and the folded
// names used by Search.
func (g *Gazetteer) buildNameIndex() {
	g.nameIndex = make(map[string][]int)
	g.folded = make([]foldedNames, len(g.records))

	add := func(key string, pos int) {
		if key == "" {
			return
		}
		idx := g.nameIndex[key]
		if n := len(idx); n > 0 && idx[n-1] == pos {
			return
		}
		g.nameIndex[key] = append(idx, pos)
	}

	for i, r := range g.records {
		add(r.Name, i)
		f := foldedNames{name: toLower(r.Name)}
		if len(r.AlternateNames) > 0 {
			f.aliases = make([]string, len(r.AlternateNames))
		}
		for j, alt := range r.AlternateNames {
			add(alt, i)
			f.aliases[j] = toLower(alt)
		}
		g.folded[i] = f
	}
}

// Len returns the number of records held.
func (g *Gazetteer) Len() int {
	return len(g.records)
}

// ByID returns the record whose id equals id exactly.
func (g *Gazetteer) ByID(id string) (CityRecord, error) {
	pos, ok := g.idIndex[id]
	if !ok {
		return CityRecord{}, &NotFoundError{Message: "City not found"}
	}
	return g.records[pos], nil
}

// ByIntID is ByID for callers holding the numeric form of the id.
func (g *Gazetteer) ByIntID(id int64) (CityRecord, error) {
	return g.ByID(strconv.FormatInt(id, 10))
}

// Page is one window of the file-ordered record list.
type Page struct {
	Page        int          `json:"page"`
	PerPage     int          `json:"per_page"`
	TotalCities int          `json:"total_cities"`
	TotalPages  int          `json:"total_pages"`
	Data        []CityRecord `json:"data"`
}

// List returns the records at file positions [(page-1)*perPage, page*perPage).
// page is raised to 1 and perPage clamped to [1, MaxPerPage]; pages past the
// end yield an empty Data slice. Totals describe the whole dataset.
func (g *Gazetteer) List(page, perPage int) Page {
	page = max(1, page)
	perPage = min(max(1, perPage), g.config.MaxPerPage)

	total := len(g.records)
	p := Page{
		Page:        page,
		PerPage:     perPage,
		TotalCities: total,
		TotalPages:  (total + perPage - 1) / perPage,
		Data:        []CityRecord{},
	}

	// Bound page before multiplying so huge page numbers cannot overflow.
	if page-1 > total/perPage {
		return p
	}
	start := (page - 1) * perPage
	end := min(start+perPage, total)
	if start >= end {
		return p
	}
	p.Data = append(p.Data, g.records[start:end]...)
	return p
}

// All returns a copy of every record in file order.
func (g *Gazetteer) All() []CityRecord {
	return append([]CityRecord(nil), g.records...)
}

// toLower lowercases with full Unicode case mapping; the dataset is mostly
// Cyrillic so byte-level ASCII folding would miss almost every name.
func toLower(s string) string {
	return strings.ToLower(s)
}
