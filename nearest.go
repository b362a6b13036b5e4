package gazetteer

import (
	"math"
	"sort"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// s2CellLevel sets the granularity of the spatial index. Level 10 cells are
// roughly 8km across.
const s2CellLevel = 10

// maxNearestDistance is ~100km in radians on the unit sphere. Nearest scans
// every cell touching a cap of this radius, so nothing closer is missed.
const maxNearestDistance = 0.0157

// maxSearchCells bounds the covering of the search cap; a 100km cap needs a
// few hundred level-10 cells.
const maxSearchCells = 2048

// NearestResult is the record closest to a queried point.
type NearestResult struct {
	City       CityRecord `json:"city"`
	DistanceKm float64    `json:"distance_km"`
}

type nearestCandidate struct {
	pos  int
	dist float64
}

func (g *Gazetteer) buildCellIndex() {
	g.cellIndex = make(map[s2.CellID][]int)
	for i, r := range g.records {
		ll := s2.LatLngFromDegrees(r.Latitude, r.Longitude)
		cell := s2.CellIDFromLatLng(ll).Parent(s2CellLevel)
		g.cellIndex[cell] = append(g.cellIndex[cell], i)
	}
}

// searchCells returns the level-10 cells covering a maxNearestDistance cap
// around center.
func searchCells(center s2.LatLng) s2.CellUnion {
	rc := &s2.RegionCoverer{
		MinLevel: s2CellLevel,
		MaxLevel: s2CellLevel,
		MaxCells: maxSearchCells,
	}
	return rc.Covering(s2.CapFromCenterAngle(s2.PointFromLatLng(center), s1.Angle(maxNearestDistance)))
}

// Nearest returns the record closest to (lat, lng) within ~100km. Equal
// distances prefer the larger population, then file order.
func (g *Gazetteer) Nearest(lat, lng float64) (NearestResult, error) {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) ||
		lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return NearestResult{}, &ValidationError{
			Field:   "lat,lng",
			Message: "Coordinates must be finite degrees within [-90,90] and [-180,180]",
		}
	}

	query := s2.LatLngFromDegrees(lat, lng)

	var candidates []nearestCandidate
	for _, cell := range searchCells(query) {
		for _, pos := range g.cellIndex[cell] {
			r := g.records[pos]
			ll := s2.LatLngFromDegrees(r.Latitude, r.Longitude)
			candidates = append(candidates, nearestCandidate{
				pos:  pos,
				dist: query.Distance(ll).Radians(),
			})
		}
	}
	if len(candidates) == 0 {
		return NearestResult{}, &NotFoundError{Message: "No city near the given coordinates"}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.dist != b.dist {
			return a.dist < b.dist
		}
		pa, pb := g.records[a.pos].Population, g.records[b.pos].Population
		if pa != pb {
			return pa > pb
		}
		return a.pos < b.pos
	})

	best := candidates[0]
	if best.dist > maxNearestDistance {
		return NearestResult{}, &NotFoundError{Message: "No city near the given coordinates"}
	}
	return NearestResult{
		City:       g.records[best.pos],
		DistanceKm: round2(best.dist * earthRadiusKm),
	}, nil
}
