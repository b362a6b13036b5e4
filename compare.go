package gazetteer

import (
	"errors"
	"math"
	"time"
	_ "time/tzdata" // zone names must resolve on hosts without a zoneinfo database

	"github.com/golang/geo/s2"
)

const (
	// kmPerDegreeLatitude is the flat meridian-arc approximation used for
	// latitude deltas.
	kmPerDegreeLatitude = 111.32

	// earthRadiusKm is the mean Earth radius used to scale S2 angles.
	earthRadiusKm = 6371.0088

	// compareSuggestions caps the alternatives attached to a failed compare.
	compareSuggestions = 3
)

var errNotIANAZone = errors.New("not an IANA zone name")

// CityBrief is the subset of a record reported by Compare.
type CityBrief struct {
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Timezone   string  `json:"timezone"`
	Population int64   `json:"population"`
}

// ComparisonDetails holds the pairwise arithmetic of a Compare.
type ComparisonDetails struct {
	NorthernCity            string  `json:"northern_city"`
	LatitudeDifferenceKm    float64 `json:"latitude_difference_km"`
	SameTimezone            bool    `json:"same_timezone"`
	TimezoneDifferenceHours float64 `json:"timezone_difference_hours"`
	DistanceKm              float64 `json:"distance_km"`
}

// Comparison is the result of a successful Compare.
type Comparison struct {
	City1      CityBrief         `json:"city1"`
	City2      CityBrief         `json:"city2"`
	Comparison ComparisonDetails `json:"comparison"`
}

// Compare resolves both names with ResolveByName and compares the two
// records. An unresolved name yields a *NameNotFoundError; a zone name the
// runtime does not know yields a *TimezoneError.
//
// The timezone difference is taken between the zones' UTC offsets at the
// configured clock's current instant, so it follows daylight-saving state.
func (g *Gazetteer) Compare(name1, name2 string) (Comparison, error) {
	c1, ok1 := g.ResolveByName(name1)
	c2, ok2 := g.ResolveByName(name2)
	if !ok1 || !ok2 {
		nf := &NameNotFoundError{
			City1: name1, City2: name2,
			City1Found: ok1, City2Found: ok2,
		}
		if !ok1 {
			nf.City1Suggestions = g.Suggest(name1, compareSuggestions)
		}
		if !ok2 {
			nf.City2Suggestions = g.Suggest(name2, compareSuggestions)
		}
		return Comparison{}, nf
	}

	northern := c2.Name
	if c1.Latitude >= c2.Latitude {
		northern = c1.Name
	}

	details := ComparisonDetails{
		NorthernCity:         northern,
		LatitudeDifferenceKm: round2(math.Abs(c1.Latitude-c2.Latitude) * kmPerDegreeLatitude),
		SameTimezone:         c1.Timezone == c2.Timezone,
		DistanceKm:           round2(greatCircleKm(c1, c2)),
	}
	if !details.SameTimezone {
		hours, err := offsetDifferenceHours(c1.Timezone, c2.Timezone, g.config.Clock())
		if err != nil {
			return Comparison{}, err
		}
		details.TimezoneDifferenceHours = hours
	}

	return Comparison{
		City1:      brief(c1),
		City2:      brief(c2),
		Comparison: details,
	}, nil
}

// ResolveByName returns the most populous record whose name equals name
// exactly, or that lists name among its aliases. Equal populations resolve
// to the record that comes first in the file.
func (g *Gazetteer) ResolveByName(name string) (CityRecord, bool) {
	positions := g.nameIndex[name]
	if len(positions) == 0 {
		return CityRecord{}, false
	}
	best := positions[0]
	for _, pos := range positions[1:] {
		if g.records[pos].Population > g.records[best].Population {
			best = pos
		}
	}
	return g.records[best], true
}

// offsetDifferenceHours returns (offset(tz1) - offset(tz2)) in hours at now.
func offsetDifferenceHours(tz1, tz2 string, now time.Time) (float64, error) {
	loc1, err := loadZone(tz1)
	if err != nil {
		return 0, err
	}
	loc2, err := loadZone(tz2)
	if err != nil {
		return 0, err
	}
	_, off1 := now.In(loc1).Zone()
	_, off2 := now.In(loc2).Zone()
	return float64(off1-off2) / 3600, nil
}

// loadZone resolves an IANA zone name. time.LoadLocation maps "" to UTC and
// "Local" to the host zone, so both are rejected before the lookup.
func loadZone(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return nil, &TimezoneError{Zone: name, Err: errNotIANAZone}
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &TimezoneError{Zone: name, Err: err}
	}
	return loc, nil
}

func greatCircleKm(a, b CityRecord) float64 {
	la := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
	lb := s2.LatLngFromDegrees(b.Latitude, b.Longitude)
	return la.Distance(lb).Radians() * earthRadiusKm
}

func brief(c CityRecord) CityBrief {
	return CityBrief{
		Name:       c.Name,
		Latitude:   c.Latitude,
		Longitude:  c.Longitude,
		Timezone:   c.Timezone,
		Population: c.Population,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
