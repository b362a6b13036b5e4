package httpapi

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/andreiashu/gazetteer"
)

func recordFeature(c gazetteer.CityRecord) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{c.Longitude, c.Latitude})
	f.ID = c.ID
	f.Properties["name"] = c.Name
	f.Properties["asciiname"] = c.ASCIIName
	f.Properties["population"] = c.Population
	f.Properties["timezone"] = c.Timezone
	f.Properties["geohash"] = c.Geohash
	return f
}

func pageCollection(p gazetteer.Page) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, c := range p.Data {
		fc.Append(recordFeature(c))
	}
	fc.ExtraMembers = geojson.Properties{
		"page":         p.Page,
		"per_page":     p.PerPage,
		"total_cities": p.TotalCities,
		"total_pages":  p.TotalPages,
	}
	return fc
}

// searchCollection resolves each hit back to its record for coordinates.
func (h *Handlers) searchCollection(res gazetteer.SearchResult) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, hit := range res.Results {
		c, err := h.G.ByID(hit.ID)
		if err != nil {
			continue
		}
		f := recordFeature(c)
		if hit.AltName != "" {
			f.Properties["alt_name"] = hit.AltName
		}
		fc.Append(f)
	}
	fc.ExtraMembers = geojson.Properties{
		"query": res.Query,
		"found": res.Found,
	}
	return fc
}
