package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/andreiashu/gazetteer"
	"github.com/andreiashu/gazetteer/internal/observability"
)

// Querier is the read surface of a loaded gazetteer.
type Querier interface {
	ByID(id string) (gazetteer.CityRecord, error)
	List(page, perPage int) gazetteer.Page
	Search(query string) (gazetteer.SearchResult, error)
	Compare(name1, name2 string) (gazetteer.Comparison, error)
	Nearest(lat, lng float64) (gazetteer.NearestResult, error)
}

type Handlers struct {
	G              Querier
	DefaultPerPage int
}

type errorBody struct {
	Error            string   `json:"error"`
	City1Found       *bool    `json:"city1_found,omitempty"`
	City2Found       *bool    `json:"city2_found,omitempty"`
	City1Suggestions []string `json:"city1_suggestions,omitempty"`
	City2Suggestions []string `json:"city2_suggestions,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/", h.dispatch)
	s.mux.Get("/v1/cities", h.listCities)
	s.mux.Get("/v1/cities/{id}", h.getCity)
	s.mux.Get("/v1/search", h.search)
	s.mux.Get("/v1/compare", h.compare)
	s.mux.Get("/v1/nearest", h.nearest)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// toErrorBody renders a query error the way clients expect: an "error" key,
// plus the per-side flags for a failed comparison.
func toErrorBody(err error) errorBody {
	body := errorBody{Error: err.Error()}
	var nf *gazetteer.NameNotFoundError
	if errors.As(err, &nf) {
		body.City1Found = &nf.City1Found
		body.City2Found = &nf.City2Found
		body.City1Suggestions = nf.City1Suggestions
		body.City2Suggestions = nf.City2Suggestions
	}
	return body
}

func statusOf(err error) int {
	switch gazetteer.KindOf(err) {
	case gazetteer.KindValidation:
		return http.StatusBadRequest
	case gazetteer.KindNotFound:
		return http.StatusNotFound
	case gazetteer.KindTimezone:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	if k := gazetteer.KindOf(err); k != "" {
		return string(k)
	}
	return "error"
}

func (h *Handlers) writeResult(w http.ResponseWriter, op string, v any, err error) {
	observability.ObserveQuery(op, outcomeOf(err))
	if err != nil {
		writeJSON(w, statusOf(err), toErrorBody(err))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func wantsGeoJSON(r *http.Request) bool {
	return strings.EqualFold(r.URL.Query().Get("format"), "geojson")
}

func (h *Handlers) getCity(w http.ResponseWriter, r *http.Request) {
	c, err := h.G.ByID(chi.URLParam(r, "id"))
	if err == nil && wantsGeoJSON(r) {
		h.writeResult(w, "by_id", recordFeature(c), nil)
		return
	}
	h.writeResult(w, "by_id", c, err)
}

func (h *Handlers) listCities(w http.ResponseWriter, r *http.Request) {
	page, perPage := h.pageParams(r)
	p := h.G.List(page, perPage)
	if wantsGeoJSON(r) {
		h.writeResult(w, "list", pageCollection(p), nil)
		return
	}
	h.writeResult(w, "list", p, nil)
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	res, err := h.G.Search(r.URL.Query().Get("q"))
	if err == nil && wantsGeoJSON(r) {
		h.writeResult(w, "search", h.searchCollection(res), nil)
		return
	}
	h.writeResult(w, "search", res, err)
}

func (h *Handlers) compare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("city1") || !q.Has("city2") {
		h.writeResult(w, "compare", nil, &gazetteer.ValidationError{
			Field: "city1,city2", Message: "Both city1 and city2 are required",
		})
		return
	}
	res, err := h.G.Compare(q.Get("city1"), q.Get("city2"))
	h.writeResult(w, "compare", res, err)
}

func (h *Handlers) nearest(w http.ResponseWriter, r *http.Request) {
	lat, lng, err := coordParams(r)
	if err != nil {
		h.writeResult(w, "nearest", nil, err)
		return
	}
	res, err := h.G.Nearest(lat, lng)
	if err == nil && wantsGeoJSON(r) {
		f := recordFeature(res.City)
		f.Properties["distance_km"] = res.DistanceKm
		h.writeResult(w, "nearest", f, nil)
		return
	}
	h.writeResult(w, "nearest", res, err)
}

// pageParams reads page/per_page. Values that are missing or not integers
// fall back to 1 and DefaultPerPage when absent, and to 0 when malformed,
// leaving the clamping to List.
func (h *Handlers) pageParams(r *http.Request) (int, int) {
	q := r.URL.Query()
	page, perPage := 1, h.DefaultPerPage
	if q.Has("page") {
		page = looseAtoi(q.Get("page"))
	}
	if q.Has("per_page") {
		perPage = looseAtoi(q.Get("per_page"))
	}
	return page, perPage
}

func coordParams(r *http.Request) (float64, float64, error) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(q.Get("lat")), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(q.Get("lng")), 64)
	if errLat != nil || errLng != nil {
		return 0, 0, &gazetteer.ValidationError{Field: "lat,lng", Message: "lat and lng must be numbers"}
	}
	return lat, lng, nil
}

// looseAtoi parses the leading optional sign and digits of s, returning 0
// when there are none ("12abc" -> 12, "abc" -> 0).
func looseAtoi(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
