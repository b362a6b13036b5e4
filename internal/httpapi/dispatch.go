package httpapi

import (
	"net/http"

	"github.com/andreiashu/gazetteer/internal/observability"
)

// usage is returned when a request to / matches no operation.
var usage = map[string]any{
	"error": "Invalid request",
	"usage": map[string]string{
		"Get city by ID":  "?id=524901",
		"Get cities list": "?page=1&per_page=10",
		"Compare cities":  "?city1=Москва&city2=Санкт-Петербург",
		"Search cities":   "?q=Мос",
		"Nearest city":    "?lat=55.75&lng=37.62",
	},
}

// dispatch serves the single-endpoint form of the API. The operation is
// picked by which parameters are present, checked in this order: id, page or
// per_page, city1 and city2, q, lat and lng. Query errors are reported in
// the body with status 200; only an unmatched request gets 400.
func (h *Handlers) dispatch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch {
	case q.Has("id"):
		c, err := h.G.ByID(q.Get("id"))
		h.writeLegacy(w, "by_id", c, err)
	case q.Has("page") || q.Has("per_page"):
		page, perPage := h.pageParams(r)
		h.writeLegacy(w, "list", h.G.List(page, perPage), nil)
	case q.Has("city1") && q.Has("city2"):
		res, err := h.G.Compare(q.Get("city1"), q.Get("city2"))
		h.writeLegacy(w, "compare", res, err)
	case q.Has("q"):
		res, err := h.G.Search(q.Get("q"))
		h.writeLegacy(w, "search", res, err)
	case q.Has("lat") && q.Has("lng"):
		lat, lng, err := coordParams(r)
		if err != nil {
			h.writeLegacy(w, "nearest", nil, err)
			return
		}
		res, err := h.G.Nearest(lat, lng)
		h.writeLegacy(w, "nearest", res, err)
	default:
		writeJSON(w, http.StatusBadRequest, usage)
	}
}

func (h *Handlers) writeLegacy(w http.ResponseWriter, op string, v any, err error) {
	observability.ObserveQuery(op, outcomeOf(err))
	if err != nil {
		writeJSON(w, http.StatusOK, toErrorBody(err))
		return
	}
	writeJSON(w, http.StatusOK, v)
}
