package audit

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jcastellanos/legajo/internal/httpapi"
)

// RegisterRoutes mounts the audit endpoint under /api/audit.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Get("/api/audit", handleQuery(store))
}

func handleQuery(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter := QueryFilter{
			OwnerID:    httpapi.Owner(r),
			DocumentID: q.Get("document"),
		}
		if v := q.Get("action"); v != "" {
			filter.Action = Action(v)
		}
		if v := q.Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Limit = n
			}
		}

		entries, err := store.Query(r.Context(), filter)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		if entries == nil {
			entries = []Entry{}
		}

		httpapi.WriteJSON(w, http.StatusOK, entries)
	}
}
