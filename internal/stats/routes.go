package stats

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcastellanos/legajo/internal/apperr"
	"github.com/jcastellanos/legajo/internal/document"
	"github.com/jcastellanos/legajo/internal/httpapi"
)

// Deps wires the stats route.
type Deps struct {
	Store *document.Store
}

type request struct {
	IDs        []string                  `json:"ids"`
	Categories []document.EntityCategory `json:"categories"`
	Top        int                       `json:"top"`
}

// RegisterRoutes mounts POST /api/stats.
func RegisterRoutes(r chi.Router, deps Deps) {
	r.Post("/api/stats", handleStats(deps))
}

func handleStats(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpapi.WriteError(w, apperr.Validationf("malformed body: %v", err))
			return
		}

		owner := httpapi.Owner(r)
		ctx := r.Context()

		var (
			batch []document.Document
			err   error
		)
		if len(req.IDs) == 0 {
			batch, err = deps.Store.ListByOwner(ctx, owner)
		} else {
			batch, err = deps.Store.GetByIDs(ctx, owner, req.IDs)
		}
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}

		summary, err := Reduce(batch, req.Categories, req.Top)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}

		httpapi.WriteJSON(w, http.StatusOK, summary)
	}
}
