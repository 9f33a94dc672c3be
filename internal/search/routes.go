package search

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/jcastellanos/legajo/internal/apperr"
	"github.com/jcastellanos/legajo/internal/httpapi"
	"github.com/jcastellanos/legajo/internal/metrics"
)

// Deps wires the search route.
type Deps struct {
	Lexical  *Lexical
	Semantic *Semantic
	Metrics  *metrics.Metrics
	Log      zerolog.Logger
}

type request struct {
	Query string `json:"query"`
	Mode  Mode   `json:"mode"`
	Limit int    `json:"limit"`
}

// RegisterRoutes mounts POST /api/search.
func RegisterRoutes(r chi.Router, deps Deps) {
	r.Post("/api/search", handleSearch(deps))
}

func handleSearch(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpapi.WriteError(w, apperr.Validationf("malformed body: %v", err))
			return
		}
		if req.Mode == "" {
			req.Mode = ModeLexical
		}
		if req.Mode != ModeLexical && req.Mode != ModeSemantic {
			httpapi.WriteError(w, apperr.Validationf("unknown mode %q", req.Mode))
			return
		}

		owner := httpapi.Owner(r)
		ctx := r.Context()

		var (
			results  []Result
			degraded bool
			err      error
		)
		switch req.Mode {
		case ModeLexical:
			results, err = deps.Lexical.Search(ctx, owner, req.Query, req.Limit)
		case ModeSemantic:
			results, degraded, err = deps.Semantic.Search(ctx, owner, req.Query, req.Limit)
		}
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}

		deps.Metrics.SearchesTotal.WithLabelValues(string(req.Mode)).Inc()
		if degraded {
			deps.Metrics.SemanticFallbackTotal.Inc()
		}

		if results == nil {
			results = []Result{}
		}
		httpapi.WriteJSON(w, http.StatusOK, Response{
			Results:  results,
			Count:    len(results),
			Degraded: degraded,
		})
	}
}
