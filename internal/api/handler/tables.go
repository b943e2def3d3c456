package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maraichr/joingraph/internal/graph"
	"github.com/maraichr/joingraph/pkg/apierr"
)

type TableHandler struct {
	logger *slog.Logger
	graph  *graph.Client
}

func NewTableHandler(logger *slog.Logger, g *graph.Client) *TableHandler {
	return &TableHandler{logger: logger, graph: g}
}

// Joins returns the tables a given table joins with, from the join graph.
func (h *TableHandler) Joins(w http.ResponseWriter, r *http.Request) {
	if h.graph == nil {
		writeAPIError(w, h.logger, apierr.GraphUnavailable())
		return
	}

	name := chi.URLParam(r, "name")
	if name == "" {
		writeAPIError(w, h.logger, apierr.TableNameRequired())
		return
	}

	neighbors, err := h.graph.Neighbors(r.Context(), name)
	if err != nil {
		writeAPIError(w, h.logger, apierr.GraphQueryFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"table": name,
		"joins": neighbors,
		"total": len(neighbors),
	})
}
