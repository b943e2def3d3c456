package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/maraichr/joingraph/internal/store"
	"github.com/maraichr/joingraph/pkg/apierr"
)

type RunHandler struct {
	logger *slog.Logger
	store  *store.Store
}

func NewRunHandler(logger *slog.Logger, s *store.Store) *RunHandler {
	return &RunHandler{logger: logger, store: s}
}

func (h *RunHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	runs, err := h.store.ListRuns(r.Context(), int32(limit), int32(offset))
	if err != nil {
		writeAPIError(w, h.logger, apierr.RunListFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"runs":  runs,
		"total": len(runs),
	})
}

func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRunID())
		return
	}

	run, err := h.store.GetRun(r.Context(), runID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeAPIError(w, h.logger, apierr.RunNotFound())
			return
		}
		writeAPIError(w, h.logger, apierr.RunListFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, run)
}

func (h *RunHandler) Rows(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRunID())
		return
	}

	rows, err := h.store.ListRowsByRun(r.Context(), runID)
	if err != nil {
		writeAPIError(w, h.logger, apierr.RowListFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"rows":  rows,
		"total": len(rows),
	})
}
