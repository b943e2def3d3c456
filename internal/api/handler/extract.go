package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/maraichr/joingraph/internal/extract"
	"github.com/maraichr/joingraph/internal/graph"
	"github.com/maraichr/joingraph/internal/store"
	"github.com/maraichr/joingraph/internal/store/postgres"
	vk "github.com/maraichr/joingraph/internal/store/valkey"
	"github.com/maraichr/joingraph/pkg/apierr"
	"github.com/maraichr/joingraph/pkg/models"
)

// ExtractHandler runs extraction batches. Store, cache, and graph are
// optional; the handler degrades to pure in-memory extraction without them.
type ExtractHandler struct {
	logger *slog.Logger
	store  *store.Store
	cache  *vk.ResultCache
	graph  *graph.Client
}

func NewExtractHandler(logger *slog.Logger, s *store.Store, cache *vk.ResultCache, g *graph.Client) *ExtractHandler {
	return &ExtractHandler{logger: logger, store: s, cache: cache, graph: g}
}

type extractUnit struct {
	Source string `json:"source"`
	SQL    string `json:"sql"`
}

type extractRequest struct {
	Units []extractUnit `json:"units"`
}

type extractResponse struct {
	Units       []models.UnitResult `json:"units"`
	TotalParsed int                 `json:"total_parsed"`
	TotalRegex  int                 `json:"total_regex"`
	CoveragePct *float64            `json:"coverage_pct,omitempty"`
	Stats       string              `json:"stats"`
	RunID       *uuid.UUID          `json:"run_id,omitempty"`
}

func (h *ExtractHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}
	if len(req.Units) == 0 {
		writeAPIError(w, h.logger, apierr.NoUnits())
		return
	}
	for _, unit := range req.Units {
		if unit.Source == "" {
			writeAPIError(w, h.logger, apierr.UnitNameRequired())
			return
		}
	}

	report := extract.NewReport()
	for _, unit := range req.Units {
		report.Add(h.extractUnit(r, unit))
	}

	resp := extractResponse{
		Units:       report.Units,
		TotalParsed: report.TotalParsed,
		TotalRegex:  report.TotalRegex,
		Stats:       report.RenderStats(),
	}
	if pct, ok := report.Coverage(); ok {
		resp.CoveragePct = &pct
	}

	if r.URL.Query().Get("persist") == "true" && h.store != nil {
		runID, err := h.persist(r, report)
		if err != nil {
			writeAPIError(w, h.logger, apierr.PersistFailed(err))
			return
		}
		resp.RunID = &runID
	}

	if h.graph != nil {
		if err := h.graph.SyncRows(r.Context(), report.Rows()); err != nil {
			h.logger.Warn("join graph sync failed", slog.String("error", err.Error()))
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// extractUnit runs one unit, going through the result cache when configured.
// Each unit gets its own Extractor either way; only finished results are
// shared through the cache.
func (h *ExtractHandler) extractUnit(r *http.Request, unit extractUnit) *models.UnitResult {
	if h.cache == nil {
		return extract.New(unit.Source, unit.SQL, h.logger).Extract()
	}

	key := h.cache.Key(unit.SQL)
	if cached, err := h.cache.Get(r.Context(), key); err != nil {
		h.logger.Warn("result cache read failed", slog.String("error", err.Error()))
	} else if cached != nil {
		cached.Source = unit.Source
		for i := range cached.Rows {
			cached.Rows[i].Source = unit.Source
		}
		return cached
	}

	result := extract.New(unit.Source, unit.SQL, h.logger).Extract()
	if err := h.cache.Set(r.Context(), key, result); err != nil {
		h.logger.Warn("result cache write failed", slog.String("error", err.Error()))
	}
	return result
}

func (h *ExtractHandler) persist(r *http.Request, report *extract.Report) (uuid.UUID, error) {
	var runID uuid.UUID
	err := h.store.WithTx(r.Context(), func(q *postgres.Queries) error {
		run, err := q.CreateRun(r.Context(), postgres.CreateRunParams{
			UnitCount:   len(report.Units),
			TotalParsed: report.TotalParsed,
			TotalRegex:  report.TotalRegex,
		})
		if err != nil {
			return err
		}
		runID = run.ID
		return q.InsertLineageRows(r.Context(), run.ID, report.Rows())
	})
	return runID, err
}
