package handler

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maraichr/joingraph/pkg/apierr"
)

// HealthHandler serves liveness and readiness probes. The pool is nil when
// the service runs without persistence; readiness then only means the process
// is up.
type HealthHandler struct {
	pool *pgxpool.Pool
}

func NewHealthHandler(pool *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{pool: pool}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	persistence := "off"
	if h.pool != nil {
		if err := h.pool.Ping(r.Context()); err != nil {
			writeAPIError(w, nil, apierr.DatabaseNotReady())
			return
		}
		persistence = "ok"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "ready",
		"persistence": persistence,
	})
}
