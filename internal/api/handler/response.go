package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/maraichr/joingraph/pkg/apierr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		e := apierr.InternalError(err)
		body, _ = json.Marshal(e.Response())
		status = e.Status()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// writeAPIError renders a structured error. Server-side failures get logged
// with their cause; client errors do not.
func writeAPIError(w http.ResponseWriter, logger *slog.Logger, e *apierr.Error) {
	if logger != nil && e.Status() >= 500 {
		logger.Error(e.Message(),
			slog.String("code", string(e.Code())),
			slog.String("error", e.Error()))
	}
	writeJSON(w, e.Status(), e.Response())
}
