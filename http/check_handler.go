package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/mls-monitor/internal/monitor"
)

type CheckDeps struct {
	Monitor *monitor.Monitor
}

func RegisterCheck(r chi.Router, d CheckDeps) {
	r.Post("/check-now", func(w http.ResponseWriter, req *http.Request) {
		runID, err := d.Monitor.StartCheck()
		if err != nil {
			if errors.Is(err, monitor.ErrCheckInProgress) {
				render.Status(req, http.StatusConflict)
				render.JSON(w, req, map[string]any{"error": "check_in_progress"})
				return
			}
			render.Status(req, http.StatusInternalServerError)
			render.JSON(w, req, map[string]any{"error": "check_failed", "detail": err.Error()})
			return
		}
		render.Status(req, http.StatusAccepted)
		render.JSON(w, req, map[string]any{"run_id": runID, "status": "started"})
	})
}
