// Package httpapi exposes the management endpoints: health, status, listings,
// quotas, and manual check triggers.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/mls-monitor/internal/monitor"
)

type StatusDeps struct {
	Monitor   *monitor.Monitor
	Scheduler *monitor.Scheduler
}

type statusResponse struct {
	monitor.Status
	NextRun *time.Time `json:"next_run,omitempty"`
}

func RegisterStatus(r chi.Router, d StatusDeps) {
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]any{"ok": true})
	})

	r.Get("/status", func(w http.ResponseWriter, req *http.Request) {
		resp := statusResponse{Status: d.Monitor.Status()}
		if d.Scheduler != nil {
			next := d.Scheduler.NextRun(time.Now())
			resp.NextRun = &next
		}
		render.JSON(w, req, resp)
	})
}
