package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/mls-monitor/internal/fetch"
)

type QuotasDeps struct {
	Router *fetch.Router
}

func RegisterQuotas(r chi.Router, d QuotasDeps) {
	r.Get("/quotas", func(w http.ResponseWriter, req *http.Request) {
		report, err := d.Router.QuotaReport()
		if err != nil {
			render.Status(req, http.StatusInternalServerError)
			render.JSON(w, req, map[string]any{"error": "quota_unreadable", "detail": err.Error()})
			return
		}
		render.JSON(w, req, map[string]any{
			"providers": report,
			"healthy":   d.Router.QuotaHealthy(),
		})
	})
}
