package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"

	httpapi "github.com/yourorg/mls-monitor/http"
	"github.com/yourorg/mls-monitor/internal/fetch"
	"github.com/yourorg/mls-monitor/internal/monitor"
	"github.com/yourorg/mls-monitor/internal/store"
)

func BuildRouter(m *monitor.Monitor, st *store.Store, router *fetch.Router, sched *monitor.Scheduler) http.Handler {
	r := chi.NewRouter()
	r.Use(httprate.LimitByIP(100, 1*time.Minute))
	r.Use(render.SetContentType(render.ContentTypeJSON))

	httpapi.RegisterStatus(r, httpapi.StatusDeps{Monitor: m, Scheduler: sched})
	httpapi.RegisterListings(r, httpapi.ListingsDeps{Store: st})
	httpapi.RegisterQuotas(r, httpapi.QuotasDeps{Router: router})
	httpapi.RegisterCheck(r, httpapi.CheckDeps{Monitor: m})

	return r
}
