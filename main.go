package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/yourorg/mls-monitor/homesage"
	"github.com/yourorg/mls-monitor/internal/archive"
	"github.com/yourorg/mls-monitor/internal/config"
	"github.com/yourorg/mls-monitor/internal/env"
	"github.com/yourorg/mls-monitor/internal/events"
	"github.com/yourorg/mls-monitor/internal/fetch"
	"github.com/yourorg/mls-monitor/internal/logger"
	"github.com/yourorg/mls-monitor/internal/monitor"
	"github.com/yourorg/mls-monitor/internal/notify"
	"github.com/yourorg/mls-monitor/internal/redisx"
	"github.com/yourorg/mls-monitor/internal/store"
	"github.com/yourorg/mls-monitor/rapidapi"
	"github.com/yourorg/mls-monitor/rentcast"
)

func main() {
	cfg, err := config.Load(env.Get("SEARCH_CONFIG", "config.yaml"))
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}

	fetchers, limits := buildFetchers(cfg)
	if len(fetchers) == 0 {
		log.Fatal("no provider API keys configured")
	}
	router := fetch.NewRouter(st, fetchers, limits)

	m := monitor.New(st, router, cfg.Search.Filters, cfg.Search.PropertyTypes, cfg.Search.AllZipcodes())

	pub := events.NewInMemory(64)
	m.Pub = pub
	notifier := notify.NewNotifier(cfg.Email.ResendKey, cfg.Email.From, cfg.Email.To)
	m.Notifier = notifier

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go (&notify.Dispatcher{Pub: pub, Notifier: notifier}).Run(ctx)

	if cfg.Redis.Addr != "" {
		rdb := redisx.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := rdb.Ping(ctx); err != nil {
			log.Printf("[WARN] redis unavailable, running without distributed lock: %v", err)
		} else {
			m.Lock = rdb
		}
	}

	if cfg.Postgres.DSN != "" {
		arc, err := archive.Open(cfg.Postgres.DSN)
		if err != nil {
			log.Printf("[WARN] archive disabled: %v", err)
		} else if err := arc.Migrate(ctx); err != nil {
			log.Printf("[WARN] archive disabled, migrate failed: %v", err)
		} else {
			m.Archive = arc
		}
	}

	sched, err := monitor.NewScheduler(m, cfg.Schedule.CheckTimes, cfg.Schedule.Timezone)
	if err != nil {
		log.Fatalf("building scheduler: %v", err)
	}
	go sched.Run(ctx)

	handler := BuildRouter(m, st, router, sched)
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: logger.Middleware(handler)}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	log.Printf("mls-monitor listening on %s, watching %d zipcodes", cfg.Server.Addr, len(cfg.Search.AllZipcodes()))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

func buildFetchers(cfg *config.Config) ([]fetch.Fetcher, map[string]int) {
	var fetchers []fetch.Fetcher
	limits := map[string]int{}

	if cfg.Providers.RapidAPIKey != "" {
		c := rapidapi.NewClient(cfg.Providers.RapidAPIKey)
		fetchers = append(fetchers, c)
		limits[c.Name()] = cfg.Providers.RapidAPILimit
	}
	if cfg.Providers.HomesageKey != "" {
		c := homesage.NewClient(cfg.Providers.HomesageKey)
		fetchers = append(fetchers, c)
		limits[c.Name()] = cfg.Providers.HomesageLimit
	}
	if cfg.Providers.RentcastKey != "" {
		c := rentcast.NewClient(cfg.Providers.RentcastKey)
		fetchers = append(fetchers, c)
		limits[c.Name()] = cfg.Providers.RentcastLimit
	}
	for _, f := range fetchers {
		log.Printf("[INFO] provider %s enabled (monthly limit %d)", f.Name(), limits[f.Name()])
	}
	return fetchers, limits
}
