// checkonce runs a single check cycle and exits, for cron-style deployments.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/yourorg/mls-monitor/homesage"
	"github.com/yourorg/mls-monitor/internal/config"
	"github.com/yourorg/mls-monitor/internal/env"
	"github.com/yourorg/mls-monitor/internal/fetch"
	"github.com/yourorg/mls-monitor/internal/monitor"
	"github.com/yourorg/mls-monitor/internal/notify"
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
	if len(fetchers) == 0 {
		log.Fatal("no provider API keys configured")
	}

	router := fetch.NewRouter(st, fetchers, limits)
	m := monitor.New(st, router, cfg.Search.Filters, cfg.Search.PropertyTypes, cfg.Search.AllZipcodes())
	notifier := notify.NewNotifier(cfg.Email.ResendKey, cfg.Email.From, cfg.Email.To)
	m.Notifier = notifier

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := m.RunCheck(ctx)
	if err != nil {
		log.Fatalf("check failed: %v", err)
	}

	// email inline, there is no long-lived dispatcher in one-shot mode
	if len(res.NewListings) > 0 {
		if err := notifier.SendNewListings(ctx, res.NewListings); err != nil {
			log.Printf("[WARN] email failed: %v", err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(res.Summary)
}
