package main

import (
	"net/http"

	"github.com/BEAUVILLE/abos/config"
	"github.com/BEAUVILLE/abos/internal/handlers"
	"github.com/BEAUVILLE/abos/internal/journal"
	"github.com/BEAUVILLE/abos/internal/middleware"
	"github.com/BEAUVILLE/abos/internal/reconcile"
	"github.com/BEAUVILLE/abos/internal/registrar"
	"github.com/BEAUVILLE/abos/internal/storage"
	"github.com/BEAUVILLE/abos/internal/workflow"
	"github.com/BEAUVILLE/abos/logging"
	"github.com/go-chi/chi/v5"
	"github.com/robfig/cron/v3"
)

const submissionSource = "payer-form"

func main() {
	logger := logging.GetSugaredLogger()
	defer logger.Sync()

	cfg := config.GetConfig()
	if err := cfg.Validate(); err != nil {
		logger.Fatalw("invalid configuration", "error", err)
	}

	var j journal.Journal
	if cfg.DatabaseURI != "" {
		manager, err := journal.NewManager(cfg)
		if err != nil {
			logger.Fatalw("failed to open attempt journal", "error", err)
		}
		defer manager.Close()
		j = manager
	} else {
		logger.Info("no database configured, attempt journal disabled")
	}

	uploader := storage.NewClient(cfg, logger)
	reg := registrar.NewClient(cfg, logger)
	flow := workflow.NewOrchestrator(cfg, uploader, reg, j, logger, submissionSource)

	if j != nil {
		c := cron.New()
		sweeper := &reconcile.Sweeper{Journal: j, Logger: logger, OrphanAge: cfg.OrphanAge}
		if err := sweeper.Schedule(c, "@every 10m"); err != nil {
			logger.Fatalw("failed to schedule orphan sweep", "error", err)
		}
		c.Start()
		defer c.Stop()
	}

	h := handlers.Handler{
		Config: cfg,
		Flow:   flow,
		Logger: logger,
	}

	r := initRouter(h)

	err := http.ListenAndServe(cfg.RunAddress, r)
	logger.Fatalw("failed to start server", "error", err)
}

func initRouter(h handlers.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Post(`/api/pay/submit`,
		func(w http.ResponseWriter, r *http.Request) {
			middleware.Conveyor(
				http.HandlerFunc(h.Submit),
				h.Logger,
				middleware.WriteWithCompression,
				middleware.LogRequest,
			).ServeHTTP(w, r)
		},
	)
	r.Get(`/healthz`, h.Health)
	return r
}
