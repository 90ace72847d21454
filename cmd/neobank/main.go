package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fadedpez/neobank/internal/config"
	"github.com/fadedpez/neobank/internal/console"
	"github.com/fadedpez/neobank/internal/discord"
	"github.com/fadedpez/neobank/internal/logging"
	"github.com/fadedpez/neobank/pkg/controller"
	"github.com/fadedpez/neobank/pkg/gateway"
	"github.com/fadedpez/neobank/pkg/notify"
	"github.com/fadedpez/neobank/pkg/repositories/history"
	"github.com/fadedpez/neobank/pkg/scheduler"
	"github.com/fadedpez/neobank/pkg/services/statistics"
	"github.com/fadedpez/neobank/pkg/session"
	"github.com/fadedpez/neobank/pkg/spin"
	"github.com/fadedpez/neobank/pkg/storage"
	"github.com/fadedpez/neobank/pkg/storage/file"
	"github.com/fadedpez/neobank/pkg/storage/sqlite"
	"github.com/fadedpez/neobank/pkg/wager"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Credential storage
	var store storage.Storage
	options := &storage.Options{Path: cfg.StoragePath()}
	if cfg.Storage == "sqlite" {
		log.Printf("Using SQLite credential storage at %s", options.Path)
		store, err = sqlite.New(options)
	} else {
		store, err = file.New(options)
	}
	if err != nil {
		log.Fatalf("Failed to open credential storage: %v", err)
	}
	defer store.Close()

	sessions := session.NewStore(store, session.WithLogger(logger))
	client := gateway.New(cfg.APIBase, sessions,
		gateway.WithTimeout(cfg.HTTPTimeout),
		gateway.WithLogger(logger),
	)

	// Toasts, optionally relayed to Discord
	queueOpts := []notify.Option{
		notify.WithLifetime(cfg.ToastLifetime),
		notify.WithLogger(logger),
	}
	if cfg.Discord.Enabled() {
		dg, err := discord.NewSession()
		if err != nil {
			log.Printf("Failed to create Discord session, relay disabled: %v", err)
		} else {
			queueOpts = append(queueOpts, notify.WithSink(discord.NewRelay(dg, cfg.Discord, discord.WithLogger(logger))))
			log.Println("Relaying wins to Discord")
		}
	}
	toasts := notify.NewQueue(queueOpts...)
	defer toasts.Close()

	// Round history
	historyRepo := openHistory(ctx, cfg, logger)
	defer historyRepo.Close()

	wagers := wager.NewController(cfg.Games)
	engine := spin.NewEngine(spin.Dependencies{
		Spinner:  client,
		Session:  sessions,
		Wagers:   wagers,
		Notifier: toasts,
		Recorder: historyRepo,
	}, spin.WithLogger(logger))
	defer engine.Close()

	machines := make([]console.Machine, 0, len(cfg.Games))
	for _, game := range cfg.Games {
		m, err := engine.Register(game)
		if err != nil {
			log.Fatalf("Failed to register game %s: %v", game.ID, err)
		}
		machines = append(machines, m)
	}

	view := controller.New(controller.Dependencies{
		Gateway:    client,
		Session:    sessions,
		Wagers:     wagers,
		Spinner:    engine,
		Notifier:   toasts,
		Statistics: statistics.NewService(historyRepo, cfg.Games),
	},
		controller.WithLogger(logger),
		controller.WithSearchDebounce(cfg.SearchDebounce),
		controller.WithTransactionLimit(cfg.TransactionPage),
	)
	defer view.Close()

	maintenance := scheduler.NewMaintenanceScheduler(
		scheduler.NewScheduler(scheduler.WithLogger(logger)),
		historyRepo,
		view,
		scheduler.MaintenanceConfig{
			RefreshInterval:  cfg.RefreshInterval,
			HistoryRetention: cfg.HistoryRetention,
		},
	)
	maintenance.Start(ctx)
	defer maintenance.Stop()

	if cfg.MetricsAddr != "" {
		srv := startMetricsServer(cfg.MetricsAddr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("Error stopping metrics server: %v", err)
			}
		}()
	}

	term := console.New(view, os.Stdin, os.Stdout,
		console.WithMachines(machines...),
		console.WithToasts(toasts),
		console.WithAnimation(true),
		console.WithExportDir(cfg.DataDir),
		console.WithLogger(logger),
	)
	if err := term.Run(ctx); err != nil {
		log.Printf("Console stopped: %v", err)
	}

	log.Println("Shutting down...")
}

// openHistory picks the round history backend, falling back to memory
// when SQLite cannot be opened
func openHistory(ctx context.Context, cfg *config.Config, logger *logging.Logger) history.Repository {
	var repo history.Repository = history.NewMemoryRepository()
	if cfg.History == "sqlite" {
		sqliteRepo, err := history.NewSQLiteRepository(cfg.HistoryPath())
		if err != nil {
			log.Printf("Failed to initialize SQLite history: %v", err)
			log.Println("Falling back to in-memory history")
		} else {
			repo = sqliteRepo
		}
	}

	if !cfg.Elasticsearch.Enabled() {
		return repo
	}
	esRepo, err := history.NewElasticsearchRepository(ctx, repo, &history.ElasticsearchConfig{
		URL:         cfg.Elasticsearch.URL,
		Username:    cfg.Elasticsearch.Username,
		Password:    cfg.Elasticsearch.Password,
		IndexPrefix: cfg.Elasticsearch.IndexPrefix,
	}, logger)
	if err != nil {
		log.Printf("Elasticsearch unavailable, indexing disabled: %v", err)
		return repo
	}
	log.Printf("Indexing rounds into Elasticsearch at %s", cfg.Elasticsearch.URL)
	return esRepo
}

func startMetricsServer(addr string) *http.Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Metrics server failed: %v", err)
		}
	}()
	log.Printf("Serving metrics on %s", addr)
	return srv
}
