package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spacesedan/punchline/config"
	"github.com/spacesedan/punchline/internal/clients"
	"github.com/spacesedan/punchline/internal/logging"
	"github.com/spacesedan/punchline/internal/persist"
	"github.com/spacesedan/punchline/internal/publish"
	"github.com/spacesedan/punchline/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	forceRefresh := flag.Bool("refresh", false, "fetch fresh headlines even when jokes are persisted")
	watch := flag.Bool("watch", false, "keep running: refresh every REFRESH_INTERVAL and on SIGHUP")
	flag.Parse()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		logging.InitLogger("info")
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		return 1
	}
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	newsClient := clients.NewNewsAPIClient(cfg.News, cfg.UseMockData)
	jokeClient, err := clients.NewJokeClient(cfg.AI)
	if err != nil {
		slog.Error("[Main] Failed to build joke backend", slog.String("error", err.Error()))
		return 1
	}

	storage, err := persist.Open(ctx, cfg.Persistence)
	if err != nil {
		slog.Warn("[Main] Persistence unavailable, jokes will not survive a restart",
			slog.String("backend", cfg.Persistence.Backend),
			slog.String("error", err.Error()))
		storage = persist.NewMemoryStorage()
	}
	defer storage.Close()

	var publisher store.Publisher
	if cfg.Kafka.Broker != "" {
		kp, err := publish.NewKafkaPublisher(cfg.Kafka)
		if err != nil {
			slog.Warn("[Main] Kafka publisher disabled", slog.String("error", err.Error()))
		} else {
			defer kp.Close()
			publisher = kp
		}
	}

	st := store.New(store.Deps{
		Headlines:     newsClient,
		Generator:     jokeClient,
		Archive:       persist.NewJokeArchive(storage),
		Publisher:     publisher,
		ArticlesCount: cfg.ArticlesCount,
	})

	if err := st.Restore(ctx); err != nil {
		slog.Warn("[Main] Starting without persisted jokes", slog.String("error", err.Error()))
	}

	if *forceRefresh || len(st.Snapshot().Jokes) == 0 {
		runRefresh(ctx, st)
	}
	renderView(os.Stdout, st.View(), cfg.UseMockData)

	if !*watch {
		if !st.Snapshot().Idle() {
			return 1
		}
		return 0
	}

	watchLoop(ctx, st, cfg)
	return 0
}

func runRefresh(ctx context.Context, st *store.Store) {
	start := time.Now()
	err := st.Refresh(ctx)
	switch {
	case err == nil:
		slog.Info("[Main] Refresh finished", slog.Duration("elapsed", time.Since(start)))
	case errors.Is(err, store.ErrSuperseded):
		slog.Info("[Main] Refresh superseded by a newer one")
	default:
		slog.Warn("[Main] Refresh failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
	}
}

// watchLoop feeds refresh jobs to a single worker. A tick that arrives while a
// refresh is queued is dropped rather than stacked.
func watchLoop(ctx context.Context, st *store.Store, cfg config.Config) {
	var tick <-chan time.Time
	if cfg.RefreshInterval > 0 {
		ticker := time.NewTicker(cfg.RefreshInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	refreshChan := make(chan func(), 1)
	var wg sync.WaitGroup

	go func() {
		for job := range refreshChan {
			job()
			wg.Done()
		}
	}()

	enqueue := func(reason string) {
		wg.Add(1)
		select {
		case refreshChan <- func() {
			runRefresh(ctx, st)
			renderView(os.Stdout, st.View(), cfg.UseMockData)
		}:
			slog.Info("[Main] Refresh queued", slog.String("reason", reason))
		default:
			wg.Done()
			slog.Debug("[Main] Refresh already queued, skipping", slog.String("reason", reason))
		}
	}

	slog.Info("[Main] Watching for refreshes",
		slog.Duration("interval", cfg.RefreshInterval))

	for {
		select {
		case <-tick:
			enqueue("interval")

		case <-hup:
			enqueue("signal")

		case <-ctx.Done():
			slog.Info("[Main] Shutting down gracefully...")
			close(refreshChan)
			wg.Wait()
			return
		}
	}
}
