package commands

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/history"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/notify"
	"git.home.luguber.info/inful/docsite/internal/reload"
	"git.home.luguber.info/inful/docsite/internal/server/httpserver"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr  string `help:"Listen address (overrides server.address)"`
	Root  string `help:"Content root (overrides content.root)" type:"path"`
	Watch bool   `help:"Rebuild the index when content changes (overrides watch.enabled)"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Server.Address = s.Addr
	}
	if s.Root != "" {
		cfg.Content.Root = s.Root
	}
	if s.Watch {
		cfg.Watch.Enabled = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunServe(ctx, cfg, g.Version, nil)
}

// RunServe indexes the content, serves it until ctx is done and then shuts down.
// started, when set, receives the bound address once the listener is up.
func RunServe(ctx context.Context, cfg *config.Config, version string, started func(addr string)) error {
	logger := slog.Default()

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("Failed to close reload history", logfields.Error(cerr))
		}
	}()

	pub, err := notify.New(notify.Options{URL: cfg.Notify.NATSURL, Subject: cfg.Notify.Subject, Timeout: cfg.Notify.Timeout})
	if err != nil {
		logger.Warn("NATS notifications disabled", logfields.Error(err))
		pub = notify.Noop{}
	}
	defer func() { _ = pub.Close() }()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = metrics.NewPrometheusRecorder(reg)
		metricsHandler = metrics.HTTPHandler(reg)
	}

	holder := content.NewHolder(nil)
	reloader := reload.New(newIndexer(cfg), holder,
		reload.WithHistory(store),
		reload.WithPublisher(pub),
		reload.WithRecorder(recorder),
		reload.WithLogger(logger))
	if _, err := reloader.Reload(ctx, reload.TriggerStartup); err != nil {
		return err
	}

	srv := httpserver.New(cfg, holder, httpserver.Options{
		Reloader:       reloader,
		History:        store,
		Recorder:       recorder,
		MetricsHandler: metricsHandler,
		Version:        version,
		Logger:         logger,
	})
	if err := srv.Start(ctx); err != nil {
		return err
	}
	if started != nil {
		started(srv.Addr())
	}

	rebuild := func(trigger string) func(context.Context) {
		return func(ctx context.Context) { _, _ = reloader.Reload(ctx, trigger) }
	}

	var wg sync.WaitGroup
	if cfg.Watch.Enabled {
		w := reload.NewWatcher(cfg.Content.Root, cfg.Watch.Debounce, rebuild(reload.TriggerWatch))
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.Run(ctx); err != nil {
				logger.Warn("Content watcher stopped", logfields.Error(err))
			}
		}()
	}

	if cfg.Watch.RescanInterval > 0 {
		sched, err := reload.NewScheduler()
		if err != nil {
			logger.Warn("Periodic rescans disabled", logfields.Error(err))
		} else {
			if _, err := sched.ScheduleRescan(ctx, cfg.Watch.RescanInterval, rebuild(reload.TriggerSchedule)); err != nil {
				logger.Warn("Periodic rescans disabled", logfields.Error(err))
			}
			sched.Start()
			defer func() {
				if err := sched.Stop(); err != nil {
					logger.Warn("Failed to stop scheduler", logfields.Error(err))
				}
			}()
		}
	}

	<-ctx.Done()
	logger.Info("Shutdown signal received, stopping server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	stopErr := srv.Stop(shutdownCtx)
	wg.Wait()
	if stopErr != nil {
		return stopErr
	}
	logger.Info("Server stopped")
	return nil
}
