package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/slash/internal/api/handlers"
	"github.com/donaldgifford/slash/internal/cache"
	"github.com/donaldgifford/slash/internal/config"
	"github.com/donaldgifford/slash/internal/engine"
	"github.com/donaldgifford/slash/internal/notify"
	"github.com/donaldgifford/slash/internal/retail"
	"github.com/donaldgifford/slash/internal/store"
	"github.com/donaldgifford/slash/internal/telemetry"
	"github.com/donaldgifford/slash/pkg/logger"
	domain "github.com/donaldgifford/slash/pkg/types"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and alert scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer, shutdownTracer, err := telemetry.Setup(ctx, &cfg.Telemetry, log)
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracer(sctx); err != nil {
			log.Warn("flushing traces", "error", err)
		}
	}()

	st, err := store.NewPostgresStore(ctx, cfg.Database.DSN(), cfg.Database.PoolSize)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	var healthOpts []handlers.HealthOption

	sources, err := retail.SourcesFromConfig(&cfg.Sources)
	if err != nil {
		return fmt.Errorf("building sources: %w", err)
	}
	// Alert passes compare against live prices and never read the cache.
	live := retail.NewRegistry(sources...)
	if cfg.Cache.Enabled() {
		mc := cache.NewMemcacheStore(cfg.Cache.Servers...)
		for i := range sources {
			sources[i] = cache.Wrap(sources[i], mc, cfg.Cache.TTL, log)
		}
		healthOpts = append(healthOpts, handlers.WithReadinessCheck("cache", func(context.Context) error {
			return mc.Ping()
		}))
		log.Info("result cache enabled", "servers", cfg.Cache.Servers, "ttl", cfg.Cache.TTL)
	}

	notifier, closeNotifier := buildNotifier(&cfg.Notifications, log)
	defer closeNotifier()

	eng := engine.NewEngine(st, retail.NewRegistry(sources...), notifier,
		engine.WithLogger(log),
		engine.WithTracer(tracer),
		engine.WithLiveSource(domain.Site(cfg.Alerts.LiveSource)),
		engine.WithLiveSources(live),
		engine.WithConcurrency(cfg.Sources.Concurrency),
	)

	sched, err := engine.NewScheduler(eng, cfg.Alerts.Interval, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	sched.Start()
	defer func() {
		<-sched.Stop().Done()
		log.Info("scheduler stopped")
	}()

	e := newRouter(log, st, eng, healthOpts...)
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server",
		"addr", addr,
		"sources", sourceNames(sources),
		"alert_interval", cfg.Alerts.Interval,
		"live_source", cfg.Alerts.LiveSource,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("shutting down server")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// buildNotifier assembles the configured sinks. With no sink enabled alerts
// are logged and dropped. The returned func releases sink connections.
func buildNotifier(cfg *config.NotificationsConfig, log *slog.Logger) (notify.Notifier, func()) {
	var (
		sinks   notify.Multi
		closers []func()
	)

	if cfg.Email.Enabled {
		sinks = append(sinks, notify.NewEmailNotifier(notify.SMTPConfig{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
		}, notify.WithMaxPerSecond(cfg.Email.MaxPerSecond)))
	}

	if cfg.Discord.Enabled {
		sinks = append(sinks, notify.NewDiscordNotifier(cfg.Discord.WebhookURL))
	}

	if cfg.Redis.Enabled {
		rc := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		sinks = append(sinks, notify.NewRedisNotifier(rc, cfg.Redis.Stream, cfg.Redis.MaxLen))
		closers = append(closers, func() {
			if err := rc.Close(); err != nil {
				log.Warn("closing redis client", "error", err)
			}
		})
	}

	var n notify.Notifier
	switch len(sinks) {
	case 0:
		log.Warn("no notification sink enabled, alerts will only be logged")
		n = notify.NewNoOpNotifier(log)
	case 1:
		n = sinks[0]
	default:
		n = sinks
	}

	if !cfg.SendEmpty() {
		n = notify.SkipEmpty(n)
	}

	return n, func() {
		for _, c := range closers {
			c()
		}
	}
}

func sourceNames(sources []retail.Source) []string {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = string(s.Name())
	}
	return names
}
