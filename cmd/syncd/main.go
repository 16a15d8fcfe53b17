package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"calsync/internal/config"
	"calsync/internal/domain"
	"calsync/internal/engine"
	"calsync/internal/notify"
	"calsync/internal/provider/googlecal"
	"calsync/internal/provider/icsfeed"
	"calsync/internal/provider/mscal"
	"calsync/internal/scheduler"
	"calsync/internal/storage/sqlite"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("opened local store", "path", cfg.Database.Path)

	// Initialize stores
	recordStore := sqlite.NewRecordStore(db)
	linkStore := sqlite.NewLinkStore(db)
	txManager := sqlite.NewTransactionManager(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := seedLinks(ctx, linkStore, cfg.Links); err != nil {
		logger.Error("failed to seed provider links", "error", err)
		os.Exit(1)
	}

	// Change notifier: always in-process, optionally bridged to AMQP.
	broadcaster := notify.NewBroadcaster()
	notifier := notify.Multi{broadcaster}
	if cfg.Notifier.AMQP.Enabled {
		bridge, err := notify.NewAMQPBridge(notify.AMQPConfig{
			URL:        cfg.Notifier.AMQP.URL,
			Exchange:   cfg.Notifier.AMQP.Exchange,
			RoutingKey: cfg.Notifier.AMQP.RoutingKey,
			QueueName:  cfg.Notifier.AMQP.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer bridge.Close()
		notifier = append(notifier, bridge)
	}

	// Provider adapters
	providers := []engine.Provider{
		googlecal.New(googlecal.Config{
			BaseURL:        cfg.Google.BaseURL,
			Timeout:        cfg.Google.Timeout,
			MaxAttempts:    cfg.Google.Retry.MaxAttempts,
			InitialBackoff: cfg.Google.Retry.InitialBackoff,
			MaxBackoff:     cfg.Google.Retry.MaxBackoff,
		}, logger),
		mscal.New(mscal.Config{
			BaseURL:        cfg.Microsoft.BaseURL,
			Timeout:        cfg.Microsoft.Timeout,
			MaxAttempts:    cfg.Microsoft.Retry.MaxAttempts,
			InitialBackoff: cfg.Microsoft.Retry.InitialBackoff,
			MaxBackoff:     cfg.Microsoft.Retry.MaxBackoff,
		}, logger),
		icsfeed.New(icsfeed.Config{
			Timeout:        cfg.ICS.Timeout,
			Horizon:        time.Duration(cfg.ICS.HorizonDays) * 24 * time.Hour,
			MaxOccurrences: cfg.ICS.MaxOccurrences,
		}, logger),
	}

	eng := engine.New(providers, recordStore, linkStore, txManager, notifier, logger)

	sched := scheduler.NewScheduler(eng, scheduler.Config{
		Interval:    cfg.Sync.Interval,
		CronSpec:    cfg.Sync.Cron,
		PassTimeout: cfg.Sync.PassTimeout,
		Debounce:    cfg.Sync.Debounce,
	}, logger)

	changes, unsubscribe := broadcaster.Subscribe()
	defer unsubscribe()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("starting calendar sync daemon",
		"interval", cfg.Sync.Interval,
		"links", len(cfg.Links),
	)

	if err := sched.Start(ctx, changes); err != nil && err != context.Canceled {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

// seedLinks upserts config-declared provider links; links added at
// runtime are unaffected.
func seedLinks(ctx context.Context, links *sqlite.LinkStore, declared []config.LinkConfig) error {
	for _, lc := range declared {
		enabled := true
		if lc.Enabled != nil {
			enabled = *lc.Enabled
		}
		color := lc.Color
		if color == "" {
			color = "#C7251D"
		}
		link := &domain.ProviderLink{
			ID:            uuid.New(),
			Provider:      lc.Provider,
			Name:          lc.Name,
			Endpoint:      lc.Endpoint,
			CredentialRef: lc.CredentialRef,
			Enabled:       enabled,
			Primary:       lc.Primary,
			ColorHex:      color,
			CreatedAt:     time.Now().UTC(),
		}
		if err := links.Save(ctx, link); err != nil {
			return err
		}
	}
	return nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
