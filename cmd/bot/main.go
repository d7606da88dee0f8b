package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"SignalsPro/internal/backtest"
	"SignalsPro/internal/broker"
	"SignalsPro/internal/collector"
	"SignalsPro/internal/config"
	"SignalsPro/internal/logger"
	"SignalsPro/internal/notifier"
	"SignalsPro/internal/recorder"
	"SignalsPro/internal/scheduler"
	"SignalsPro/internal/session"
	"SignalsPro/internal/strategy"
)

func main() {
	if err := logger.Init("info", false); err != nil {
		panic(err)
	}
	defer logger.Sync()
	logger.Info("SignalsPro starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatal("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("config validation: %v", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		logger.Fatal("init logger: %v", err)
	}
	logger.SetServiceName(cfg.Log.Service)

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource.Kind {
	case "broker":
		fetcher = collector.NewBrokerAPIFetcher(cfg.Broker.BaseURL, cfg.Broker.APIKey, cfg.Proxy).
			WithCredentials(cfg.Broker.Email, cfg.Broker.Password)
	case "mock":
		fetcher = &collector.MockFetcher{}
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	logger.Info("data source: %s", fetcher.Name())
	col := collector.NewCollector(fetcher, cfg.Market.CandleCount, cfg.Market.MinCandles)

	// Init order placer
	var placer broker.OrderPlacer
	if cfg.Broker.Mode == "rest" {
		placer = broker.NewRESTBroker(cfg.Broker.BaseURL, cfg.Broker.APIKey, cfg.Broker.Email, cfg.Broker.Password, cfg.Proxy)
	} else {
		placer = broker.NewPaperBroker(cfg.Broker.DemoBalance)
	}
	logger.Info("order placer: %s", placer.Name())

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			logger.Warn("init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	sm := session.NewManager(col, placer, rec, session.Options{
		Params: strategy.Params{RSIPeriod: cfg.Strategy.RSIPeriod, SMAPeriod: cfg.Strategy.SMAPeriod},
		Backtest: backtest.Options{
			WindowSize: cfg.Backtest.WindowSize,
			Flat:       cfg.FlatPolicy(),
		},
		BacktestCandles: cfg.Backtest.CandleCount,
		OrderAmount:     cfg.Order.Amount,
	})

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Telegram notifier, falling back to the log without a token
	var sender notifier.Sender = notifier.LogNotifier{}
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" {
		tn, err = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		if err != nil {
			logger.Fatal("init telegram: %v", err)
		}
		sender = tn
	} else {
		logger.Warn("telegram.bot_token not set, notifications go to the log only")
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, sm, sender, cfg)
	if err := sched.RegisterAll(cfg.Schedule.SignalCron, cfg.Schedule.BacktestCron); err != nil {
		logger.Fatal("register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info("telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info("RUN_ON_START enabled, executing signal task now")
		go sched.RunSignalsNow()
	}

	logger.Info("SignalsPro is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received, stopping...")
	cancel()
	logger.Info("SignalsPro stopped")
}
