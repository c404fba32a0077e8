package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/config"
	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/adapters/feed"
	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/adapters/jito"
	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/adapters/notify"
	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/adapters/onchain"
	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/adapters/registry"
	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/adapters/storage"
	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/application/builder"
	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/application/engine"
	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/application/scanner"
	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/ports"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one cycle and exit")
	dryRun := flag.Bool("dry-run", false, "scan and report, never submit bundles")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *dryRun {
		cfg.Engine.DryRun = true
	}
	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "err", err)
		os.Exit(1)
	}
	keys := cfg.Keys()

	slog.Info("arbbot starting",
		"config", *configPath,
		"interval", cfg.ScanInterval(),
		"probe_sol", domain.SOL(cfg.ProbeLamports()).String(),
		"dry_run", cfg.Engine.DryRun,
		"once", *once,
	)

	pairs, err := registry.Load(cfg.Registry.Path)
	if err != nil {
		slog.Error("failed to load token registry", "err", err, "path", cfg.Registry.Path)
		os.Exit(1)
	}
	cursor := scanner.NewCursor(pairs, cfg.Engine.BatchSize)

	client := feed.NewClient(cfg.Feed.Base)

	scn := scanner.New(scanner.Config{
		Probe:          cfg.ProbeLamports(),
		MinProfit:      cfg.MinProfitLamports(),
		MinProfitBps:   cfg.Scanner.MinProfitBps,
		SlippageBps:    cfg.Scanner.SlippageBps,
		FacilityFeeBps: cfg.Solana.FacilityFeeBps,
		TipLamports:    cfg.TipLamports(),
		SignatureFee:   cfg.Scanner.SignatureFee,
		Workers:        cfg.Scanner.Workers,
		FetchTimeout:   cfg.FetchTimeout(),
	}, client, client)

	facility := onchain.NewFacility(keys.Facility, keys.Vault, cfg.Solana.FacilityFeeBps)
	bookSwap := onchain.NewBookSwap(keys.Receiver, keys.DEX)
	poolSwap := onchain.NewPoolSwap(keys.Receiver, keys.AMM)
	bundles := builder.New(facility, bookSwap, poolSwap)

	submitter := jito.NewSubmitter(cfg.Solana.RPCEndpoint, cfg.Solana.BlockEngine, keys.TipAccount, keys.Payer)

	sinks := []ports.Notifier{notify.NewConsole()}
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != "" {
		sinks = append(sinks, notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID))
		slog.Info("telegram notifier enabled", "chat_id", cfg.Telegram.ChatID)
	}
	notifier := notify.NewFanout(sinks...)

	var journal ports.Journal
	if !cfg.Engine.DryRun {
		store, err := storage.NewSQLiteJournal(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open journal", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer store.Close()
		journal = store
	}

	eng := engine.New(engine.Config{
		Interval:        cfg.ScanInterval(),
		SubmitTimeout:   cfg.SubmitTimeout(),
		HealthThreshold: cfg.Engine.HealthThreshold,
		DryRun:          cfg.Engine.DryRun,
		Payer:           keys.PayerPublicKey(),
	}, cursor, scn, bundles, submitter, notifier, journal)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *once {
		summary := eng.RunOnce(ctx)
		slog.Info("single cycle done",
			"pairs", summary.PairsScanned,
			"opportunities", len(summary.Opportunities),
			"confirmed", summary.ConfirmedCount(),
		)
		return
	}

	if err := eng.Run(ctx); err != nil {
		slog.Error("engine exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("arbbot stopped cleanly")
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
