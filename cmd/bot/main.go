package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"github.com/ogurasousui/hr-intake-bot/internal/adapters/ledger"
	memrepo "github.com/ogurasousui/hr-intake-bot/internal/adapters/repository/memory"
	pgrepo "github.com/ogurasousui/hr-intake-bot/internal/adapters/repository/postgres"
	"github.com/ogurasousui/hr-intake-bot/internal/adapters/sheets"
	"github.com/ogurasousui/hr-intake-bot/internal/adapters/telegram"
	"github.com/ogurasousui/hr-intake-bot/internal/core/identity"
	"github.com/ogurasousui/hr-intake-bot/internal/core/intake"
	"github.com/ogurasousui/hr-intake-bot/internal/core/workflow"
	"github.com/ogurasousui/hr-intake-bot/internal/platform/config"
	pg "github.com/ogurasousui/hr-intake-bot/internal/platform/db/postgres"
	"github.com/ogurasousui/hr-intake-bot/internal/platform/obs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	obs.Init()

	var repo intake.Repository
	switch cfg.Storage.Mode {
	case config.StoragePostgres:
		pool, err := pg.NewPool(ctx, cfg.Storage.Database)
		if err != nil {
			log.Error("failed to initialize database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		repo = pgrepo.NewRequestRepository(pool)
	default:
		repo = memrepo.NewRequestRepository()
	}

	var notifier intake.Notifier
	if cfg.Ledger.Enabled {
		notifier = ledger.NewClient(cfg.Ledger.Endpoint, cfg.Ledger.Timeout)
	}

	sheetClient := sheets.NewClient(cfg.Sheets.LookupTimeout)
	tokenDir := sheets.NewIdentityDirectory(sheetClient, cfg.Sheets.TokensURL)
	employeeDir := sheets.NewEmployeeDirectory(sheetClient, cfg.Sheets.EmployeesURL)

	queue := intake.NewService(repo, notifier, nil, log)
	gate := identity.NewGate(tokenDir, identity.NewSessionStore(), log)
	flow := workflow.NewService(employeeDir, queue, log)

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("failed to connect to telegram", "error", err)
		os.Exit(1)
	}
	log.Info("bot authorized", "username", bot.Self.UserName)

	dispatcher := telegram.NewDispatcher(bot, gate, flow, queue, cfg.Telegram.PollTimeout, log)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dispatcher.Run(ctx)
	})
	g.Go(func() error {
		return obs.Serve(ctx, cfg.Obs.ListenAddr)
	})

	if err := g.Wait(); err != nil {
		log.Error("stopped with error", "error", err)
		os.Exit(1)
	}
}
