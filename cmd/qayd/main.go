package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/qayd-erp/qayd/internal/accounting"
	"github.com/qayd-erp/qayd/internal/accounting/accounts"
	"github.com/qayd-erp/qayd/internal/accounting/mappings"
	"github.com/qayd-erp/qayd/internal/accounting/vouchers"
	"github.com/qayd-erp/qayd/internal/app"
	"github.com/qayd-erp/qayd/internal/inventory"
	"github.com/qayd-erp/qayd/internal/masterdata/branches"
	"github.com/qayd-erp/qayd/internal/masterdata/costcenters"
	"github.com/qayd-erp/qayd/internal/masterdata/items"
	"github.com/qayd-erp/qayd/internal/observability"
	"github.com/qayd-erp/qayd/internal/platform/cache"
	"github.com/qayd-erp/qayd/internal/platform/db"
	"github.com/qayd-erp/qayd/internal/shared"
	"github.com/qayd-erp/qayd/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	// Reports fall back to uncached builds when Redis is down, so a failed
	// connect only costs performance.
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, reports uncached", slog.Any("error", err))
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	reportCache := accounting.NewCache(redisClient, cfg.ReportCacheTTL)
	if err := reportCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}

	vouchersRepo := vouchers.NewRepository(dbpool)
	vouchersService := vouchers.NewService(vouchersRepo, vouchers.Config{
		VATRate:             cfg.VATRate,
		CashAccount:         cfg.CashAccount,
		BankAccount:         cfg.BankAccount,
		ReceivableAccount:   cfg.ReceivableAccount,
		PayableAccount:      cfg.PayableAccount,
		VATOutputAccount:    cfg.VATOutputAccount,
		VATInputAccount:     cfg.VATInputAccount,
		SalesReturnsAccount: cfg.SalesReturnsAccount,
		ReturnUnitCost:      cfg.ReturnUnitCostDecimal(),
	}, reportCache)
	idempotencyStore := shared.NewIdempotencyStore(dbpool)
	vouchersHandler := vouchers.NewHandler(logger, vouchersService, idempotencyStore)

	reportsRepo := accounting.NewRepository(dbpool)
	reportsService := accounting.NewService(reportsRepo, reportCache)
	reportsHandler := accounting.NewHandler(logger, reportsService)

	accountsRepo := accounts.NewRepository(dbpool)
	accountsHandler := accounts.NewHandler(logger, accounts.NewService(accountsRepo))

	mappingsRepo := mappings.NewRepository(dbpool)
	mappingsHandler := mappings.NewHandler(logger, mappings.NewService(mappingsRepo))

	inventoryRepo := inventory.NewRepository(dbpool)
	inventoryHandler := inventory.NewHandler(logger, inventory.NewLedger(inventoryRepo))

	itemsHandler := items.NewHandler(logger, items.NewService(items.NewRepository(dbpool)))
	branchesHandler := branches.NewHandler(logger, branches.NewService(branches.NewRepository(dbpool)))
	costCentersHandler := costcenters.NewHandler(logger, costcenters.NewService(costcenters.NewRepository(dbpool)))

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		VouchersHandler:    vouchersHandler,
		ReportsHandler:     reportsHandler,
		AccountsHandler:    accountsHandler,
		MappingsHandler:    mappingsHandler,
		InventoryHandler:   inventoryHandler,
		ItemsHandler:       itemsHandler,
		BranchesHandler:    branchesHandler,
		CostCentersHandler: costCentersHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
