package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	attendancesvc "github.com/Ani07-05/brickdash/internal/attendance"
	"github.com/Ani07-05/brickdash/internal/cron"
	employeesvc "github.com/Ani07-05/brickdash/internal/employees"
	inventorysvc "github.com/Ani07-05/brickdash/internal/inventory"
	payrollsvc "github.com/Ani07-05/brickdash/internal/payroll"
	"github.com/Ani07-05/brickdash/pkg/config"
	"github.com/Ani07-05/brickdash/pkg/db"
	"github.com/Ani07-05/brickdash/pkg/logger"
	"github.com/Ani07-05/brickdash/pkg/metrics"
	"github.com/Ani07-05/brickdash/pkg/migrate"
	"github.com/Ani07-05/brickdash/pkg/redis"
)

const lockName = "cron-worker"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.Features.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gormDB := dbClient.DB()
	employeeRepo := employeesvc.NewRepository(gormDB)
	attendanceRepo := attendancesvc.NewRepository(gormDB)

	inventoryService, err := inventorysvc.NewService(inventorysvc.NewRepository(gormDB), dbClient)
	fatalIf(logg, err, "failed to create inventory service")

	payrollService, err := payrollsvc.NewService(payrollsvc.NewRepository(gormDB), dbClient, employeeRepo, attendanceRepo)
	fatalIf(logg, err, "failed to create payroll service")

	retentionJob, err := cron.NewInventoryLogRetentionJob(cron.InventoryLogRetentionJobParams{
		Logger:        logg,
		Pruner:        inventoryService,
		RetentionDays: cfg.Cron.LogRetentionDays,
	})
	fatalIf(logg, err, "failed to create inventory log retention job")

	salaryJob, err := cron.NewSalaryGenerationJob(cron.SalaryGenerationJobParams{
		Logger:  logg,
		Payroll: payrollService,
	})
	fatalIf(logg, err, "failed to create salary generation job")

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(lockName), cfg.Cron.LockTTL)
	fatalIf(logg, err, "failed to create cron lock")

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(retentionJob, salaryJob),
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.InventoryLogSweep,
	})
	fatalIf(logg, err, "failed to create cron service")

	go serveMetrics(cfg, logg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}
}

func serveMetrics(cfg *config.Config, logg *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", cfg.Cron.MetricsPort)
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(context.Background(), "metrics server stopped", err)
	}
}

func fatalIf(logg *logger.Logger, err error, msg string) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
