package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ani07-05/brickdash/api"
	"github.com/Ani07-05/brickdash/api/routes"
	attendancesvc "github.com/Ani07-05/brickdash/internal/attendance"
	authsvc "github.com/Ani07-05/brickdash/internal/auth"
	batchsvc "github.com/Ani07-05/brickdash/internal/batches"
	"github.com/Ani07-05/brickdash/internal/dashboard"
	employeesvc "github.com/Ani07-05/brickdash/internal/employees"
	inventorysvc "github.com/Ani07-05/brickdash/internal/inventory"
	ordersvc "github.com/Ani07-05/brickdash/internal/orders"
	payrollsvc "github.com/Ani07-05/brickdash/internal/payroll"
	productsvc "github.com/Ani07-05/brickdash/internal/products"
	tasksvc "github.com/Ani07-05/brickdash/internal/tasks"
	"github.com/Ani07-05/brickdash/internal/users"
	"github.com/Ani07-05/brickdash/pkg/auth/session"
	"github.com/Ani07-05/brickdash/pkg/config"
	"github.com/Ani07-05/brickdash/pkg/db"
	"github.com/Ani07-05/brickdash/pkg/logger"
	"github.com/Ani07-05/brickdash/pkg/migrate"
	"github.com/Ani07-05/brickdash/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	productRepo := productsvc.NewRepository(gormDB)
	inventoryRepo := inventorysvc.NewRepository(gormDB)
	batchRepo := batchsvc.NewRepository(gormDB)
	orderRepo := ordersvc.NewRepository(gormDB)
	employeeRepo := employeesvc.NewRepository(gormDB)
	attendanceRepo := attendancesvc.NewRepository(gormDB)
	taskRepo := tasksvc.NewRepository(gormDB)
	payrollRepo := payrollsvc.NewRepository(gormDB)
	dashboardRepo := dashboard.NewRepository(gormDB)
	userRepo := users.NewRepository(gormDB)

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	fatalIf(logg, err, "failed to create auth service")

	registerService, err := authsvc.NewRegisterService(authsvc.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	fatalIf(logg, err, "failed to create register service")

	productService, err := productsvc.NewService(productRepo, dbClient)
	fatalIf(logg, err, "failed to create product service")

	inventoryService, err := inventorysvc.NewService(inventoryRepo, dbClient)
	fatalIf(logg, err, "failed to create inventory service")

	batchService, err := batchsvc.NewService(batchRepo, dbClient, productRepo, orderRepo)
	fatalIf(logg, err, "failed to create batch service")

	orderService, err := ordersvc.NewService(orderRepo, dbClient, productRepo)
	fatalIf(logg, err, "failed to create order service")

	employeeService, err := employeesvc.NewService(employeeRepo, dbClient)
	fatalIf(logg, err, "failed to create employee service")

	attendanceService, err := attendancesvc.NewService(attendanceRepo, dbClient, employeeRepo)
	fatalIf(logg, err, "failed to create attendance service")

	taskService, err := tasksvc.NewService(taskRepo, dbClient, employeeRepo)
	fatalIf(logg, err, "failed to create task service")

	payrollService, err := payrollsvc.NewService(payrollRepo, dbClient, employeeRepo, attendanceRepo)
	fatalIf(logg, err, "failed to create payroll service")

	dashboardService, err := dashboard.NewService(dashboardRepo)
	fatalIf(logg, err, "failed to create dashboard service")

	handler := routes.NewRouter(routes.Params{
		Config:     cfg,
		Logger:     logg,
		DB:         dbClient,
		Redis:      redisClient,
		Session:    sessionManager,
		Auth:       authService,
		Register:   registerService,
		Products:   productService,
		Inventory:  inventoryService,
		Batches:    batchService,
		Orders:     orderService,
		Employees:  employeeService,
		Attendance: attendanceService,
		Tasks:      taskService,
		Payroll:    payrollService,
		Dashboard:  dashboardService,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"port": cfg.App.Port,
	})
	logg.Info(runCtx, "starting api server")

	server := api.NewServer(cfg, handler, logg)
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func fatalIf(logg *logger.Logger, err error, msg string) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
