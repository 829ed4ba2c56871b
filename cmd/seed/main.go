package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Ani07-05/brickdash/pkg/config"
	"github.com/Ani07-05/brickdash/pkg/db"
	"github.com/Ani07-05/brickdash/pkg/db/models"
	"github.com/Ani07-05/brickdash/pkg/enums"
	"github.com/Ani07-05/brickdash/pkg/logger"
	"github.com/Ani07-05/brickdash/pkg/migrate"
	"github.com/Ani07-05/brickdash/pkg/security"
)

// Seed data mirrors the brickyard's original sample dataset: three login
// accounts, the brick catalog, the worker roster, and the three
// production stages. Running twice is a no-op.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	cfg, err := config.Load()
	fatalIf(logg, err, "failed to load config")

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(ctx, cfg.DB, cfg.Features.UseSQLite, logg)
	fatalIf(logg, err, "failed to bootstrap database")
	defer dbClient.Close()

	err = migrate.MaybeRunDev(ctx, cfg, logg, dbClient)
	fatalIf(logg, err, "failed to run dev migrations")

	err = dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			logg.Info(ctx, "sample data already present, skipping")
			return nil
		}

		if err := seedStages(tx); err != nil {
			return err
		}
		if err := seedProducts(tx); err != nil {
			return err
		}
		employeeByCode, err := seedEmployees(tx)
		if err != nil {
			return err
		}
		return seedUsers(tx, cfg.Password, employeeByCode)
	})
	fatalIf(logg, err, "seeding failed")

	logg.Info(ctx, "sample data inserted")
	fmt.Println("Default credentials:")
	fmt.Println("  Manager:    admin / admin123")
	fmt.Println("  Supervisor: supervisor / super123")
	fmt.Println("  Employee:   employee / emp123")
}

func seedStages(tx *gorm.DB) error {
	stages := []models.InventoryStage{
		{StageNumber: 1, StageName: "Forming", Capacity: 1000},
		{StageNumber: 2, StageName: "Drying", Capacity: 1000},
		{StageNumber: 3, StageName: "Finishing", Capacity: 1000},
	}
	for i := range stages {
		if err := tx.Create(&stages[i]).Error; err != nil {
			return fmt.Errorf("seed stage %s: %w", stages[i].StageName, err)
		}
	}
	return nil
}

func seedProducts(tx *gorm.DB) error {
	products := []models.Product{
		{Name: "Red Bricks (Standard)", Category: "Bricks", PricePerUnit: decimal.NewFromInt(8), Unit: "piece", StockQuantity: 50000, Description: "Standard red clay bricks"},
		{Name: "Fly Ash Bricks", Category: "Bricks", PricePerUnit: decimal.NewFromInt(6), Unit: "piece", StockQuantity: 30000, Description: "Eco-friendly fly ash bricks"},
		{Name: "Cement Blocks", Category: "Blocks", PricePerUnit: decimal.NewFromInt(45), Unit: "piece", StockQuantity: 10000, Description: "Heavy duty cement blocks"},
		{Name: "Paver Blocks", Category: "Blocks", PricePerUnit: decimal.NewFromInt(35), Unit: "piece", StockQuantity: 15000, Description: "Interlocking paver blocks"},
		{Name: "Fire Bricks", Category: "Bricks", PricePerUnit: decimal.NewFromInt(25), Unit: "piece", StockQuantity: 5000, Description: "Heat resistant fire bricks"},
	}
	for i := range products {
		if err := tx.Create(&products[i]).Error; err != nil {
			return fmt.Errorf("seed product %s: %w", products[i].Name, err)
		}
	}
	return nil
}

type seedEmployee struct {
	code     string
	name     string
	role     string
	phone    string
	salary   int64
	isActive bool
}

func seedEmployees(tx *gorm.DB) (map[string]uint, error) {
	roster := []seedEmployee{
		{"BRK011", "Ravi", "Worker", "9876543219", 15000, true},
		{"BRK012", "Ramesh", "Worker", "9876543218", 15000, true},
		{"BRK013", "Selvam", "Truck Driver", "9876543217", 17000, true},
		{"BRK014", "Gopi", "Supervisor", "9876543216", 16000, true},
		{"BRK015", "Saravanan", "Quality Checker", "9876543215", 12000, true},
		{"BRK016", "Illa", "Supervisor", "9876543214", 14000, false},
		{"BRK017", "Vinoth", "Security", "9876543213", 25000, true},
		{"BRK018", "Dinesh", "Loader", "9876543212", 16000, true},
		{"BRK019", "Kumar", "Loader", "9876543211", 22000, false},
		{"BRK020", "Murugan", "Security", "9876543210", 12000, true},
	}

	joined := time.Now().UTC().Truncate(24 * time.Hour)
	byCode := make(map[string]uint, len(roster))
	for _, row := range roster {
		emp := models.Employee{
			EmployeeCode: row.code,
			Name:         row.name,
			Role:         row.role,
			Phone:        row.phone,
			Address:      "Chennai",
			Salary:       decimal.NewFromInt(row.salary),
			IsActive:     row.isActive,
			JoinedDate:   joined,
		}
		if err := tx.Create(&emp).Error; err != nil {
			return nil, fmt.Errorf("seed employee %s: %w", row.code, err)
		}
		byCode[row.code] = emp.ID
	}

	// Advance the employee code counter past the seeded roster so the
	// next onboarding yields BRK021.
	counter := models.SequenceCounter{Name: db.CounterEmployeeCode, Value: 20}
	if err := tx.Create(&counter).Error; err != nil {
		return nil, fmt.Errorf("seed employee counter: %w", err)
	}
	return byCode, nil
}

func seedUsers(tx *gorm.DB, passwordCfg config.PasswordConfig, employeeByCode map[string]uint) error {
	raviID := employeeByCode["BRK011"]
	accounts := []struct {
		username   string
		password   string
		role       enums.UserRole
		employeeID *uint
	}{
		{"admin", "admin123", enums.RoleManager, nil},
		{"supervisor", "super123", enums.RoleSupervisor, nil},
		{"employee", "emp123", enums.RoleEmployee, &raviID},
	}

	for _, account := range accounts {
		hash, err := security.HashPassword(account.password, passwordCfg)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", account.username, err)
		}
		user := models.User{
			ID:           uuid.New(),
			Username:     account.username,
			PasswordHash: hash,
			Role:         account.role,
			EmployeeID:   account.employeeID,
			IsActive:     true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("seed user %s: %w", account.username, err)
		}
	}
	return nil
}

func fatalIf(logg *logger.Logger, err error, msg string) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
