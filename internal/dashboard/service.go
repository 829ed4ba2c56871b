package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ani07-05/brickdash/pkg/enums"
	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
)

const (
	lowStockThreshold = 100
	recentOrdersLimit = 5
)

// Service exposes the dashboard stats endpoint.
type Service interface {
	Stats(ctx context.Context) (*StatsDTO, error)
}

// StatsDTO is the aggregate snapshot shown on the dashboard.
type StatsDTO struct {
	ActiveEmployees int64             `json:"active_employees"`
	TotalProducts   int64             `json:"total_products"`
	TotalOrders     int64             `json:"total_orders"`
	PendingOrders   int64             `json:"pending_orders"`
	PresentToday    int64             `json:"present_today"`
	PendingTasks    int64             `json:"pending_tasks"`
	InventoryValue  decimal.Decimal   `json:"inventory_value"`
	LowStock        []LowStockProduct `json:"low_stock"`
	RecentOrders    []RecentOrder     `json:"recent_orders"`
}

// LowStockProduct flags a product running below the reorder threshold.
type LowStockProduct struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	StockQuantity int    `json:"stock_quantity"`
	Unit          string `json:"unit"`
}

// RecentOrder is the trimmed order row shown on the dashboard.
type RecentOrder struct {
	ID          uint              `json:"id"`
	OrderNumber string            `json:"order_number"`
	ProductName string            `json:"product_name,omitempty"`
	Quantity    int               `json:"quantity"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Status      enums.OrderStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService constructs a dashboard service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// Stats assembles the dashboard snapshot.
func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	stats := &StatsDTO{InventoryValue: decimal.Zero}

	var err error
	if stats.ActiveEmployees, err = s.repo.CountActiveEmployees(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count employees")
	}
	if stats.TotalProducts, err = s.repo.CountProducts(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count products")
	}
	if stats.TotalOrders, err = s.repo.CountOrders(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count orders")
	}
	if stats.PendingOrders, err = s.repo.CountOrdersByStatus(ctx, enums.OrderPending); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count pending orders")
	}

	today := s.now().UTC()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if stats.PresentToday, err = s.repo.CountPresentOn(ctx, today); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count attendance")
	}
	if stats.PendingTasks, err = s.repo.CountOpenTasks(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count tasks")
	}

	products, err := s.repo.AllProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	for i := range products {
		value := products[i].PricePerUnit.Mul(decimal.NewFromInt(int64(products[i].StockQuantity)))
		stats.InventoryValue = stats.InventoryValue.Add(value)
	}

	lowStock, err := s.repo.LowStockProducts(ctx, lowStockThreshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: low stock")
	}
	stats.LowStock = make([]LowStockProduct, 0, len(lowStock))
	for i := range lowStock {
		stats.LowStock = append(stats.LowStock, LowStockProduct{
			ID:            lowStock[i].ID,
			Name:          lowStock[i].Name,
			StockQuantity: lowStock[i].StockQuantity,
			Unit:          lowStock[i].Unit,
		})
	}

	recent, err := s.repo.RecentOrders(ctx, recentOrdersLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: recent orders")
	}
	stats.RecentOrders = make([]RecentOrder, 0, len(recent))
	for i := range recent {
		row := RecentOrder{
			ID:          recent[i].ID,
			OrderNumber: recent[i].OrderNumber,
			Quantity:    recent[i].Quantity,
			TotalAmount: recent[i].TotalAmount,
			Status:      recent[i].Status,
			CreatedAt:   recent[i].CreatedAt,
		}
		if recent[i].Product != nil {
			row.ProductName = recent[i].Product.Name
		}
		stats.RecentOrders = append(stats.RecentOrders, row)
	}

	return stats, nil
}
