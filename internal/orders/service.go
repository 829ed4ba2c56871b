package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Ani07-05/brickdash/pkg/db"
	"github.com/Ani07-05/brickdash/pkg/db/models"
	"github.com/Ani07-05/brickdash/pkg/enums"
	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
)

// Service exposes order management operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*OrderDTO, error)
	Update(ctx context.Context, id uint, input UpdateInput) (*OrderDTO, error)
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*OrderDTO, error)
	GetByNumber(ctx context.Context, number string) (*OrderDTO, error)
	List(ctx context.Context, status *enums.OrderStatus) ([]OrderDTO, error)
}

// CreateInput holds the validated payload to create an order.
type CreateInput struct {
	ProductID       uint
	Quantity        int
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	Notes           string
}

// UpdateInput holds optional mutation values for an order.
type UpdateInput struct {
	Quantity        *int
	CustomerName    *string
	CustomerPhone   *string
	DeliveryAddress *string
	Status          *enums.OrderStatus
	Notes           *string
}

type productLoader interface {
	FindByID(ctx context.Context, id uint) (*models.Product, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	products productLoader
}

// NewService constructs an order service instance.
func NewService(repo *Repository, dbClient *db.Client, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, dbClient: dbClient, products: products}, nil
}

// Create books an order. The order number comes from the shared sequence
// counter inside the same transaction, and the total is always computed
// server-side from the product's current price.
func (s *service) Create(ctx context.Context, input CreateInput) (*OrderDTO, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	prod, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	var created *models.Order
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		number, err := db.NextOrderNumber(tx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: next order number")
		}

		created = &models.Order{
			OrderNumber:     number,
			ProductID:       prod.ID,
			Quantity:        input.Quantity,
			UnitPrice:       prod.PricePerUnit,
			TotalAmount:     prod.PricePerUnit.Mul(decimal.NewFromInt(int64(input.Quantity))),
			CustomerName:    input.CustomerName,
			CustomerPhone:   input.CustomerPhone,
			DeliveryAddress: input.DeliveryAddress,
			Status:          enums.OrderPending,
			Notes:           input.Notes,
		}
		if err := s.repo.WithTx(tx).Create(ctx, created); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, created.ID)
}

// Update patches the provided fields. Quantity changes recompute the total
// from the stored unit price; terminal orders reject further edits.
func (s *service) Update(ctx context.Context, id uint, input UpdateInput) (*OrderDTO, error) {
	ord, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "order not found")
	}

	if ord.Status.Terminal() {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order is already closed").
			WithDetails(map[string]any{"status": ord.Status})
	}

	if input.Quantity != nil {
		if *input.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		ord.Quantity = *input.Quantity
		ord.TotalAmount = ord.UnitPrice.Mul(decimal.NewFromInt(int64(*input.Quantity)))
	}
	if input.CustomerName != nil {
		ord.CustomerName = *input.CustomerName
	}
	if input.CustomerPhone != nil {
		ord.CustomerPhone = *input.CustomerPhone
	}
	if input.DeliveryAddress != nil {
		ord.DeliveryAddress = *input.DeliveryAddress
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
		}
		ord.Status = *input.Status
	}
	if input.Notes != nil {
		ord.Notes = *input.Notes
	}

	if err := s.repo.Update(ctx, ord); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order")
	}
	return toDTO(ord), nil
}

// Delete removes an order.
func (s *service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "order not found")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete order")
	}
	return nil
}

// Get loads one order.
func (s *service) Get(ctx context.Context, id uint) (*OrderDTO, error) {
	ord, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "order not found")
	}
	return toDTO(ord), nil
}

// GetByNumber loads one order by its public number.
func (s *service) GetByNumber(ctx context.Context, number string) (*OrderDTO, error) {
	ord, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, notFoundOr(err, "order not found")
	}
	return toDTO(ord), nil
}

// List returns orders newest first, optionally filtered by status.
func (s *service) List(ctx context.Context, status *enums.OrderStatus) ([]OrderDTO, error) {
	if status != nil && !status.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}
	orders, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	result := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		result = append(result, *toDTO(&orders[i]))
	}
	return result, nil
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
}
