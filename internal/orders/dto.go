package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ani07-05/brickdash/pkg/db/models"
	"github.com/Ani07-05/brickdash/pkg/enums"
)

// OrderDTO is the API projection of an order.
type OrderDTO struct {
	ID              uint              `json:"id"`
	OrderNumber     string            `json:"order_number"`
	ProductID       uint              `json:"product_id"`
	ProductName     string            `json:"product_name,omitempty"`
	Quantity        int               `json:"quantity"`
	UnitPrice       decimal.Decimal   `json:"unit_price"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	CustomerName    string            `json:"customer_name"`
	CustomerPhone   string            `json:"customer_phone,omitempty"`
	DeliveryAddress string            `json:"delivery_address,omitempty"`
	Status          enums.OrderStatus `json:"status"`
	Notes           string            `json:"notes,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func toDTO(o *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		ProductID:       o.ProductID,
		Quantity:        o.Quantity,
		UnitPrice:       o.UnitPrice,
		TotalAmount:     o.TotalAmount,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		DeliveryAddress: o.DeliveryAddress,
		Status:          o.Status,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if o.Product != nil {
		dto.ProductName = o.Product.Name
	}
	return dto
}
