package product

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ani07-05/brickdash/pkg/db/models"
)

// ProductDTO is the API projection of a product.
type ProductDTO struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	PricePerUnit  decimal.Decimal `json:"price_per_unit"`
	StockQuantity int             `json:"stock_quantity"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func toDTO(p *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		Unit:          p.Unit,
		PricePerUnit:  p.PricePerUnit,
		StockQuantity: p.StockQuantity,
		Description:   p.Description,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
