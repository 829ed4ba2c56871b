package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Ani07-05/brickdash/api/middleware"
	"github.com/Ani07-05/brickdash/api/responses"
	"github.com/Ani07-05/brickdash/api/validators"
	"github.com/Ani07-05/brickdash/internal/inventory"
	"github.com/Ani07-05/brickdash/pkg/enums"
	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
	"github.com/Ani07-05/brickdash/pkg/logger"
	"github.com/Ani07-05/brickdash/pkg/pagination"
)

type updateStockRequest struct {
	ProductID  uint   `json:"product_id" validate:"required"`
	ChangeType string `json:"change_type" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
	Note       string `json:"note,omitempty"`
}

// InventoryUpdateStock applies a finished-stock movement and records it
// in the inventory log.
func InventoryUpdateStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var body updateStockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := inventory.UpdateStockInput{
			ProductID:  body.ProductID,
			ChangeType: enums.StockChangeType(body.ChangeType),
			Quantity:   body.Quantity,
			Note:       body.Note,
		}
		if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
			if userID, err := uuid.Parse(raw); err == nil {
				input.RecordedBy = &userID
			}
		}

		result, err := svc.UpdateStock(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// InventoryLogs lists the stock movement audit trail, cursor paginated.
func InventoryLogs(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		productID, err := validators.ParseQueryUint(r, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListLogs(r.Context(), inventory.ListLogsInput{
			ProductID: productID,
			Page: pagination.Params{
				Limit:  limit,
				Cursor: r.URL.Query().Get("cursor"),
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}
