package controllers

import (
	"net/http"

	"github.com/Ani07-05/brickdash/api/responses"
	"github.com/Ani07-05/brickdash/api/validators"
	batchsvc "github.com/Ani07-05/brickdash/internal/batches"
	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
	"github.com/Ani07-05/brickdash/pkg/logger"
)

type addBatchRequest struct {
	StageID   uint   `json:"stage_id" validate:"required"`
	ProductID uint   `json:"product_id" validate:"required"`
	Units     int    `json:"units" validate:"required,gt=0"`
	Notes     string `json:"notes,omitempty"`
}

type transferBatchRequest struct {
	TargetStageID uint `json:"target_stage_id" validate:"required"`
	Units         int  `json:"units" validate:"required,gt=0"`
}

type adjustBatchRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type reserveBatchRequest struct {
	OrderNumber string `json:"order_number" validate:"required"`
	Units       int    `json:"units" validate:"required,gt=0"`
}

type unreserveBatchRequest struct {
	OrderNumber string `json:"order_number" validate:"required"`
}

// StageList returns the production stages with their occupancy.
func StageList(svc batchsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "batch service unavailable"))
			return
		}

		stages, err := svc.ListStages(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stages)
	}
}

// BatchList returns batches, optionally filtered by stage or product.
func BatchList(svc batchsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "batch service unavailable"))
			return
		}

		stageID, err := validators.ParseQueryUint(r, "stage_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParseQueryUint(r, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		batches, err := svc.ListBatches(r.Context(), batchsvc.ListBatchesInput{
			StageID:   stageID,
			ProductID: productID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, batches)
	}
}

// BatchAdd creates a batch in its forming stage.
func BatchAdd(svc batchsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "batch service unavailable"))
			return
		}

		var body addBatchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		batch, err := svc.AddBatch(r.Context(), batchsvc.AddBatchInput{
			StageID:   body.StageID,
			ProductID: body.ProductID,
			Units:     body.Units,
			Notes:     body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, batch)
	}
}

// BatchTransfer moves units of a batch into another stage.
func BatchTransfer(svc batchsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "batch service unavailable"))
			return
		}

		code, err := pathCode(r, "code")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body transferBatchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		batch, err := svc.TransferBatch(r.Context(), code, batchsvc.TransferInput{
			TargetStageID: body.TargetStageID,
			Units:         body.Units,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, batch)
	}
}

// BatchAdjust changes a batch's unit count by a signed delta.
func BatchAdjust(svc batchsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "batch service unavailable"))
			return
		}

		code, err := pathCode(r, "code")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adjustBatchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		batch, err := svc.AdjustBatch(r.Context(), code, body.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, batch)
	}
}

// BatchReserve holds units of a batch against an order.
func BatchReserve(svc batchsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "batch service unavailable"))
			return
		}

		code, err := pathCode(r, "code")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body reserveBatchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		batch, err := svc.ReserveBatch(r.Context(), code, batchsvc.ReserveInput{
			OrderNumber: body.OrderNumber,
			Units:       body.Units,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, batch)
	}
}

// BatchUnreserve releases a hold previously placed for an order.
func BatchUnreserve(svc batchsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "batch service unavailable"))
			return
		}

		code, err := pathCode(r, "code")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body unreserveBatchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		batch, err := svc.UnreserveBatch(r.Context(), code, body.OrderNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, batch)
	}
}

// BatchDelete removes a batch; force cascades active reservations.
func BatchDelete(svc batchsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "batch service unavailable"))
			return
		}

		code, err := pathCode(r, "code")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		force, err := validators.ParseQueryBool(r, "force")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteBatch(r.Context(), code, force); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
