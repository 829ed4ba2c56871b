package controllers

import (
	"net/http"

	"github.com/Ani07-05/brickdash/api/responses"
	"github.com/Ani07-05/brickdash/internal/dashboard"
	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
	"github.com/Ani07-05/brickdash/pkg/logger"
)

// DashboardStats returns the operations overview counters.
func DashboardStats(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}
