package controllers

import (
	"net/http"

	"github.com/waremaphq/waremap-backend/api/responses"
	"github.com/waremaphq/waremap-backend/api/validators"
	"github.com/waremaphq/waremap-backend/internal/operations"
	"github.com/waremaphq/waremap-backend/pkg/logger"
)

// DispatchOperation launches a pick, move or transfer from a map cell and
// returns the resulting transfer document reference.
func DispatchOperation(svc operations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload operations.DispatchInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Dispatch(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
