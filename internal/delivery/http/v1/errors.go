package v1

import (
	"context"
	"errors"
	"net/http"

	"motoparts-backend/internal/domain"
	"motoparts-backend/pkg/logger"
	"motoparts-backend/pkg/utils"
)

const msgShippingUnavailable = "shipping unavailable, try again"

// writeDomainError maps domain errors to HTTP statuses. Unknown errors are logged and hidden.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrRuleNotFound):
		utils.WriteError(w, http.StatusNotFound, domain.ErrRuleNotFound.Error())
	case errors.Is(err, domain.ErrRuleStoreUnavailable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		logger.WithContext(r.Context()).Error().Err(err).Msg("shipping unavailable")
		utils.WriteError(w, http.StatusServiceUnavailable, msgShippingUnavailable)
	case errors.Is(err, domain.ErrExportStorageDisabled):
		utils.WriteError(w, http.StatusServiceUnavailable, domain.ErrExportStorageDisabled.Error())
	default:
		logger.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		utils.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
