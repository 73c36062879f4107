package controllers

import (
	"net/http"

	"github.com/kitforge-labs/kitforge-backend/api/responses"
	"github.com/kitforge-labs/kitforge-backend/api/validators"
	"github.com/kitforge-labs/kitforge-backend/internal/inventory"
	pkgerrors "github.com/kitforge-labs/kitforge-backend/pkg/errors"
	"github.com/kitforge-labs/kitforge-backend/pkg/logger"
)

type stockValidateRequest struct {
	Items []inventory.CartLine `json:"items" validate:"required,min=1"`
}

// StockValidate answers whether each requested line could be assembled from
// current stock. Read-only: nothing is reserved.
func StockValidate(validator *inventory.Validator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if validator == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock validator unavailable"))
			return
		}

		var req stockValidateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := validator.Validate(r.Context(), req.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
