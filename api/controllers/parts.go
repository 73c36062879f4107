package controllers

import (
	"net/http"
	"strings"

	"github.com/kitforge-labs/kitforge-backend/api/responses"
	"github.com/kitforge-labs/kitforge-backend/api/validators"
	"github.com/kitforge-labs/kitforge-backend/internal/catalog"
	"github.com/kitforge-labs/kitforge-backend/internal/ledger"
	pkgerrors "github.com/kitforge-labs/kitforge-backend/pkg/errors"
	"github.com/kitforge-labs/kitforge-backend/pkg/logger"
	"github.com/kitforge-labs/kitforge-backend/pkg/pagination"
)

// PartTransactions returns the paginated ledger history for one part.
func PartTransactions(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		partID, err := validators.ParsePathUUID(r, "partId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListByPart(r.Context(), partID, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ledger.NewTransactionPageResponse(page))
	}
}

// PartReconcile compares a part's stored stock against its ledger history.
func PartReconcile(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		partID, err := validators.ParsePathUUID(r, "partId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.Reconcile(r.Context(), partID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

// LowStockParts lists parts at or below their minimum stock level.
func LowStockParts(repo catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog repository unavailable"))
			return
		}

		parts, err := repo.ListLowStockParts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock parts"))
			return
		}

		resp := make([]catalog.PartResponse, 0, len(parts))
		for _, part := range parts {
			resp = append(resp, catalog.NewPartResponse(part))
		}
		responses.WriteSuccess(w, resp)
	}
}
