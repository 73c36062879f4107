package controllers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/kitforge-labs/kitforge-backend/api/responses"
	"github.com/kitforge-labs/kitforge-backend/api/validators"
	"github.com/kitforge-labs/kitforge-backend/internal/catalog"
	pkgerrors "github.com/kitforge-labs/kitforge-backend/pkg/errors"
	"github.com/kitforge-labs/kitforge-backend/pkg/logger"
)

// SetParts returns the bill of materials configured for a set.
func SetParts(repo catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog repository unavailable"))
			return
		}

		setID, err := validators.ParsePathUUID(r, "setId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := repo.FindSet(r.Context(), setID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "set not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load set"))
			return
		}

		entries, err := repo.FindSetParts(r.Context(), setID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load set parts"))
			return
		}
		responses.WriteSuccess(w, catalog.NewSetPartResponses(entries))
	}
}
