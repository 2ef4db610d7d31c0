package controllers

import (
	"net/http"

	"github.com/youssefadel/eduplatform-backend/api/responses"
	statsvc "github.com/youssefadel/eduplatform-backend/internal/stats"
	pkgerrors "github.com/youssefadel/eduplatform-backend/pkg/errors"
	"github.com/youssefadel/eduplatform-backend/pkg/logger"
)

// AdminStats returns the platform overview counters.
func AdminStats(svc statsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stats service unavailable"))
			return
		}

		overview, err := svc.Overview(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}
