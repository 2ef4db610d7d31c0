package controllers

import (
	"net/http"

	"github.com/youssefadel/eduplatform-backend/api/responses"
	lessonsvc "github.com/youssefadel/eduplatform-backend/internal/lessons"
	pkgerrors "github.com/youssefadel/eduplatform-backend/pkg/errors"
	"github.com/youssefadel/eduplatform-backend/pkg/logger"
)

// WatchLesson resolves a signed playback URL for the authenticated user.
func WatchLesson(svc lessonsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "lessons service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lessonID, err := pathUUID(r, "lessonId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Watch(r.Context(), userID, lessonID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := watchResponse{
			Lesson:  result.Lesson,
			URL:     result.Playback.URL,
			Signed:  result.Playback.Signed,
			Warning: result.Playback.Warning,
		}
		if result.Playback.Signed {
			resp.ExpiresAt = result.Playback.ExpiresAt.Unix()
		}
		responses.WriteSuccess(w, resp)
	}
}

type watchResponse struct {
	Lesson    any    `json:"lesson"`
	URL       string `json:"url"`
	Signed    bool   `json:"signed"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
	Warning   string `json:"warning,omitempty"`
}
