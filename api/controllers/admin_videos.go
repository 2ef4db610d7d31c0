package controllers

import (
	"net/http"
	"strings"

	"github.com/youssefadel/eduplatform-backend/api/responses"
	"github.com/youssefadel/eduplatform-backend/api/validators"
	videosvc "github.com/youssefadel/eduplatform-backend/internal/videos"
	pkgerrors "github.com/youssefadel/eduplatform-backend/pkg/errors"
	"github.com/youssefadel/eduplatform-backend/pkg/logger"
)

// uploadMemoryLimit caps how much of a multipart upload is buffered in memory;
// the remainder spills to temp files.
const uploadMemoryLimit = 32 << 20

// AdminUploadLessonVideo registers and uploads a lesson video. An existing
// video on the lesson is replaced; the old asset is deleted best-effort.
func AdminUploadLessonVideo(svc videosvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "videos service unavailable"))
			return
		}

		lessonID, err := pathUUID(r, "lessonId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(uploadMemoryLimit); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart payload"))
			return
		}

		file, header, err := r.FormFile("video")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "video file is required"))
			return
		}
		defer file.Close()

		title := strings.TrimSpace(r.FormValue("title"))
		if title == "" {
			title = header.Filename
		}

		remoteID, err := svc.Upload(r.Context(), lessonID, title, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"remote_video_id": remoteID})
	}
}

type renameVideoRequest struct {
	Title string `json:"title" validate:"required"`
}

// AdminRenameLessonVideo renames the remote asset. A remote failure is
// reported, not treated as an error.
func AdminRenameLessonVideo(svc videosvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "videos service unavailable"))
			return
		}

		lessonID, err := pathUUID(r, "lessonId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body renameVideoRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		renamed, err := svc.Rename(r.Context(), lessonID, body.Title)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"renamed": renamed})
	}
}

// AdminDeleteLessonVideo removes the lesson's video. The local reference is
// always cleared; remote_deleted reports whether the CDN copy went too.
func AdminDeleteLessonVideo(svc videosvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "videos service unavailable"))
			return
		}

		lessonID, err := pathUUID(r, "lessonId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		remoteDeleted, err := svc.Delete(r.Context(), lessonID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"remote_deleted": remoteDeleted})
	}
}

// AdminLessonVideoMetadata fetches remote asset metadata for a lesson.
func AdminLessonVideoMetadata(svc videosvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "videos service unavailable"))
			return
		}

		lessonID, err := pathUUID(r, "lessonId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		video, err := svc.Metadata(r.Context(), lessonID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, video)
	}
}
