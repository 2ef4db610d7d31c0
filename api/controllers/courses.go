package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/youssefadel/eduplatform-backend/api/responses"
	coursesvc "github.com/youssefadel/eduplatform-backend/internal/courses"
	lessonsvc "github.com/youssefadel/eduplatform-backend/internal/lessons"
	pkgerrors "github.com/youssefadel/eduplatform-backend/pkg/errors"
	"github.com/youssefadel/eduplatform-backend/pkg/logger"
)

// ListCourses returns the paginated catalog, optionally filtered.
func ListCourses(svc coursesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "courses service unavailable"))
			return
		}

		params := coursesvc.ListParams{
			Search:     strings.TrimSpace(r.URL.Query().Get("search")),
			Page:       strings.TrimSpace(r.URL.Query().Get("page")),
			University: strings.TrimSpace(r.URL.Query().Get("university")),
			Cursor:     strings.TrimSpace(r.URL.Query().Get("cursor")),
			ActiveOnly: true,
		}

		if limitStr := strings.TrimSpace(r.URL.Query().Get("limit")); limitStr != "" {
			value, err := strconv.Atoi(limitStr)
			if err != nil || value <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
				return
			}
			params.Limit = value
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CourseDetail returns a single course by id.
func CourseDetail(svc coursesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "courses service unavailable"))
			return
		}

		courseID, err := pathUUID(r, "courseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		course, err := svc.GetByID(r.Context(), courseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, course)
	}
}

// CourseLessons lists a course's lessons in playback order. Video access
// still goes through the watch endpoint; this only exposes the outline.
func CourseLessons(svc lessonsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "lessons service unavailable"))
			return
		}

		courseID, err := pathUUID(r, "courseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lessons, err := svc.ListByCourse(r.Context(), courseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": lessons})
	}
}
