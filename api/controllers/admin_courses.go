package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/youssefadel/eduplatform-backend/api/responses"
	"github.com/youssefadel/eduplatform-backend/api/validators"
	coursesvc "github.com/youssefadel/eduplatform-backend/internal/courses"
	lessonsvc "github.com/youssefadel/eduplatform-backend/internal/lessons"
	pkgerrors "github.com/youssefadel/eduplatform-backend/pkg/errors"
	"github.com/youssefadel/eduplatform-backend/pkg/logger"
)

type createCourseRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description,omitempty"`
	Price       string  `json:"price" validate:"required"`
	University  *string `json:"university,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	Page        string  `json:"page,omitempty"`
}

// AdminCreateCourse adds a course to the catalog.
func AdminCreateCourse(svc coursesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "courses service unavailable"))
			return
		}

		var body createCourseRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := decimal.NewFromString(body.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price"))
			return
		}

		course, err := svc.Create(r.Context(), coursesvc.CreateInput{
			Title:       body.Title,
			Description: body.Description,
			Price:       price,
			University:  body.University,
			ImageURL:    body.ImageURL,
			Page:        body.Page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, course)
	}
}

type updateCourseRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *string `json:"price,omitempty"`
	University  *string `json:"university,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	Page        *string `json:"page,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// AdminUpdateCourse patches course fields.
func AdminUpdateCourse(svc coursesvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		var body updateCourseRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := coursesvc.UpdateInput{
			Title:       body.Title,
			Description: body.Description,
			University:  body.University,
			ImageURL:    body.ImageURL,
			Page:        body.Page,
			IsActive:    body.IsActive,
		}
		if body.Price != nil {
			price, err := decimal.NewFromString(*body.Price)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price"))
				return
			}
			input.Price = &price
		}

		course, err := svc.Update(r.Context(), courseID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, course)
	}
}

// AdminDeleteCourse removes a course and its lessons' remote videos.
func AdminDeleteCourse(svc coursesvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		if err := svc.Delete(r.Context(), courseID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type createLessonRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description,omitempty"`
	Position    int     `json:"position,omitempty"`
	Duration    *string `json:"duration,omitempty"`
}

// AdminCreateLesson adds a lesson to the course in the route.
func AdminCreateLesson(svc lessonsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		var body createLessonRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lesson, err := svc.Create(r.Context(), lessonsvc.CreateInput{
			CourseID:    courseID,
			Title:       body.Title,
			Description: body.Description,
			Position:    body.Position,
			Duration:    body.Duration,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, lesson)
	}
}

type updateLessonRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Position    *int    `json:"position,omitempty"`
	Duration    *string `json:"duration,omitempty"`
}

// AdminUpdateLesson patches lesson fields.
func AdminUpdateLesson(svc lessonsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "lessons service unavailable"))
			return
		}

		lessonID, err := pathUUID(r, "lessonId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateLessonRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lesson, err := svc.Update(r.Context(), lessonID, lessonsvc.UpdateInput{
			Title:       body.Title,
			Description: body.Description,
			Position:    body.Position,
			Duration:    body.Duration,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, lesson)
	}
}

// AdminDeleteLesson removes a lesson.
func AdminDeleteLesson(svc lessonsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "lessons service unavailable"))
			return
		}

		lessonID, err := pathUUID(r, "lessonId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), lessonID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
