package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/KanujanS/LMS/internal/model"
)

type EnrollmentService interface {
	EnrolledCourses(ctx context.Context) ([]*model.Course, error)
	UpdateProgress(ctx context.Context, input *model.UpdateProgressInput) (*model.CourseProgress, error)
	GetProgress(ctx context.Context, courseID uuid.UUID) (*model.CourseProgress, error)
	AddRating(ctx context.Context, input *model.AddRatingInput) (*model.Course, error)
}

type PaymentService interface {
	PurchaseCourse(ctx context.Context, courseID uuid.UUID) (string, error)
}

type UserHandler struct {
	courses  EnrollmentService
	payments PaymentService
}

func NewUserHandler(courses EnrollmentService, payments PaymentService) *UserHandler {
	return &UserHandler{courses: courses, payments: payments}
}

func (h *UserHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.With(authMiddleware).Group(func(r chi.Router) {
		r.Get("/enrolled-courses", h.EnrolledCourses)
		r.Post("/purchase/{course_id}", h.PurchaseCourse)
		r.Post("/progress", h.UpdateProgress)
		r.Get("/progress/{course_id}", h.GetProgress)
		r.Post("/ratings", h.AddRating)
	})
}

func (h *UserHandler) EnrolledCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courses.EnrolledCourses(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]*model.Course{"courses": courses})
}

func (h *UserHandler) PurchaseCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := parseUUIDParam(r, "course_id")
	if err != nil {
		writeErr(w, err)
		return
	}

	sessionURL, err := h.payments.PurchaseCourse(r.Context(), courseID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"session_url": sessionURL})
}

func (h *UserHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	var input model.UpdateProgressInput
	if err := decodeJSON(r, &input); err != nil {
		writeErr(w, err)
		return
	}

	progress, err := h.courses.UpdateProgress(r.Context(), &input)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*model.CourseProgress{"progress": progress})
}

func (h *UserHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	courseID, err := parseUUIDParam(r, "course_id")
	if err != nil {
		writeErr(w, err)
		return
	}

	progress, err := h.courses.GetProgress(r.Context(), courseID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*model.CourseProgress{"progress": progress})
}

func (h *UserHandler) AddRating(w http.ResponseWriter, r *http.Request) {
	var input model.AddRatingInput
	if err := decodeJSON(r, &input); err != nil {
		writeErr(w, err)
		return
	}

	course, err := h.courses.AddRating(r.Context(), &input)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*model.Course{"course": course})
}
