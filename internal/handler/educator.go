package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/KanujanS/LMS/internal/errdefs"
	"github.com/KanujanS/LMS/internal/model"
)

const maxUploadSize = 32 << 20

type EducatorCourseService interface {
	CreateCourse(ctx context.Context, input *model.CreateCourseInput, thumbnail io.Reader) (*model.Course, error)
	UpdateCourse(ctx context.Context, id uuid.UUID, input *model.UpdateCourseInput, thumbnail io.Reader) (*model.Course, error)
	EducatorCourses(ctx context.Context) ([]*model.Course, error)
	Dashboard(ctx context.Context) (*model.EducatorDashboard, error)
	EnrolledStudents(ctx context.Context) ([]*model.EnrolledStudentRow, error)
}

type RoleService interface {
	BecomeEducator(ctx context.Context) (*model.User, string, error)
}

type EducatorHandler struct {
	courses EducatorCourseService
	auth    RoleService
	cache   Cache
}

func NewEducatorHandler(courses EducatorCourseService, auth RoleService, cache Cache) *EducatorHandler {
	return &EducatorHandler{courses: courses, auth: auth, cache: cache}
}

func (h *EducatorHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.With(authMiddleware).Group(func(r chi.Router) {
		r.Post("/update-role", h.BecomeEducator)
		r.Post("/courses", h.CreateCourse)
		r.Put("/courses/{id}", h.UpdateCourse)
		r.Get("/courses", h.Courses)
		r.Get("/dashboard", h.Dashboard)
		r.Get("/enrolled-students", h.EnrolledStudents)
	})
}

func (h *EducatorHandler) BecomeEducator(w http.ResponseWriter, r *http.Request) {
	user, token, err := h.auth.BecomeEducator(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

// CreateCourse takes a multipart form: a course_data JSON part and an
// optional image part with the thumbnail.
func (h *EducatorHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	input, thumbnail, cleanup, err := parseCourseForm[model.CreateCourseInput](r)
	if err != nil {
		writeErr(w, err)
		return
	}
	defer cleanup()

	course, err := h.courses.CreateCourse(ctx, input, thumbnail)
	if err != nil {
		writeErr(w, err)
		return
	}

	h.cache.Delete(ctx, publishedCoursesCacheKey)
	writeJSON(w, http.StatusCreated, map[string]*model.Course{"course": course})
}

func (h *EducatorHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}

	input, thumbnail, cleanup, err := parseCourseForm[model.UpdateCourseInput](r)
	if err != nil {
		writeErr(w, err)
		return
	}
	defer cleanup()

	course, err := h.courses.UpdateCourse(ctx, id, input, thumbnail)
	if err != nil {
		writeErr(w, err)
		return
	}

	h.cache.Delete(ctx, publishedCoursesCacheKey)
	h.cache.Delete(ctx, courseCacheKey(id))
	writeJSON(w, http.StatusOK, map[string]*model.Course{"course": course})
}

func (h *EducatorHandler) Courses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courses.EducatorCourses(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]*model.Course{"courses": courses})
}

func (h *EducatorHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.courses.Dashboard(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*model.EducatorDashboard{"dashboard": dashboard})
}

func (h *EducatorHandler) EnrolledStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.courses.EnrolledStudents(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]*model.EnrolledStudentRow{"enrolled_students": students})
}

func parseCourseForm[T any](r *http.Request) (*T, io.Reader, func(), error) {
	cleanup := func() {}
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, nil, cleanup, errdefs.ErrValidation
	}

	input := new(T)
	if err := json.Unmarshal([]byte(r.FormValue("course_data")), input); err != nil {
		return nil, nil, cleanup, errdefs.ErrValidation
	}

	var thumbnail io.Reader
	file, _, err := r.FormFile("image")
	if err == nil {
		thumbnail = file
		cleanup = func() { file.Close() }
	}
	return input, thumbnail, cleanup, nil
}
