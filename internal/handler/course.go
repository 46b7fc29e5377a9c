package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/KanujanS/LMS/internal/model"
)

const publishedCoursesCacheKey = "courses:published"

func courseCacheKey(id uuid.UUID) string {
	return "courses:" + id.String()
}

type CatalogService interface {
	ListPublished(ctx context.Context) ([]*model.Course, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*model.Course, error)
}

// CourseHandler serves the public catalog. Responses are cached whole; any
// educator write to the catalog invalidates them.
type CourseHandler struct {
	s        CatalogService
	cache    Cache
	cacheTTL time.Duration
}

func NewCourseHandler(s CatalogService, cache Cache, cacheTTL time.Duration) *CourseHandler {
	return &CourseHandler{s: s, cache: cache, cacheTTL: cacheTTL}
}

func (h *CourseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListCourses)
	r.Get("/{id}", h.GetCourse)
}

func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if data, ok := h.cache.Get(ctx, publishedCoursesCacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	courses, err := h.s.ListPublished(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}

	data, err := json.Marshal(map[string][]*model.Course{"courses": courses})
	if err != nil {
		writeErrorJSON(w, http.StatusInternalServerError, "failed to serialize response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
	h.cache.Set(ctx, publishedCoursesCacheKey, data, h.cacheTTL)
}

func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}

	key := courseCacheKey(id)
	if data, ok := h.cache.Get(ctx, key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	course, err := h.s.GetCourse(ctx, id)
	if err != nil {
		writeErr(w, err)
		return
	}

	data, err := json.Marshal(map[string]*model.Course{"course": course})
	if err != nil {
		writeErrorJSON(w, http.StatusInternalServerError, "failed to serialize response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
	h.cache.Set(ctx, key, data, h.cacheTTL)
}
