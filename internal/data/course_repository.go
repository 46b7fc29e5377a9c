package data

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/KanujanS/LMS/internal/model"
)

type CourseRepository struct {
	db Querier
}

func NewCourseRepository(db Querier) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) CreateCourse(ctx context.Context, input *model.RepositoryCreateCourseInput) (*model.Course, error) {
	content, err := json.Marshal(input.Content)
	if err != nil {
		return nil, fmt.Errorf("marshal course content: %w", err)
	}

	query := `
INSERT INTO courses (
	id, title, description, price, discount_percent,
	thumbnail_url, educator_id, content, is_published
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING
	id, title, description, price, discount_percent,
	thumbnail_url, educator_id, content, enrolled_students,
	ratings, is_published, created_at, edited_at
`
	var course model.Course
	err = pgxscan.Get(ctx, r.db, &course, query,
		input.Id,
		input.Title,
		input.Description,
		input.Price,
		input.DiscountPercent,
		input.ThumbnailURL,
		input.EducatorId,
		content,
		input.IsPublished,
	)
	if err != nil {
		return nil, handleError(err)
	}
	return &course, nil
}

func (r *CourseRepository) GetCourse(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	query := `
SELECT
	id, title, description, price, discount_percent,
	thumbnail_url, educator_id, content, enrolled_students,
	ratings, is_published, created_at, edited_at

FROM courses
WHERE id = $1
`
	var course model.Course
	err := pgxscan.Get(ctx, r.db, &course, query, id)
	if err != nil {
		return nil, handleError(err)
	}
	return &course, nil
}

// UpdateCourse replaces the stored content tree wholesale; there are no
// partial lecture updates. The thumbnail stays untouched when the input
// carries no replacement.
func (r *CourseRepository) UpdateCourse(ctx context.Context, id uuid.UUID, input *model.RepositoryUpdateCourseInput) (*model.Course, error) {
	content, err := json.Marshal(input.Content)
	if err != nil {
		return nil, fmt.Errorf("marshal course content: %w", err)
	}

	query := `
UPDATE courses
SET
	title = $1,
	description = $2,
	price = $3,
	discount_percent = $4,
	content = $5,
	is_published = $6,
	thumbnail_url = COALESCE($7, thumbnail_url),
	edited_at = now()
WHERE id = $8
RETURNING
	id, title, description, price, discount_percent,
	thumbnail_url, educator_id, content, enrolled_students,
	ratings, is_published, created_at, edited_at
`
	var course model.Course
	err = pgxscan.Get(ctx, r.db, &course, query,
		input.Title,
		input.Description,
		input.Price,
		input.DiscountPercent,
		content,
		input.IsPublished,
		input.ThumbnailURL,
		id,
	)
	if err != nil {
		return nil, handleError(err)
	}
	return &course, nil
}

// ListPublishedCourses returns catalog rows without the content tree or the
// enrollment set; those stay private to enrolled viewers and the educator.
func (r *CourseRepository) ListPublishedCourses(ctx context.Context) ([]*model.Course, error) {
	query := `
SELECT
	id, title, description, price, discount_percent,
	thumbnail_url, educator_id, ratings, is_published,
	created_at, edited_at

FROM courses
WHERE is_published = true
ORDER BY created_at DESC
`
	var courses []*model.Course
	err := pgxscan.Select(ctx, r.db, &courses, query)
	if err != nil {
		return nil, handleError(err)
	}
	return courses, nil
}

func (r *CourseRepository) ListCoursesByEducator(ctx context.Context, educatorID uuid.UUID) ([]*model.Course, error) {
	query := `
SELECT
	id, title, description, price, discount_percent,
	thumbnail_url, educator_id, content, enrolled_students,
	ratings, is_published, created_at, edited_at

FROM courses
WHERE educator_id = $1
ORDER BY created_at DESC
`
	var courses []*model.Course
	err := pgxscan.Select(ctx, r.db, &courses, query, educatorID)
	if err != nil {
		return nil, handleError(err)
	}
	return courses, nil
}

func (r *CourseRepository) ListCoursesByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Course, error) {
	query := `
SELECT
	id, title, description, price, discount_percent,
	thumbnail_url, educator_id, content, enrolled_students,
	ratings, is_published, created_at, edited_at

FROM courses
WHERE id = ANY($1)
`
	var courses []*model.Course
	err := pgxscan.Select(ctx, r.db, &courses, query, ids)
	if err != nil {
		return nil, handleError(err)
	}
	return courses, nil
}

func (r *CourseRepository) UpdateCourseRatings(ctx context.Context, id uuid.UUID, ratings []model.Rating) (*model.Course, error) {
	data, err := json.Marshal(ratings)
	if err != nil {
		return nil, fmt.Errorf("marshal course ratings: %w", err)
	}

	query := `
UPDATE courses
SET ratings = $1, edited_at = now()
WHERE id = $2
RETURNING
	id, title, description, price, discount_percent,
	thumbnail_url, educator_id, content, enrolled_students,
	ratings, is_published, created_at, edited_at
`
	var course model.Course
	err = pgxscan.Get(ctx, r.db, &course, query, data, id)
	if err != nil {
		return nil, handleError(err)
	}
	return &course, nil
}
