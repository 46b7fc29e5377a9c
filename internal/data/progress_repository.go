package data

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/KanujanS/LMS/internal/model"
)

type ProgressRepository struct {
	db Querier
}

func NewProgressRepository(db Querier) *ProgressRepository {
	return &ProgressRepository{db: db}
}

func (r *ProgressRepository) GetProgress(ctx context.Context, userID, courseID uuid.UUID) (*model.CourseProgress, error) {
	query := `
SELECT
	id, user_id, course_id, lectures_completed, completed,
	created_at, edited_at

FROM course_progress
WHERE user_id = $1 AND course_id = $2
`
	var progress model.CourseProgress
	err := pgxscan.Get(ctx, r.db, &progress, query, userID, courseID)
	if err != nil {
		return nil, handleError(err)
	}
	return &progress, nil
}

// MarkLectureCompleted records one finished lecture; repeating a lecture id
// leaves the set unchanged.
func (r *ProgressRepository) MarkLectureCompleted(ctx context.Context, id, userID, courseID uuid.UUID, lectureID string) (*model.CourseProgress, error) {
	query := `
INSERT INTO course_progress (id, user_id, course_id, lectures_completed)
VALUES ($1, $2, $3, ARRAY[$4])
ON CONFLICT (user_id, course_id) DO UPDATE
SET
	lectures_completed = CASE
		WHEN $4 = ANY(course_progress.lectures_completed) THEN course_progress.lectures_completed
		ELSE array_append(course_progress.lectures_completed, $4)
	END,
	edited_at = now()
RETURNING
	id, user_id, course_id, lectures_completed, completed,
	created_at, edited_at
`
	var progress model.CourseProgress
	err := pgxscan.Get(ctx, r.db, &progress, query, id, userID, courseID, lectureID)
	if err != nil {
		return nil, handleError(err)
	}
	return &progress, nil
}
