package data

import (
	"context"
	"errors"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/KanujanS/LMS/internal/model"
	"github.com/KanujanS/LMS/internal/service"
)

type PurchaseRepository struct {
	db TxQuerier
}

func NewPurchaseRepository(db TxQuerier) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) CreatePurchase(ctx context.Context, input *model.RepositoryCreatePurchaseInput) (*model.Purchase, error) {
	query := `
INSERT INTO purchases (id, user_id, course_id, amount, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING
	id, user_id, course_id, amount, status, stripe_session_id,
	completed_at, expired_at, created_at, edited_at
`
	var purchase model.Purchase
	err := pgxscan.Get(ctx, r.db, &purchase, query,
		input.Id,
		input.UserId,
		input.CourseId,
		input.Amount,
		model.PurchaseStatusPending,
	)
	if err != nil {
		return nil, handleError(err)
	}
	return &purchase, nil
}

func (r *PurchaseRepository) GetPurchase(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	query := `
SELECT
	id, user_id, course_id, amount, status, stripe_session_id,
	completed_at, expired_at, created_at, edited_at

FROM purchases
WHERE id = $1
`
	var purchase model.Purchase
	err := pgxscan.Get(ctx, r.db, &purchase, query, id)
	if err != nil {
		return nil, handleError(err)
	}
	return &purchase, nil
}

func (r *PurchaseRepository) ListCompletedByCourseIDs(ctx context.Context, courseIDs []uuid.UUID) ([]*model.Purchase, error) {
	query := `
SELECT
	id, user_id, course_id, amount, status, stripe_session_id,
	completed_at, expired_at, created_at, edited_at

FROM purchases
WHERE course_id = ANY($1) AND status = $2
ORDER BY completed_at DESC
`
	var purchases []*model.Purchase
	err := pgxscan.Select(ctx, r.db, &purchases, query, courseIDs, model.PurchaseStatusCompleted)
	if err != nil {
		return nil, handleError(err)
	}
	return purchases, nil
}

// MarkPurchaseExpired transitions a pending purchase to expired. A completed
// or already-expired purchase is left alone and reported as ErrNotFound so
// the caller can treat it as a no-op.
func (r *PurchaseRepository) MarkPurchaseExpired(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	query := `
UPDATE purchases
SET status = $1, expired_at = now(), edited_at = now()
WHERE id = $2 AND status = $3
RETURNING
	id, user_id, course_id, amount, status, stripe_session_id,
	completed_at, expired_at, created_at, edited_at
`
	var purchase model.Purchase
	err := pgxscan.Get(ctx, r.db, &purchase, query,
		model.PurchaseStatusExpired,
		id,
		model.PurchaseStatusPending,
	)
	if err != nil {
		return nil, handleError(err)
	}
	return &purchase, nil
}

func (r *PurchaseRepository) NewEnrollmentTx(ctx context.Context) (service.EnrollmentTx, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	return &EnrollmentRepository{tx: tx}, nil
}

// EnrollmentRepository scopes the three enrollment writes to one transaction.
// The purchase row lock taken by GetPurchaseForUpdate serializes concurrent
// deliveries of the same event, so the status check and the writes behave as
// a single check-then-act.
type EnrollmentRepository struct {
	tx pgx.Tx
}

func (r *EnrollmentRepository) GetPurchaseForUpdate(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	query := `
SELECT
	id, user_id, course_id, amount, status, stripe_session_id,
	completed_at, expired_at, created_at, edited_at

FROM purchases
WHERE id = $1
FOR UPDATE
`
	var purchase model.Purchase
	err := pgxscan.Get(ctx, r.tx, &purchase, query, id)
	if err != nil {
		return nil, handleError(err)
	}
	return &purchase, nil
}

func (r *EnrollmentRepository) CompletePurchase(ctx context.Context, id uuid.UUID, sessionID string) error {
	query := `
UPDATE purchases
SET status = $1, stripe_session_id = $2, completed_at = now(), edited_at = now()
WHERE id = $3
`
	_, err := r.tx.Exec(ctx, query, model.PurchaseStatusCompleted, sessionID, id)
	if err != nil {
		return handleError(err)
	}
	return nil
}

// AddStudentToCourse is a set insert: appending an already-present student is
// a no-op, which keeps enrollment idempotent after partial failures.
func (r *EnrollmentRepository) AddStudentToCourse(ctx context.Context, courseID, studentID uuid.UUID) error {
	query := `
UPDATE courses
SET enrolled_students = array_append(enrolled_students, $1), edited_at = now()
WHERE id = $2 AND NOT ($1 = ANY(enrolled_students))
`
	_, err := r.tx.Exec(ctx, query, studentID, courseID)
	if err != nil {
		return handleError(err)
	}
	return nil
}

func (r *EnrollmentRepository) AddCourseToUser(ctx context.Context, userID, courseID uuid.UUID) error {
	query := `
UPDATE users
SET enrolled_courses = array_append(enrolled_courses, $1), edited_at = now()
WHERE id = $2 AND NOT ($1 = ANY(enrolled_courses))
`
	_, err := r.tx.Exec(ctx, query, courseID, userID)
	if err != nil {
		return handleError(err)
	}
	return nil
}

func (r *EnrollmentRepository) Commit(ctx context.Context) error {
	return r.tx.Commit(ctx)
}

// Rollback after a successful Commit is a no-op, so it is safe to defer.
func (r *EnrollmentRepository) Rollback(ctx context.Context) error {
	err := r.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}
