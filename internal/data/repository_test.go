package data

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KanujanS/LMS/internal/errdefs"
	"github.com/KanujanS/LMS/internal/model"
)

var userColumns = []string{
	"id", "name", "email", "password_hash", "image_url", "role",
	"enrolled_courses", "created_at", "edited_at",
}

var purchaseColumns = []string{
	"id", "user_id", "course_id", "amount", "status", "stripe_session_id",
	"completed_at", "expired_at", "created_at", "edited_at",
}

func TestUserRepository_CreateUser(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewUserRepository(mockPool)
	ctx := context.Background()
	now := time.Now()
	id := uuid.New()

	mockPool.ExpectQuery("INSERT INTO users").
		WithArgs(id, "Alex", "alex@example.com", "hash", "", model.RoleStudent).
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(id, "Alex", "alex@example.com", "hash", "", model.RoleStudent, []uuid.UUID{}, now, now))

	user, err := repo.CreateUser(ctx, &model.RepositoryCreateUserInput{
		Id:           id,
		Name:         "Alex",
		Email:        "alex@example.com",
		PasswordHash: "hash",
		Role:         model.RoleStudent,
	})
	require.NoError(t, err)
	assert.Equal(t, id, user.Id)
	assert.Equal(t, model.RoleStudent, user.Role)
}

func TestUserRepository_CreateUser_DuplicateEmail(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewUserRepository(mockPool)
	id := uuid.New()

	mockPool.ExpectQuery("INSERT INTO users").
		WithArgs(id, "Alex", "alex@example.com", "hash", "", model.RoleStudent).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = repo.CreateUser(context.Background(), &model.RepositoryCreateUserInput{
		Id:           id,
		Name:         "Alex",
		Email:        "alex@example.com",
		PasswordHash: "hash",
		Role:         model.RoleStudent,
	})
	assert.ErrorIs(t, err, errdefs.ErrAlreadyExists)
}

func TestUserRepository_GetUser_NotFound(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewUserRepository(mockPool)
	id := uuid.New()

	mockPool.ExpectQuery("SELECT .* FROM users WHERE id =").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetUser(context.Background(), id)
	assert.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestPurchaseRepository_CreatePurchase(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPurchaseRepository(mockPool)
	now := time.Now()
	id := uuid.New()
	userID := uuid.New()
	courseID := uuid.New()

	mockPool.ExpectQuery("INSERT INTO purchases").
		WithArgs(id, userID, courseID, 45.0, model.PurchaseStatusPending).
		WillReturnRows(pgxmock.NewRows(purchaseColumns).
			AddRow(id, userID, courseID, 45.0, model.PurchaseStatusPending, nil, nil, nil, now, now))

	purchase, err := repo.CreatePurchase(context.Background(), &model.RepositoryCreatePurchaseInput{
		Id:       id,
		UserId:   userID,
		CourseId: courseID,
		Amount:   45.0,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseStatusPending, purchase.Status)
}

func TestPurchaseRepository_MarkPurchaseExpired_AlreadySettled(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPurchaseRepository(mockPool)
	id := uuid.New()

	// The guard clause skips rows that are no longer pending, which surfaces
	// as no rows returned.
	mockPool.ExpectQuery("UPDATE purchases").
		WithArgs(model.PurchaseStatusExpired, id, model.PurchaseStatusPending).
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.MarkPurchaseExpired(context.Background(), id)
	assert.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestEnrollmentTx_CompletesAndEnrolls(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPurchaseRepository(mockPool)
	ctx := context.Background()
	now := time.Now()
	id := uuid.New()
	userID := uuid.New()
	courseID := uuid.New()

	mockPool.ExpectBegin()
	mockPool.ExpectQuery("SELECT .* FROM purchases WHERE id = .* FOR UPDATE").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(purchaseColumns).
			AddRow(id, userID, courseID, 45.0, model.PurchaseStatusPending, nil, nil, nil, now, now))
	mockPool.ExpectExec("UPDATE purchases").
		WithArgs(model.PurchaseStatusCompleted, "cs_test_123", id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectExec("UPDATE courses").
		WithArgs(userID, courseID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectExec("UPDATE users").
		WithArgs(courseID, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectCommit()

	tx, err := repo.NewEnrollmentTx(ctx)
	require.NoError(t, err)

	locked, err := tx.GetPurchaseForUpdate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseStatusPending, locked.Status)

	require.NoError(t, tx.CompletePurchase(ctx, id, "cs_test_123"))
	require.NoError(t, tx.AddStudentToCourse(ctx, courseID, userID))
	require.NoError(t, tx.AddCourseToUser(ctx, userID, courseID))
	require.NoError(t, tx.Commit(ctx))

	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestEnrollmentTx_RollbackOnFailure(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPurchaseRepository(mockPool)
	ctx := context.Background()
	id := uuid.New()

	mockPool.ExpectBegin()
	mockPool.ExpectExec("UPDATE purchases").
		WithArgs(model.PurchaseStatusCompleted, "cs_test_123", id).
		WillReturnError(assert.AnError)
	mockPool.ExpectRollback()

	tx, err := repo.NewEnrollmentTx(ctx)
	require.NoError(t, err)

	err = tx.CompletePurchase(ctx, id, "cs_test_123")
	require.Error(t, err)
	require.NoError(t, tx.Rollback(ctx))

	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestProgressRepository_MarkLectureCompleted(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewProgressRepository(mockPool)
	now := time.Now()
	id := uuid.New()
	userID := uuid.New()
	courseID := uuid.New()

	progressColumns := []string{
		"id", "user_id", "course_id", "lectures_completed", "completed",
		"created_at", "edited_at",
	}

	mockPool.ExpectQuery("INSERT INTO course_progress").
		WithArgs(id, userID, courseID, "1-1-1").
		WillReturnRows(pgxmock.NewRows(progressColumns).
			AddRow(id, userID, courseID, []string{"1-1-1"}, false, now, now))

	progress, err := repo.MarkLectureCompleted(context.Background(), id, userID, courseID, "1-1-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1-1-1"}, progress.LecturesCompleted)
}

func TestCourseRepository_GetCourse_NotFound(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewCourseRepository(mockPool)
	id := uuid.New()

	mockPool.ExpectQuery("SELECT .* FROM courses WHERE id =").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetCourse(context.Background(), id)
	assert.ErrorIs(t, err, errdefs.ErrNotFound)
}
