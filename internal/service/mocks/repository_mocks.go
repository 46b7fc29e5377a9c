package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/KanujanS/LMS/internal/model"
	"github.com/KanujanS/LMS/internal/service"
)

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) CreateUser(ctx context.Context, input *model.RepositoryCreateUserInput) (*model.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UserRepository) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UserRepository) UpdateUserRole(ctx context.Context, id uuid.UUID, role model.Role) (*model.User, error) {
	args := m.Called(ctx, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UserRepository) ListUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

type CourseRepository struct {
	mock.Mock
}

func (m *CourseRepository) CreateCourse(ctx context.Context, input *model.RepositoryCreateCourseInput) (*model.Course, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Course), args.Error(1)
}

func (m *CourseRepository) GetCourse(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Course), args.Error(1)
}

func (m *CourseRepository) UpdateCourse(ctx context.Context, id uuid.UUID, input *model.RepositoryUpdateCourseInput) (*model.Course, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Course), args.Error(1)
}

func (m *CourseRepository) ListPublishedCourses(ctx context.Context) ([]*model.Course, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Course), args.Error(1)
}

func (m *CourseRepository) ListCoursesByEducator(ctx context.Context, educatorID uuid.UUID) ([]*model.Course, error) {
	args := m.Called(ctx, educatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Course), args.Error(1)
}

func (m *CourseRepository) ListCoursesByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Course, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Course), args.Error(1)
}

func (m *CourseRepository) UpdateCourseRatings(ctx context.Context, id uuid.UUID, ratings []model.Rating) (*model.Course, error) {
	args := m.Called(ctx, id, ratings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Course), args.Error(1)
}

type ProgressRepository struct {
	mock.Mock
}

func (m *ProgressRepository) GetProgress(ctx context.Context, userID, courseID uuid.UUID) (*model.CourseProgress, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CourseProgress), args.Error(1)
}

func (m *ProgressRepository) MarkLectureCompleted(ctx context.Context, id, userID, courseID uuid.UUID, lectureID string) (*model.CourseProgress, error) {
	args := m.Called(ctx, id, userID, courseID, lectureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CourseProgress), args.Error(1)
}

type PurchaseRepository struct {
	mock.Mock
}

func (m *PurchaseRepository) CreatePurchase(ctx context.Context, input *model.RepositoryCreatePurchaseInput) (*model.Purchase, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Purchase), args.Error(1)
}

func (m *PurchaseRepository) GetPurchase(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Purchase), args.Error(1)
}

func (m *PurchaseRepository) ListCompletedByCourseIDs(ctx context.Context, courseIDs []uuid.UUID) ([]*model.Purchase, error) {
	args := m.Called(ctx, courseIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Purchase), args.Error(1)
}

func (m *PurchaseRepository) MarkPurchaseExpired(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Purchase), args.Error(1)
}

func (m *PurchaseRepository) NewEnrollmentTx(ctx context.Context) (service.EnrollmentTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(service.EnrollmentTx), args.Error(1)
}

type EnrollmentTx struct {
	mock.Mock
}

func (m *EnrollmentTx) GetPurchaseForUpdate(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Purchase), args.Error(1)
}

func (m *EnrollmentTx) CompletePurchase(ctx context.Context, id uuid.UUID, sessionID string) error {
	args := m.Called(ctx, id, sessionID)
	return args.Error(0)
}

func (m *EnrollmentTx) AddStudentToCourse(ctx context.Context, courseID, studentID uuid.UUID) error {
	args := m.Called(ctx, courseID, studentID)
	return args.Error(0)
}

func (m *EnrollmentTx) AddCourseToUser(ctx context.Context, userID, courseID uuid.UUID) error {
	args := m.Called(ctx, userID, courseID)
	return args.Error(0)
}

func (m *EnrollmentTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *EnrollmentTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
