package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/KanujanS/LMS/internal/ctxdata"
	"github.com/KanujanS/LMS/internal/errdefs"
	"github.com/KanujanS/LMS/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, input *model.RepositoryCreateUserInput) (*model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUserRole(ctx context.Context, id uuid.UUID, role model.Role) (*model.User, error)
	ListUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error)
}

type CourseRepository interface {
	CreateCourse(ctx context.Context, input *model.RepositoryCreateCourseInput) (*model.Course, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*model.Course, error)
	UpdateCourse(ctx context.Context, id uuid.UUID, input *model.RepositoryUpdateCourseInput) (*model.Course, error)
	ListPublishedCourses(ctx context.Context) ([]*model.Course, error)
	ListCoursesByEducator(ctx context.Context, educatorID uuid.UUID) ([]*model.Course, error)
	ListCoursesByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Course, error)
	UpdateCourseRatings(ctx context.Context, id uuid.UUID, ratings []model.Rating) (*model.Course, error)
}

type ProgressRepository interface {
	GetProgress(ctx context.Context, userID, courseID uuid.UUID) (*model.CourseProgress, error)
	MarkLectureCompleted(ctx context.Context, id, userID, courseID uuid.UUID, lectureID string) (*model.CourseProgress, error)
}

type PurchaseRepository interface {
	CreatePurchase(ctx context.Context, input *model.RepositoryCreatePurchaseInput) (*model.Purchase, error)
	GetPurchase(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	ListCompletedByCourseIDs(ctx context.Context, courseIDs []uuid.UUID) ([]*model.Purchase, error)
	MarkPurchaseExpired(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	NewEnrollmentTx(ctx context.Context) (EnrollmentTx, error)
}

// EnrollmentTx scopes the purchase completion and the two enrollment set
// inserts to one transaction. GetPurchaseForUpdate locks the purchase row, so
// a concurrent delivery of the same event blocks until the first one commits.
type EnrollmentTx interface {
	GetPurchaseForUpdate(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	CompletePurchase(ctx context.Context, id uuid.UUID, sessionID string) error
	AddStudentToCourse(ctx context.Context, courseID, studentID uuid.UUID) error
	AddCourseToUser(ctx context.Context, userID, courseID uuid.UUID) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type CheckoutProvider interface {
	CreateCheckoutSession(ctx context.Context, purchase *model.Purchase, course *model.Course, customerEmail string) (string, error)
}

type MediaUploader interface {
	UploadThumbnail(ctx context.Context, image io.Reader, publicID string) (string, error)
}

type EnrollmentEventProducer interface {
	SendEnrollmentCompleted(ctx context.Context, purchase *model.Purchase) error
}

func requireRole(ctx context.Context, role model.Role) error {
	userRole, ok := ctxdata.GetUserRole(ctx)
	if !ok {
		return errdefs.ErrPermissionDenied
	}
	if model.Role(userRole) != role {
		return errdefs.ErrPermissionDenied
	}
	return nil
}

func currentUserID(ctx context.Context) (uuid.UUID, error) {
	userID, ok := ctxdata.GetUserID(ctx)
	if !ok {
		return uuid.Nil, errdefs.ErrAuthentication
	}
	return userID, nil
}
