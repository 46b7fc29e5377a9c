package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KanujanS/LMS/internal/errdefs"
	"github.com/KanujanS/LMS/internal/logging"
	"github.com/KanujanS/LMS/internal/model"
	"github.com/KanujanS/LMS/internal/utils"
)

const maxRetries = 3              // Максимальное количество попыток
const retryDelay = 1 * time.Second // Задержка между попытками

type PaymentService struct {
	purchaseRepository PurchaseRepository
	userRepository     UserRepository
	courseRepository   CourseRepository
	checkout           CheckoutProvider
	events             EnrollmentEventProducer
}

func NewPaymentService(
	purchaseRepository PurchaseRepository,
	userRepository UserRepository,
	courseRepository CourseRepository,
	checkout CheckoutProvider,
	events EnrollmentEventProducer,
) *PaymentService {
	return &PaymentService{
		purchaseRepository: purchaseRepository,
		userRepository:     userRepository,
		courseRepository:   courseRepository,
		checkout:           checkout,
		events:             events,
	}
}

// PurchaseCourse records a pending purchase at today's discounted price and
// returns the checkout URL to redirect the buyer to.
func (s *PaymentService) PurchaseCourse(ctx context.Context, courseID uuid.UUID) (string, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return "", err
	}

	user, err := s.userRepository.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.IsEnrolledIn(courseID) {
		return "", errdefs.ErrAlreadyEnrolled
	}

	course, err := s.courseRepository.GetCourse(ctx, courseID)
	if err != nil {
		return "", err
	}
	if !course.IsPublished {
		return "", errdefs.ErrNotFound
	}

	newPurchaseID, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate purchase ID: %w", err)
	}

	purchase, err := s.purchaseRepository.CreatePurchase(ctx, &model.RepositoryCreatePurchaseInput{
		Id:       newPurchaseID,
		UserId:   user.Id,
		CourseId: course.Id,
		Amount:   math.Round(course.DiscountedPrice()*100) / 100,
	})
	if err != nil {
		return "", err
	}

	return s.checkout.CreateCheckoutSession(ctx, purchase, course, user.Email)
}

// HandleCheckoutEvent reconciles a verified checkout notification against the
// purchase ledger. Unknown event kinds are acknowledged without action.
func (s *PaymentService) HandleCheckoutEvent(ctx context.Context, event *model.CheckoutEvent) error {
	switch event.Type {
	case model.CheckoutEventCompleted:
		return s.reconcileCompleted(ctx, event)
	case model.CheckoutEventExpired:
		return s.reconcileExpired(ctx, event)
	default:
		if logger, ok := logging.GetFromContext(ctx); ok {
			logger.Info(ctx, "ignoring checkout event", zap.String("type", string(event.Type)))
		}
		return nil
	}
}

func (s *PaymentService) reconcileCompleted(ctx context.Context, event *model.CheckoutEvent) error {
	if event.PurchaseRef == "" {
		return fmt.Errorf("%w: completed session %s carries no purchase reference", errdefs.ErrMissingReference, event.SessionId)
	}
	purchaseID, err := uuid.Parse(event.PurchaseRef)
	if err != nil {
		return fmt.Errorf("%w: malformed purchase reference %q", errdefs.ErrMissingReference, event.PurchaseRef)
	}

	// The webhook can outrun the transaction that inserted the purchase, so
	// lookups get a few spaced attempts before the delivery is failed for
	// redelivery.
	purchase, err := utils.Retry(ctx, maxRetries, retryDelay, func() (*model.Purchase, error) {
		return s.purchaseRepository.GetPurchase(ctx, purchaseID)
	})
	if err != nil {
		if errors.Is(err, errdefs.ErrNotFound) {
			return fmt.Errorf("%w: purchase %s", errdefs.ErrReferenceNotFound, purchaseID)
		}
		return err
	}

	if purchase.Status == model.PurchaseStatusCompleted {
		if logger, ok := logging.GetFromContext(ctx); ok {
			logger.Info(ctx, "purchase already completed", zap.String("purchase_id", purchase.Id.String()))
		}
		return nil
	}

	user, err := utils.Retry(ctx, maxRetries, retryDelay, func() (*model.User, error) {
		return s.userRepository.GetUser(ctx, purchase.UserId)
	})
	if err != nil {
		if errors.Is(err, errdefs.ErrNotFound) {
			return fmt.Errorf("%w: user %s", errdefs.ErrReferenceNotFound, purchase.UserId)
		}
		return err
	}

	course, err := utils.Retry(ctx, maxRetries, retryDelay, func() (*model.Course, error) {
		return s.courseRepository.GetCourse(ctx, purchase.CourseId)
	})
	if err != nil {
		if errors.Is(err, errdefs.ErrNotFound) {
			return fmt.Errorf("%w: course %s", errdefs.ErrReferenceNotFound, purchase.CourseId)
		}
		return err
	}

	tx, err := s.purchaseRepository.NewEnrollmentTx(ctx)
	if err != nil {
		return err
	}
	defer func(tx EnrollmentTx, ctx context.Context) {
		err := tx.Rollback(ctx)
		if err != nil {
			logger, ok := logging.GetFromContext(ctx)
			if ok {
				logger.Error(ctx, "Failed to Rollback", zap.Error(err))
			}
		}
	}(tx, ctx)

	// Re-read under the row lock: a concurrent delivery that won the race has
	// already completed the purchase, and this one becomes a no-op.
	locked, err := tx.GetPurchaseForUpdate(ctx, purchase.Id)
	if err != nil {
		return err
	}
	if locked.Status == model.PurchaseStatusCompleted {
		return nil
	}

	if err := tx.CompletePurchase(ctx, purchase.Id, event.SessionId); err != nil {
		return err
	}
	if err := tx.AddStudentToCourse(ctx, course.Id, user.Id); err != nil {
		return err
	}
	if err := tx.AddCourseToUser(ctx, user.Id, course.Id); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	// Post-commit check that the enrollment is actually visible. The commit
	// stands either way; a failure here only flags the delivery for
	// redelivery, which the completed-status guard then absorbs.
	_, err = utils.Retry(ctx, maxRetries, retryDelay, func() (struct{}, error) {
		fresh, err := s.userRepository.GetUser(ctx, user.Id)
		if err != nil {
			return struct{}{}, err
		}
		if !fresh.IsEnrolledIn(course.Id) {
			return struct{}{}, errdefs.ErrNotFound
		}
		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("%w: purchase %s", errdefs.ErrEnrollmentVerification, purchase.Id)
	}

	if err := s.events.SendEnrollmentCompleted(ctx, purchase); err != nil {
		if logger, ok := logging.GetFromContext(ctx); ok {
			logger.Warn(ctx, "failed to publish enrollment event",
				zap.String("purchase_id", purchase.Id.String()), zap.Error(err))
		}
	}

	if logger, ok := logging.GetFromContext(ctx); ok {
		logger.Info(ctx, "purchase completed",
			zap.String("purchase_id", purchase.Id.String()),
			zap.String("course_id", course.Id.String()),
			zap.String("user_id", user.Id.String()))
	}
	return nil
}

// reconcileExpired marks an abandoned checkout's purchase as expired. A
// missing or already-settled purchase is a no-op: expiry is best effort and
// must never fail a delivery.
func (s *PaymentService) reconcileExpired(ctx context.Context, event *model.CheckoutEvent) error {
	logger, hasLogger := logging.GetFromContext(ctx)

	if event.PurchaseRef == "" {
		if hasLogger {
			logger.Info(ctx, "expired session carries no purchase reference", zap.String("session_id", event.SessionId))
		}
		return nil
	}
	purchaseID, err := uuid.Parse(event.PurchaseRef)
	if err != nil {
		if hasLogger {
			logger.Info(ctx, "expired session carries malformed purchase reference", zap.String("purchase_ref", event.PurchaseRef))
		}
		return nil
	}

	_, err = s.purchaseRepository.MarkPurchaseExpired(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, errdefs.ErrNotFound) {
			if hasLogger {
				logger.Info(ctx, "no pending purchase to expire", zap.String("purchase_id", purchaseID.String()))
			}
			return nil
		}
		return err
	}

	if hasLogger {
		logger.Info(ctx, "purchase expired", zap.String("purchase_id", purchaseID.String()))
	}
	return nil
}
