package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/KanujanS/LMS/internal/errdefs"
	"github.com/KanujanS/LMS/internal/model"
)

type CourseService struct {
	courseRepository   CourseRepository
	userRepository     UserRepository
	purchaseRepository PurchaseRepository
	progressRepository ProgressRepository
	media              MediaUploader
}

func NewCourseService(
	courseRepository CourseRepository,
	userRepository UserRepository,
	purchaseRepository PurchaseRepository,
	progressRepository ProgressRepository,
	media MediaUploader,
) *CourseService {
	return &CourseService{
		courseRepository:   courseRepository,
		userRepository:     userRepository,
		purchaseRepository: purchaseRepository,
		progressRepository: progressRepository,
		media:              media,
	}
}

func (s *CourseService) ListPublished(ctx context.Context) ([]*model.Course, error) {
	return s.courseRepository.ListPublishedCourses(ctx)
}

// GetCourse is the public course page: the content tree is included, but
// lecture media URLs are blanked unless the lecture is a free preview.
// Enrolled students read full content through EnrolledCourses instead.
func (s *CourseService) GetCourse(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	course, err := s.courseRepository.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished {
		return nil, errdefs.ErrNotFound
	}
	return redactCourseMedia(course), nil
}

func (s *CourseService) CreateCourse(ctx context.Context, input *model.CreateCourseInput, thumbnail io.Reader) (*model.Course, error) {
	if err := requireRole(ctx, model.RoleEducator); err != nil {
		return nil, err
	}
	educatorID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateCourseInput(input.Title, input.Price, input.DiscountPercent); err != nil {
		return nil, err
	}
	if thumbnail == nil {
		return nil, fmt.Errorf("%w: thumbnail not attached", errdefs.ErrValidation)
	}

	newCourseID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate course ID: %w", err)
	}

	thumbnailURL, err := s.media.UploadThumbnail(ctx, thumbnail, newCourseID.String())
	if err != nil {
		return nil, err
	}

	return s.courseRepository.CreateCourse(ctx, &model.RepositoryCreateCourseInput{
		Id:              newCourseID,
		Title:           input.Title,
		Description:     input.Description,
		Price:           input.Price,
		DiscountPercent: input.DiscountPercent,
		ThumbnailURL:    thumbnailURL,
		EducatorId:      educatorID,
		Content:         normalizeContent(input.Content),
		IsPublished:     input.IsPublished,
	})
}

// UpdateCourse replaces the course metadata and the whole content tree. A nil
// thumbnail keeps the stored one.
func (s *CourseService) UpdateCourse(ctx context.Context, id uuid.UUID, input *model.UpdateCourseInput, thumbnail io.Reader) (*model.Course, error) {
	if err := requireRole(ctx, model.RoleEducator); err != nil {
		return nil, err
	}
	educatorID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateCourseInput(input.Title, input.Price, input.DiscountPercent); err != nil {
		return nil, err
	}

	course, err := s.courseRepository.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if course.EducatorId != educatorID {
		return nil, errdefs.ErrPermissionDenied
	}

	var thumbnailURL *string
	if thumbnail != nil {
		uploaded, err := s.media.UploadThumbnail(ctx, thumbnail, course.Id.String())
		if err != nil {
			return nil, err
		}
		thumbnailURL = &uploaded
	}

	return s.courseRepository.UpdateCourse(ctx, id, &model.RepositoryUpdateCourseInput{
		Title:           input.Title,
		Description:     input.Description,
		Price:           input.Price,
		DiscountPercent: input.DiscountPercent,
		ThumbnailURL:    thumbnailURL,
		Content:         normalizeContent(input.Content),
		IsPublished:     input.IsPublished,
	})
}

func (s *CourseService) EducatorCourses(ctx context.Context) ([]*model.Course, error) {
	if err := requireRole(ctx, model.RoleEducator); err != nil {
		return nil, err
	}
	educatorID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	return s.courseRepository.ListCoursesByEducator(ctx, educatorID)
}

func (s *CourseService) Dashboard(ctx context.Context) (*model.EducatorDashboard, error) {
	if err := requireRole(ctx, model.RoleEducator); err != nil {
		return nil, err
	}
	educatorID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	courses, err := s.courseRepository.ListCoursesByEducator(ctx, educatorID)
	if err != nil {
		return nil, err
	}

	dashboard := &model.EducatorDashboard{
		TotalCourses:     len(courses),
		EnrolledStudents: []model.DashboardEnrollment{},
	}
	if len(courses) == 0 {
		return dashboard, nil
	}

	courseIDs := make([]uuid.UUID, 0, len(courses))
	studentIDSet := make(map[uuid.UUID]struct{})
	for _, course := range courses {
		courseIDs = append(courseIDs, course.Id)
		for _, studentID := range course.EnrolledStudents {
			studentIDSet[studentID] = struct{}{}
		}
	}

	purchases, err := s.purchaseRepository.ListCompletedByCourseIDs(ctx, courseIDs)
	if err != nil {
		return nil, err
	}
	for _, purchase := range purchases {
		dashboard.TotalEarnings += purchase.Amount
	}

	students, err := s.listUsers(ctx, studentIDSet)
	if err != nil {
		return nil, err
	}

	for _, course := range courses {
		for _, studentID := range course.EnrolledStudents {
			student, ok := students[studentID]
			if !ok {
				continue
			}
			dashboard.EnrolledStudents = append(dashboard.EnrolledStudents, model.DashboardEnrollment{
				CourseTitle:     course.Title,
				StudentId:       student.Id,
				StudentName:     student.Name,
				StudentImageURL: student.ImageURL,
			})
		}
	}
	return dashboard, nil
}

// EnrolledStudents lists one row per completed purchase of the educator's
// courses, newest first.
func (s *CourseService) EnrolledStudents(ctx context.Context) ([]*model.EnrolledStudentRow, error) {
	if err := requireRole(ctx, model.RoleEducator); err != nil {
		return nil, err
	}
	educatorID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	courses, err := s.courseRepository.ListCoursesByEducator(ctx, educatorID)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return []*model.EnrolledStudentRow{}, nil
	}

	courseTitles := make(map[uuid.UUID]string, len(courses))
	courseIDs := make([]uuid.UUID, 0, len(courses))
	for _, course := range courses {
		courseTitles[course.Id] = course.Title
		courseIDs = append(courseIDs, course.Id)
	}

	purchases, err := s.purchaseRepository.ListCompletedByCourseIDs(ctx, courseIDs)
	if err != nil {
		return nil, err
	}

	studentIDSet := make(map[uuid.UUID]struct{}, len(purchases))
	for _, purchase := range purchases {
		studentIDSet[purchase.UserId] = struct{}{}
	}
	students, err := s.listUsers(ctx, studentIDSet)
	if err != nil {
		return nil, err
	}

	rows := make([]*model.EnrolledStudentRow, 0, len(purchases))
	for _, purchase := range purchases {
		student, ok := students[purchase.UserId]
		if !ok {
			continue
		}
		purchasedAt := purchase.CreatedAt
		if purchase.CompletedAt != nil {
			purchasedAt = *purchase.CompletedAt
		}
		rows = append(rows, &model.EnrolledStudentRow{
			StudentName:  student.Name,
			StudentEmail: student.Email,
			CourseTitle:  courseTitles[purchase.CourseId],
			Amount:       purchase.Amount,
			PurchasedAt:  purchasedAt,
		})
	}
	return rows, nil
}

// EnrolledCourses returns the caller's courses with full content, media URLs
// included.
func (s *CourseService) EnrolledCourses(ctx context.Context) ([]*model.Course, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepository.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.EnrolledCourses) == 0 {
		return []*model.Course{}, nil
	}
	return s.courseRepository.ListCoursesByIDs(ctx, user.EnrolledCourses)
}

func (s *CourseService) UpdateProgress(ctx context.Context, input *model.UpdateProgressInput) (*model.CourseProgress, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if input.LectureId == "" {
		return nil, fmt.Errorf("%w: lecture id is required", errdefs.ErrValidation)
	}

	user, err := s.userRepository.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsEnrolledIn(input.CourseId) {
		return nil, errdefs.ErrPermissionDenied
	}

	newProgressID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate progress ID: %w", err)
	}
	return s.progressRepository.MarkLectureCompleted(ctx, newProgressID, userID, input.CourseId, input.LectureId)
}

// GetProgress returns the caller's progress for a course; a course never
// started reads as empty progress, not an error.
func (s *CourseService) GetProgress(ctx context.Context, courseID uuid.UUID) (*model.CourseProgress, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	progress, err := s.progressRepository.GetProgress(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, errdefs.ErrNotFound) {
			return &model.CourseProgress{
				UserId:            userID,
				CourseId:          courseID,
				LecturesCompleted: []string{},
			}, nil
		}
		return nil, err
	}
	return progress, nil
}

func (s *CourseService) AddRating(ctx context.Context, input *model.AddRatingInput) (*model.Course, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if input.Value < 1 || input.Value > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", errdefs.ErrValidation)
	}

	user, err := s.userRepository.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsEnrolledIn(input.CourseId) {
		return nil, errdefs.ErrPermissionDenied
	}

	course, err := s.courseRepository.GetCourse(ctx, input.CourseId)
	if err != nil {
		return nil, err
	}

	ratings := course.Ratings
	updated := false
	for i := range ratings {
		if ratings[i].UserId == userID {
			ratings[i].Value = input.Value
			updated = true
			break
		}
	}
	if !updated {
		ratings = append(ratings, model.Rating{UserId: userID, Value: input.Value})
	}

	return s.courseRepository.UpdateCourseRatings(ctx, input.CourseId, ratings)
}

func (s *CourseService) listUsers(ctx context.Context, idSet map[uuid.UUID]struct{}) (map[uuid.UUID]*model.User, error) {
	if len(idSet) == 0 {
		return map[uuid.UUID]*model.User{}, nil
	}
	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	users, err := s.userRepository.ListUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*model.User, len(users))
	for _, user := range users {
		byID[user.Id] = user
	}
	return byID, nil
}

func validateCourseInput(title string, price float64, discountPercent int32) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", errdefs.ErrValidation)
	}
	if price < 0 {
		return fmt.Errorf("%w: price must not be negative", errdefs.ErrValidation)
	}
	if discountPercent < 0 || discountPercent > 100 {
		return fmt.Errorf("%w: discount must be between 0 and 100", errdefs.ErrValidation)
	}
	return nil
}

// normalizeContent assigns ordering and missing ids server-side; clients only
// send the tree shape.
func normalizeContent(content []model.Chapter) []model.Chapter {
	for ci := range content {
		chapter := &content[ci]
		if chapter.ChapterId == "" {
			chapter.ChapterId = uuid.NewString()
		}
		chapter.Order = ci + 1
		for li := range chapter.Lectures {
			lecture := &chapter.Lectures[li]
			if lecture.LectureId == "" {
				lecture.LectureId = fmt.Sprintf("%d-%d-%d", ci+1, li+1, time.Now().UnixMilli())
			}
			lecture.Order = li + 1
		}
	}
	return content
}

func redactCourseMedia(course *model.Course) *model.Course {
	out := *course
	out.Content = make([]model.Chapter, len(course.Content))
	copy(out.Content, course.Content)
	for ci := range out.Content {
		lectures := make([]model.Lecture, len(out.Content[ci].Lectures))
		copy(lectures, out.Content[ci].Lectures)
		for li := range lectures {
			if !lectures[li].IsPreviewFree {
				lectures[li].MediaURL = ""
			}
		}
		out.Content[ci].Lectures = lectures
	}
	return &out
}
