package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent  Role = "student"
	RoleEducator Role = "educator"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	return r == RoleStudent || r == RoleEducator
}

type User struct {
	Id              uuid.UUID   `db:"id" json:"id"`
	Name            string      `db:"name" json:"name"`
	Email           string      `db:"email" json:"email"`
	PasswordHash    string      `db:"password_hash" json:"-"`
	ImageURL        string      `db:"image_url" json:"image_url"`
	Role            Role        `db:"role" json:"role"`
	EnrolledCourses []uuid.UUID `db:"enrolled_courses" json:"enrolled_courses"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	EditedAt        time.Time   `db:"edited_at" json:"edited_at"`
}

func (u *User) IsEnrolledIn(courseID uuid.UUID) bool {
	for _, id := range u.EnrolledCourses {
		if id == courseID {
			return true
		}
	}
	return false
}

// Lecture is one playable unit inside a chapter. MediaURL is blanked for
// non-enrolled viewers unless the lecture is marked as a free preview.
type Lecture struct {
	LectureId       string `json:"lecture_id"`
	Title           string `json:"title"`
	DurationMinutes int    `json:"duration_minutes"`
	MediaURL        string `json:"media_url"`
	IsPreviewFree   bool   `json:"is_preview_free"`
	Order           int    `json:"order"`
}

type Chapter struct {
	ChapterId string    `json:"chapter_id"`
	Title     string    `json:"title"`
	Order     int       `json:"order"`
	Lectures  []Lecture `json:"lectures"`
}

type Rating struct {
	UserId uuid.UUID `json:"user_id"`
	Value  int       `json:"value"`
}

// Course content and ratings live in jsonb columns; the content tree is always
// replaced wholesale on edit, never patched per lecture.
type Course struct {
	Id               uuid.UUID   `db:"id" json:"id"`
	Title            string      `db:"title" json:"title"`
	Description      string      `db:"description" json:"description"`
	Price            float64     `db:"price" json:"price"`
	DiscountPercent  int32       `db:"discount_percent" json:"discount_percent"`
	ThumbnailURL     string      `db:"thumbnail_url" json:"thumbnail_url"`
	EducatorId       uuid.UUID   `db:"educator_id" json:"educator_id"`
	Content          []Chapter   `db:"content" json:"content,omitempty"`
	EnrolledStudents []uuid.UUID `db:"enrolled_students" json:"enrolled_students,omitempty"`
	Ratings          []Rating    `db:"ratings" json:"ratings"`
	IsPublished      bool        `db:"is_published" json:"is_published"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
	EditedAt         time.Time   `db:"edited_at" json:"edited_at"`
}

func (c *Course) DiscountedPrice() float64 {
	return c.Price - c.Price*float64(c.DiscountPercent)/100
}

func (c *Course) HasStudent(userID uuid.UUID) bool {
	for _, id := range c.EnrolledStudents {
		if id == userID {
			return true
		}
	}
	return false
}

type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusCompleted PurchaseStatus = "completed"
	PurchaseStatusExpired   PurchaseStatus = "expired"
)

func (s PurchaseStatus) String() string {
	return string(s)
}

func (s PurchaseStatus) IsValid() bool {
	return s == PurchaseStatusPending || s == PurchaseStatusCompleted || s == PurchaseStatusExpired
}

// Purchase is the ledger row for one attempted course purchase. Status moves
// pending -> completed or pending -> expired exactly once; completed is final.
type Purchase struct {
	Id              uuid.UUID      `db:"id" json:"id"`
	UserId          uuid.UUID      `db:"user_id" json:"user_id"`
	CourseId        uuid.UUID      `db:"course_id" json:"course_id"`
	Amount          float64        `db:"amount" json:"amount"`
	Status          PurchaseStatus `db:"status" json:"status"`
	StripeSessionId *string        `db:"stripe_session_id" json:"stripe_session_id,omitempty"`
	CompletedAt     *time.Time     `db:"completed_at" json:"completed_at,omitempty"`
	ExpiredAt       *time.Time     `db:"expired_at" json:"expired_at,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	EditedAt        time.Time      `db:"edited_at" json:"edited_at"`
}

type CourseProgress struct {
	Id                uuid.UUID `db:"id" json:"id"`
	UserId            uuid.UUID `db:"user_id" json:"user_id"`
	CourseId          uuid.UUID `db:"course_id" json:"course_id"`
	LecturesCompleted []string  `db:"lectures_completed" json:"lectures_completed"`
	Completed         bool      `db:"completed" json:"completed"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	EditedAt          time.Time `db:"edited_at" json:"edited_at"`
}

type CheckoutEventType string

const (
	CheckoutEventCompleted CheckoutEventType = "checkout.session.completed"
	CheckoutEventExpired   CheckoutEventType = "checkout.session.expired"
)

// CheckoutEvent is a payment-outcome notification after signature verification.
// PurchaseRef carries the metadata value as received; it is parsed (and may be
// empty or malformed) only when the event kind requires it.
type CheckoutEvent struct {
	Type        CheckoutEventType
	SessionId   string
	PurchaseRef string
}

type EducatorDashboard struct {
	TotalEarnings    float64               `json:"total_earnings"`
	TotalCourses     int                   `json:"total_courses"`
	EnrolledStudents []DashboardEnrollment `json:"enrolled_students"`
}

type DashboardEnrollment struct {
	CourseTitle     string    `json:"course_title"`
	StudentId       uuid.UUID `json:"student_id"`
	StudentName     string    `json:"student_name"`
	StudentImageURL string    `json:"student_image_url"`
}

type EnrolledStudentRow struct {
	StudentName  string    `json:"student_name"`
	StudentEmail string    `json:"student_email"`
	CourseTitle  string    `json:"course_title"`
	Amount       float64   `json:"amount"`
	PurchasedAt  time.Time `json:"purchased_at"`
}
