package model

import "github.com/google/uuid"

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateCourseInput struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	DiscountPercent int32     `json:"discount_percent"`
	Content         []Chapter `json:"content"`
	IsPublished     bool      `json:"is_published"`
}

type UpdateCourseInput struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	DiscountPercent int32     `json:"discount_percent"`
	Content         []Chapter `json:"content"`
	IsPublished     bool      `json:"is_published"`
}

type PurchaseCourseInput struct {
	CourseId uuid.UUID
}

type UpdateProgressInput struct {
	CourseId  uuid.UUID `json:"course_id"`
	LectureId string    `json:"lecture_id"`
}

type AddRatingInput struct {
	CourseId uuid.UUID `json:"course_id"`
	Value    int       `json:"value"`
}

type RepositoryCreateUserInput struct {
	Id           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	ImageURL     string
	Role         Role
}

type RepositoryCreateCourseInput struct {
	Id              uuid.UUID
	Title           string
	Description     string
	Price           float64
	DiscountPercent int32
	ThumbnailURL    string
	EducatorId      uuid.UUID
	Content         []Chapter
	IsPublished     bool
}

type RepositoryUpdateCourseInput struct {
	Title           string
	Description     string
	Price           float64
	DiscountPercent int32
	ThumbnailURL    *string
	Content         []Chapter
	IsPublished     bool
}

type RepositoryCreatePurchaseInput struct {
	Id       uuid.UUID
	UserId   uuid.UUID
	CourseId uuid.UUID
	Amount   float64
}
