package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/KanujanS/LMS/internal/model"
)

type CheckoutProvider struct {
	mock.Mock
}

func (m *CheckoutProvider) CreateCheckoutSession(ctx context.Context, purchase *model.Purchase, course *model.Course, customerEmail string) (string, error) {
	args := m.Called(ctx, purchase, course, customerEmail)
	return args.String(0), args.Error(1)
}

type MediaUploader struct {
	mock.Mock
}

func (m *MediaUploader) UploadThumbnail(ctx context.Context, image io.Reader, publicID string) (string, error) {
	args := m.Called(ctx, image, publicID)
	return args.String(0), args.Error(1)
}

type EnrollmentEventProducer struct {
	mock.Mock
}

func (m *EnrollmentEventProducer) SendEnrollmentCompleted(ctx context.Context, purchase *model.Purchase) error {
	args := m.Called(ctx, purchase)
	return args.Error(0)
}
