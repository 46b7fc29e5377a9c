package errdefs

import "errors"

var (
	ErrAuthentication   = errors.New("authentication failed")
	ErrPermissionDenied = errors.New("permission was denied")
	ErrValidation       = errors.New("invalid argument")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")

	ErrAlreadyEnrolled        = errors.New("user is already enrolled in course")
	ErrInvalidSignature       = errors.New("webhook signature verification failed")
	ErrMissingReference       = errors.New("purchase reference missing from event metadata")
	ErrReferenceNotFound      = errors.New("referenced record not found")
	ErrEnrollmentVerification = errors.New("enrollment verification failed after commit")
)
