package util

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailRegistered       = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrCourseNotFound        = errors.New("course not found")
	ErrModuleNotFound        = errors.New("module not found")
	ErrLessonNotFound        = errors.New("lesson not found")
	ErrCertificateNotFound   = errors.New("certificate not found")
	ErrNotEnrolled           = errors.New("not enrolled in this course")
	ErrAlreadyEnrolled       = errors.New("already enrolled in this course")
	ErrCourseNotFree         = errors.New("course requires purchase")
	ErrCourseIsFree          = errors.New("course is free, enroll directly")
	ErrCourseNotPublished    = errors.New("course is not published")
	ErrSlugTaken             = errors.New("slug already in use")
	ErrOrderTaken            = errors.New("order already in use")
	ErrIncomplete            = errors.New("course not completed")
	ErrPaymentsDisabled      = errors.New("payments are not configured")
	ErrUpstream              = errors.New("upstream provider failure")
	ErrCourseHasCertificates = errors.New("course has issued certificates")
	ErrInvalidVideoExt       = errors.New("unsupported video extension")
	ErrInvalidVideoContent   = errors.New("file content is not a video")
)

// IncompleteError is returned when a certificate is requested before every lesson is done.
type IncompleteError struct {
	Completed int
	Total     int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("course not completed: %d of %d lessons done", e.Completed, e.Total)
}

func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncomplete
}

func (e *IncompleteError) Remaining() int {
	return e.Total - e.Completed
}
