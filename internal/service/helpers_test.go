package service

import (
	"context"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db           *gorm.DB
	completion   *CompletionService
	certificates *CertificateService
	progress     *ProgressService
	courses      *CourseService
	enrollments  *EnrollmentService
	courseRepo   *repository.CourseRepository
	certRepo     *repository.CertificateRepository
	progressRepo *repository.ProgressRepository
}

var fixedNow = time.Date(2024, time.March, 14, 15, 9, 26, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	certRepo := repository.NewCertificateRepository(db)

	completion := NewCompletionService(courseRepo, enrollmentRepo, progressRepo)
	certificates := NewCertificateService(completion, certRepo, "https://courses.example.com")
	certificates.now = func() time.Time { return fixedNow }
	progress := NewProgressService(courseRepo, enrollmentRepo, progressRepo)
	progress.now = func() time.Time { return fixedNow }

	return &fixture{
		db:           db,
		completion:   completion,
		certificates: certificates,
		progress:     progress,
		courses:      NewCourseService(courseRepo, enrollmentRepo, progressRepo, certRepo, completion, nil, 0),
		enrollments:  NewEnrollmentService(enrollmentRepo, courseRepo, userRepo),
		courseRepo:   courseRepo,
		certRepo:     certRepo,
		progressRepo: progressRepo,
	}
}

// completeLessons marks the given lessons done for the user.
func (f *fixture) completeLessons(t *testing.T, userID uint, lessonIDs ...uint) {
	t.Helper()
	for _, id := range lessonIDs {
		_, err := f.progress.RecordProgress(context.Background(), userID, id, true)
		require.NoError(t, err, "lesson %d", id)
	}
}
