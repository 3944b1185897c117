package service

import (
	"context"
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/util"
	"course_hub_backend/pkg/logger"
	"course_hub_backend/pkg/monitoring"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// maxIDAttempts bounds retries after a certificate identifier collision.
const maxIDAttempts = 5

var errIDSpaceExhausted = errors.New("could not allocate a unique certificate identifier")

type CertificateService struct {
	Completion      *CompletionService
	CertificateRepo *repository.CertificateRepository
	BaseURL         string

	now   func() time.Time
	newID func() (string, error)
}

func NewCertificateService(completion *CompletionService, certificateRepo *repository.CertificateRepository, baseURL string) *CertificateService {
	return &CertificateService{
		Completion:      completion,
		CertificateRepo: certificateRepo,
		BaseURL:         baseURL,
		now:             time.Now,
		newID:           util.NewCertificateID,
	}
}

// VerificationURL is derived only from the identifier and the public base address.
func (s *CertificateService) VerificationURL(certificateID string) string {
	return s.BaseURL + "/certificates/verify/" + certificateID
}

// IssueCertificate returns the user's certificate for the course, creating it on the first call.
//
// The row is inserted unconditionally and the unique index on (user_id, course_id) decides the
// winner: a losing request reads back the existing row, so concurrent callers all observe the
// same identifier. A violation with no row for the pair means the random identifier collided,
// and a fresh one is drawn.
func (s *CertificateService) IssueCertificate(ctx context.Context, userID, courseID uint) (*model.Certificate, error) {
	status, err := s.Completion.EvaluateCompletion(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !status.IsComplete {
		return nil, &util.IncompleteError{Completed: status.CompletedCount, Total: status.TotalCount}
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		certificateID, err := s.newID()
		if err != nil {
			return nil, err
		}

		cert := &model.Certificate{
			UserID:          userID,
			CourseID:        courseID,
			CertificateID:   certificateID,
			VerificationURL: s.VerificationURL(certificateID),
			CompletionDate:  s.now().UTC(),
		}

		err = s.CertificateRepo.Create(ctx, cert)
		if err == nil {
			monitoring.CertificatesIssued.Inc()
			logger.Log.Info("certificate issued",
				zap.Uint("userID", userID),
				zap.Uint("courseID", courseID),
				zap.String("certificateID", certificateID),
			)
			return cert, nil
		}
		if !repository.IsUniqueViolation(err) {
			return nil, err
		}

		existing, findErr := s.CertificateRepo.FindByUserAndCourse(ctx, userID, courseID)
		if findErr == nil {
			return existing, nil
		}
		if !repository.IsNotFound(findErr) {
			return nil, findErr
		}

		logger.Log.Warn("certificate identifier collision, retrying", zap.Int("attempt", attempt+1))
	}

	return nil, errIDSpaceExhausted
}

// ResolveCertificate looks up a public identifier. Malformed and unknown identifiers produce
// the same error.
func (s *CertificateService) ResolveCertificate(ctx context.Context, certificateID string) (*model.Certificate, error) {
	if !util.IsCertificateID(certificateID) {
		return nil, util.ErrCertificateNotFound
	}

	cert, err := s.CertificateRepo.FindByCertificateID(ctx, certificateID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrCertificateNotFound
		}
		return nil, err
	}
	if cert.User == nil || cert.Course == nil {
		return nil, fmt.Errorf("certificate %s has no user or course", certificateID)
	}
	return cert, nil
}

func (s *CertificateService) ListForUser(ctx context.Context, userID uint) ([]model.Certificate, error) {
	return s.CertificateRepo.ListByUser(ctx, userID)
}
