package service

import (
	"context"
	"course_hub_backend/internal/config"
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/util"
	"course_hub_backend/pkg/logger"
	"course_hub_backend/pkg/monitoring"
	"course_hub_backend/pkg/payment"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CheckoutService struct {
	// Gateway is nil when no payment provider is configured.
	Gateway        payment.Gateway
	Courses        *CourseService
	UserRepo       *repository.UserRepository
	EnrollmentRepo *repository.EnrollmentRepository
	PurchaseRepo   *repository.PurchaseRepository
	Cfg            *config.StripeConfig
}

func NewCheckoutService(
	gateway payment.Gateway,
	courses *CourseService,
	userRepo *repository.UserRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	purchaseRepo *repository.PurchaseRepository,
	cfg *config.StripeConfig,
) *CheckoutService {
	return &CheckoutService{
		Gateway:        gateway,
		Courses:        courses,
		UserRepo:       userRepo,
		EnrollmentRepo: enrollmentRepo,
		PurchaseRepo:   purchaseRepo,
		Cfg:            cfg,
	}
}

// CreateCheckout opens a hosted checkout for a paid, published course and records the
// pending purchase.
func (s *CheckoutService) CreateCheckout(ctx context.Context, userID uint, slug string) (*payment.CheckoutSession, error) {
	if s.Gateway == nil {
		return nil, util.ErrPaymentsDisabled
	}

	course, err := s.Courses.FindPublished(ctx, slug)
	if err != nil {
		return nil, err
	}
	if course.IsFree {
		return nil, util.ErrCourseIsFree
	}

	enrolled, err := s.EnrollmentRepo.Exists(ctx, userID, course.ID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, util.ErrAlreadyEnrolled
	}

	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	reference := uuid.NewString()
	currency := strings.ToLower(s.Cfg.Currency)

	session, err := s.Gateway.CreateCheckout(ctx, payment.CheckoutRequest{
		UserID:     user.ID,
		CourseID:   course.ID,
		CourseName: course.Title,
		Email:      user.Email,
		Amount:     course.Price,
		Currency:   currency,
		SuccessURL: strings.ReplaceAll(s.Cfg.SuccessURL, "{slug}", course.Slug),
		CancelURL:  strings.ReplaceAll(s.Cfg.CancelURL, "{slug}", course.Slug),
		Reference:  reference,
	})
	if err != nil {
		logger.Log.Error("Checkout session creation failed",
			zap.Uint("userID", userID), zap.Uint("courseID", course.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", util.ErrUpstream, err)
	}

	purchase := &model.Purchase{
		UserID:    user.ID,
		CourseID:  course.ID,
		SessionID: session.ID,
		Reference: reference,
		Amount:    course.Price,
		Currency:  currency,
		Status:    model.PurchasePending,
	}
	if err := s.PurchaseRepo.CreatePending(ctx, purchase); err != nil {
		return nil, err
	}

	return session, nil
}

// HandleWebhook applies a signed provider event. Events that cannot be mapped to a user and
// course are logged and acknowledged; only store failures are returned so the provider retries.
func (s *CheckoutService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.Gateway == nil {
		return util.ErrPaymentsDisabled
	}

	event, err := s.Gateway.ParseEvent(payload, signature)
	if err != nil {
		monitoring.WebhookEvents.WithLabelValues("rejected").Inc()
		return err
	}

	if event.Type != payment.EventCheckoutCompleted || event.Completed == nil {
		monitoring.WebhookEvents.WithLabelValues("ignored").Inc()
		return nil
	}

	done := event.Completed
	log := logger.Log.With(zap.String("eventID", event.ID), zap.String("sessionID", done.SessionID))

	if !done.Paid {
		log.Warn("checkout completed without payment, dropping")
		monitoring.WebhookEvents.WithLabelValues("dropped").Inc()
		return nil
	}

	userID, ok, err := s.resolvable(ctx, done)
	if err != nil {
		return err
	}
	if !ok {
		log.Warn("checkout references unknown user or course, dropping",
			zap.Uint("userID", done.UserID), zap.Uint("courseID", done.CourseID), zap.String("email", done.Email))
		monitoring.WebhookEvents.WithLabelValues("dropped").Inc()
		return nil
	}

	created, err := s.EnrollmentRepo.CreateIfAbsent(ctx, &model.Enrollment{
		UserID:   userID,
		CourseID: done.CourseID,
		Source:   model.EnrollmentPurchase,
	})
	if err != nil {
		return err
	}

	// the event can overtake the pending row written by CreateCheckout
	if err := s.PurchaseRepo.MarkPaid(ctx, &model.Purchase{
		UserID:    userID,
		CourseID:  done.CourseID,
		SessionID: done.SessionID,
		Reference: done.Reference,
		Amount:    done.Amount,
		Currency:  strings.ToLower(done.Currency),
	}, time.Now().UTC()); err != nil {
		return err
	}

	monitoring.WebhookEvents.WithLabelValues("enrolled").Inc()
	log.Info("checkout processed",
		zap.Uint("userID", userID), zap.Uint("courseID", done.CourseID), zap.Bool("newEnrollment", created))
	return nil
}

// resolvable finds the buyer and checks the course exists. The buyer is the metadata user id
// when present and otherwise the account registered under the customer email.
func (s *CheckoutService) resolvable(ctx context.Context, done *payment.CheckoutCompleted) (uint, bool, error) {
	if done.CourseID == 0 || done.SessionID == "" {
		return 0, false, nil
	}

	var (
		user *model.User
		err  error
	)
	switch {
	case done.UserID != 0:
		user, err = s.UserRepo.FindByID(ctx, done.UserID)
	case done.Email != "":
		user, err = s.UserRepo.FindByEmail(ctx, normalizeEmail(done.Email))
	default:
		return 0, false, nil
	}
	if err != nil {
		if repository.IsNotFound(err) {
			return 0, false, nil
		}
		return 0, false, err
	}

	if _, err := s.Courses.CourseRepo.FindByID(ctx, done.CourseID); err != nil {
		if repository.IsNotFound(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return user.ID, true, nil
}
