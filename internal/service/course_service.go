package service

import (
	"context"
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/util"
	"course_hub_backend/pkg/logger"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const catalogCacheKey = "catalog:published"

type CourseService struct {
	CourseRepo      *repository.CourseRepository
	EnrollmentRepo  *repository.EnrollmentRepository
	ProgressRepo    *repository.ProgressRepository
	CertificateRepo *repository.CertificateRepository
	Completion      *CompletionService
	// Redis is optional; a nil client disables the catalog cache.
	Redis    *redis.Client
	CacheTTL time.Duration
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	progressRepo *repository.ProgressRepository,
	certificateRepo *repository.CertificateRepository,
	completion *CompletionService,
	rdb *redis.Client,
	cacheTTL time.Duration,
) *CourseService {
	return &CourseService{
		CourseRepo:      courseRepo,
		EnrollmentRepo:  enrollmentRepo,
		ProgressRepo:    progressRepo,
		CertificateRepo: certificateRepo,
		Completion:      completion,
		Redis:           rdb,
		CacheTTL:        cacheTTL,
	}
}

type CourseInput struct {
	Slug        string
	Title       string
	Description string
	Price       int64
	IsFree      bool
}

// CourseUpdate carries the fields an administrator changed; nil means unchanged.
type CourseUpdate struct {
	Slug        *string
	Title       *string
	Description *string
	Price       *int64
	IsFree      *bool
}

type ModuleInput struct {
	Title string
	Order int
}

type ModuleUpdate struct {
	Title *string
	Order *int
}

type LessonInput struct {
	Title       string
	Description string
	Order       int
	VideoURL    string
	Duration    int
}

type LessonUpdate struct {
	Title       *string
	Description *string
	Order       *int
	VideoURL    *string
	Duration    *int
}

// ListPublished returns the public catalog, served from redis when available.
func (s *CourseService) ListPublished(ctx context.Context) ([]model.Course, error) {
	if s.Redis != nil {
		val, err := s.Redis.Get(ctx, catalogCacheKey).Result()
		if err == nil {
			var courses []model.Course
			if err := json.Unmarshal([]byte(val), &courses); err == nil {
				return courses, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("Catalog cache read failed", zap.Error(err))
		}
	}

	courses, err := s.CourseRepo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(courses); err == nil {
			if err := s.Redis.Set(ctx, catalogCacheKey, data, s.CacheTTL).Err(); err != nil {
				logger.Log.Warn("Catalog cache write failed", zap.Error(err))
			}
		}
	}
	return courses, nil
}

func (s *CourseService) invalidateCatalog(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, catalogCacheKey).Err(); err != nil {
		logger.Log.Warn("Catalog cache invalidation failed", zap.Error(err))
	}
}

// FindBySlug returns any course, published or not.
func (s *CourseService) FindBySlug(ctx context.Context, slug string) (*model.Course, error) {
	course, err := s.CourseRepo.FindBySlug(ctx, slug)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// FindPublished hides draft courses behind NotFound.
func (s *CourseService) FindPublished(ctx context.Context, slug string) (*model.Course, error) {
	course, err := s.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished {
		return nil, util.ErrCourseNotFound
	}
	return course, nil
}

func buildOutline(course *model.Course, showVideo bool, completed map[uint]bool) *model.CourseOutline {
	outline := &model.CourseOutline{
		ID:          course.ID,
		Slug:        course.Slug,
		Title:       course.Title,
		Description: course.Description,
		Price:       course.Price,
		IsFree:      course.IsFree,
		Modules:     make([]model.ModuleOutline, 0, len(course.Modules)),
	}

	for _, m := range course.Modules {
		mo := model.ModuleOutline{
			ID:      m.ID,
			Title:   m.Title,
			Order:   m.Order,
			Lessons: make([]model.LessonOutline, 0, len(m.Lessons)),
		}
		for _, l := range m.Lessons {
			lo := model.LessonOutline{
				ID:        l.ID,
				Title:     l.Title,
				Order:     l.Order,
				Duration:  l.Duration,
				Completed: completed[l.ID],
			}
			if showVideo && l.HasVideo() {
				lo.VideoURL = l.VideoURL
			}
			mo.Lessons = append(mo.Lessons, lo)
		}
		outline.Modules = append(outline.Modules, mo)
	}
	return outline
}

// GetPublicOutline is the catalog page: structure without video references.
func (s *CourseService) GetPublicOutline(ctx context.Context, slug string) (*model.CourseOutline, error) {
	course, err := s.FindPublished(ctx, slug)
	if err != nil {
		return nil, err
	}
	full, err := s.CourseRepo.FindWithContent(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	return buildOutline(full, false, nil), nil
}

// GetLearnerOutline returns the full outline with the learner's completion flags.
func (s *CourseService) GetLearnerOutline(ctx context.Context, userID uint, slug string) (*model.CourseOutline, error) {
	course, err := s.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	status, err := s.Completion.EvaluateCompletion(ctx, userID, course.ID)
	if err != nil {
		return nil, err
	}

	full, err := s.CourseRepo.FindWithContent(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	completed, err := s.ProgressRepo.CompletedLessonIDs(ctx, userID, course.ID)
	if err != nil {
		return nil, err
	}

	outline := buildOutline(full, true, completed)
	outline.Completion = status
	return outline, nil
}

func (s *CourseService) ListAll(ctx context.Context) ([]model.Course, error) {
	return s.CourseRepo.ListAll(ctx)
}

func (s *CourseService) GetWithContent(ctx context.Context, id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindWithContent(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) findCourse(ctx context.Context, id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) CreateCourse(ctx context.Context, in CourseInput) (*model.Course, error) {
	course := &model.Course{
		Slug:        in.Slug,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		IsFree:      in.IsFree,
	}
	if err := s.CourseRepo.Create(ctx, course); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, util.ErrSlugTaken
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) UpdateCourse(ctx context.Context, id uint, in CourseUpdate) (*model.Course, error) {
	if _, err := s.findCourse(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Slug != nil {
		fields["slug"] = *in.Slug
	}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Price != nil {
		fields["price"] = *in.Price
	}
	if in.IsFree != nil {
		fields["is_free"] = *in.IsFree
	}

	if len(fields) > 0 {
		if err := s.CourseRepo.Update(ctx, id, fields); err != nil {
			if repository.IsUniqueViolation(err) {
				return nil, util.ErrSlugTaken
			}
			return nil, err
		}
		s.invalidateCatalog(ctx)
	}
	return s.CourseRepo.FindByID(ctx, id)
}

func (s *CourseService) SetPublished(ctx context.Context, id uint, published bool) error {
	if _, err := s.findCourse(ctx, id); err != nil {
		return err
	}
	if err := s.CourseRepo.Update(ctx, id, map[string]interface{}{"is_published": published}); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	logger.Log.Info("course publish state changed", zap.Uint("courseID", id), zap.Bool("published", published))
	return nil
}

// DeleteCourse removes a course with its modules and lessons. Courses that have issued
// certificates cannot be deleted; unpublish them instead.
func (s *CourseService) DeleteCourse(ctx context.Context, id uint) error {
	if _, err := s.findCourse(ctx, id); err != nil {
		return err
	}

	issued, err := s.CertificateRepo.CountByCourse(ctx, id)
	if err != nil {
		return err
	}
	if issued > 0 {
		return util.ErrCourseHasCertificates
	}

	if err := s.CourseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

func (s *CourseService) CreateModule(ctx context.Context, courseID uint, in ModuleInput) (*model.Module, error) {
	if _, err := s.findCourse(ctx, courseID); err != nil {
		return nil, err
	}

	module := &model.Module{CourseID: courseID, Title: in.Title, Order: in.Order}
	if err := s.CourseRepo.CreateModule(ctx, module); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, util.ErrOrderTaken
		}
		return nil, err
	}
	return module, nil
}

func (s *CourseService) findModule(ctx context.Context, id uint) (*model.Module, error) {
	module, err := s.CourseRepo.FindModule(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	return module, nil
}

func (s *CourseService) UpdateModule(ctx context.Context, id uint, in ModuleUpdate) (*model.Module, error) {
	if _, err := s.findModule(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Order != nil {
		fields["sort_order"] = *in.Order
	}

	if len(fields) > 0 {
		if err := s.CourseRepo.UpdateModule(ctx, id, fields); err != nil {
			if repository.IsUniqueViolation(err) {
				return nil, util.ErrOrderTaken
			}
			return nil, err
		}
	}
	return s.CourseRepo.FindModule(ctx, id)
}

func (s *CourseService) DeleteModule(ctx context.Context, id uint) error {
	if _, err := s.findModule(ctx, id); err != nil {
		return err
	}
	return s.CourseRepo.DeleteModule(ctx, id)
}

func (s *CourseService) CreateLesson(ctx context.Context, moduleID uint, in LessonInput) (*model.Lesson, error) {
	if _, err := s.findModule(ctx, moduleID); err != nil {
		return nil, err
	}

	videoURL := in.VideoURL
	if videoURL == "" {
		videoURL = model.PlaceholderVideo
	}

	lesson := &model.Lesson{
		ModuleID:    moduleID,
		Title:       in.Title,
		Description: in.Description,
		Order:       in.Order,
		VideoURL:    videoURL,
		Duration:    in.Duration,
	}
	if err := s.CourseRepo.CreateLesson(ctx, lesson); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, util.ErrOrderTaken
		}
		return nil, err
	}
	return lesson, nil
}

func (s *CourseService) FindLesson(ctx context.Context, id uint) (*model.Lesson, error) {
	lesson, err := s.CourseRepo.FindLesson(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}

func (s *CourseService) UpdateLesson(ctx context.Context, id uint, in LessonUpdate) (*model.Lesson, error) {
	if _, err := s.FindLesson(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Order != nil {
		fields["sort_order"] = *in.Order
	}
	if in.VideoURL != nil {
		url := *in.VideoURL
		if url == "" {
			url = model.PlaceholderVideo
		}
		fields["video_url"] = url
	}
	if in.Duration != nil {
		fields["duration"] = *in.Duration
	}

	if len(fields) > 0 {
		if err := s.CourseRepo.UpdateLesson(ctx, id, fields); err != nil {
			if repository.IsUniqueViolation(err) {
				return nil, util.ErrOrderTaken
			}
			return nil, err
		}
	}
	return s.CourseRepo.FindLesson(ctx, id)
}

// DeleteLesson removes the lesson and, through the foreign key, its progress rows. Deleting
// a lesson changes the completion total for every learner of the course.
func (s *CourseService) DeleteLesson(ctx context.Context, id uint) error {
	if _, err := s.FindLesson(ctx, id); err != nil {
		return err
	}
	return s.CourseRepo.DeleteLesson(ctx, id)
}
