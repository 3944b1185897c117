package service

import (
	"context"
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/pkg/logger"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// ContentFile is the declarative course catalog accepted by the importer.
type ContentFile struct {
	Courses []CourseDoc `yaml:"courses"`
}

type CourseDoc struct {
	Slug        string      `yaml:"slug"`
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Price       int64       `yaml:"price"`
	Free        bool        `yaml:"free"`
	Published   bool        `yaml:"published"`
	Modules     []ModuleDoc `yaml:"modules"`
}

type ModuleDoc struct {
	Title   string      `yaml:"title"`
	Order   int         `yaml:"order"`
	Lessons []LessonDoc `yaml:"lessons"`
}

type LessonDoc struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Order       int    `yaml:"order"`
	Video       string `yaml:"video"`
	Duration    int    `yaml:"duration"`
}

type ImportResult struct {
	CoursesCreated int
	CoursesUpdated int
	Modules        int
	Lessons        int
}

// ImportService loads content files. Courses match by slug, modules and lessons by order, so
// running the same file twice leaves the catalog unchanged. Nothing is deleted.
type ImportService struct {
	DB *gorm.DB
}

func NewImportService(db *gorm.DB) *ImportService {
	return &ImportService{DB: db}
}

func (s *ImportService) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return s.Import(ctx, f)
}

func (s *ImportService) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	var doc ContentFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode content file: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}

	result := &ImportResult{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewCourseRepository(tx)
		for _, c := range doc.Courses {
			if err := importCourse(ctx, repo, c, result); err != nil {
				return fmt.Errorf("course %q: %w", c.Slug, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("content imported",
		zap.Int("coursesCreated", result.CoursesCreated),
		zap.Int("coursesUpdated", result.CoursesUpdated),
		zap.Int("modules", result.Modules),
		zap.Int("lessons", result.Lessons),
	)
	return result, nil
}

func (f *ContentFile) validate() error {
	slugs := make(map[string]bool)
	for i, c := range f.Courses {
		if c.Slug == "" || c.Title == "" {
			return fmt.Errorf("course #%d: slug and title are required", i+1)
		}
		if slugs[c.Slug] {
			return fmt.Errorf("course %q appears twice", c.Slug)
		}
		slugs[c.Slug] = true

		orders := make(map[int]bool)
		for _, m := range c.Modules {
			if orders[m.Order] {
				return fmt.Errorf("course %q: duplicate module order %d", c.Slug, m.Order)
			}
			orders[m.Order] = true

			lessonOrders := make(map[int]bool)
			for _, l := range m.Lessons {
				if lessonOrders[l.Order] {
					return fmt.Errorf("course %q module %d: duplicate lesson order %d", c.Slug, m.Order, l.Order)
				}
				lessonOrders[l.Order] = true
			}
		}
	}
	return nil
}

func importCourse(ctx context.Context, repo *repository.CourseRepository, doc CourseDoc, result *ImportResult) error {
	course, err := repo.FindBySlug(ctx, doc.Slug)
	switch {
	case err == nil:
		err = repo.Update(ctx, course.ID, map[string]interface{}{
			"title":        doc.Title,
			"description":  doc.Description,
			"price":        doc.Price,
			"is_free":      doc.Free,
			"is_published": doc.Published,
		})
		if err != nil {
			return err
		}
		result.CoursesUpdated++
	case repository.IsNotFound(err):
		course = &model.Course{
			Slug:        doc.Slug,
			Title:       doc.Title,
			Description: doc.Description,
			Price:       doc.Price,
			IsFree:      doc.Free,
			IsPublished: doc.Published,
		}
		if err := repo.Create(ctx, course); err != nil {
			return err
		}
		result.CoursesCreated++
	default:
		return err
	}

	for _, m := range doc.Modules {
		module, err := repo.FindModuleByOrder(ctx, course.ID, m.Order)
		switch {
		case err == nil:
			if err := repo.UpdateModule(ctx, module.ID, map[string]interface{}{"title": m.Title}); err != nil {
				return err
			}
		case repository.IsNotFound(err):
			module = &model.Module{CourseID: course.ID, Title: m.Title, Order: m.Order}
			if err := repo.CreateModule(ctx, module); err != nil {
				return err
			}
		default:
			return err
		}
		result.Modules++

		for _, l := range m.Lessons {
			if err := importLesson(ctx, repo, module.ID, l); err != nil {
				return err
			}
			result.Lessons++
		}
	}
	return nil
}

func importLesson(ctx context.Context, repo *repository.CourseRepository, moduleID uint, doc LessonDoc) error {
	video := doc.Video
	if video == "" {
		video = model.PlaceholderVideo
	}

	lesson, err := repo.FindLessonByOrder(ctx, moduleID, doc.Order)
	switch {
	case err == nil:
		return repo.UpdateLesson(ctx, lesson.ID, map[string]interface{}{
			"title":       doc.Title,
			"description": doc.Description,
			"video_url":   video,
			"duration":    doc.Duration,
		})
	case repository.IsNotFound(err):
		return repo.CreateLesson(ctx, &model.Lesson{
			ModuleID:    moduleID,
			Title:       doc.Title,
			Description: doc.Description,
			Order:       doc.Order,
			VideoURL:    video,
			Duration:    doc.Duration,
		})
	default:
		return err
	}
}
