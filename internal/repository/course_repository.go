package repository

import (
	"context"
	"course_hub_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func orderedModules(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, id ASC")
}

func orderedLessons(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, id ASC")
}

func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.DB.WithContext(ctx).Create(course).Error
}

// Update writes the given columns; a map keeps false and zero values.
func (r *CourseRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.DB.WithContext(ctx).Model(&model.Course{}).Where("id = ?", id).Updates(fields).Error
}

func (r *CourseRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&model.Course{}, id).Error
}

func (r *CourseRepository) FindByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	if err := r.DB.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) FindBySlug(ctx context.Context, slug string) (*model.Course, error) {
	var course model.Course
	if err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// FindWithContent loads the course with its modules and lessons in display order.
func (r *CourseRepository) FindWithContent(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).
		Preload("Modules", orderedModules).
		Preload("Modules.Lessons", orderedLessons).
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) ListPublished(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.WithContext(ctx).
		Where("is_published = ?", true).
		Order("title ASC").
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) ListAll(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) CreateModule(ctx context.Context, module *model.Module) error {
	return r.DB.WithContext(ctx).Create(module).Error
}

func (r *CourseRepository) UpdateModule(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.DB.WithContext(ctx).Model(&model.Module{}).Where("id = ?", id).Updates(fields).Error
}

func (r *CourseRepository) DeleteModule(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&model.Module{}, id).Error
}

func (r *CourseRepository) FindModule(ctx context.Context, id uint) (*model.Module, error) {
	var module model.Module
	if err := r.DB.WithContext(ctx).First(&module, id).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *CourseRepository) FindModuleByOrder(ctx context.Context, courseID uint, order int) (*model.Module, error) {
	var module model.Module
	err := r.DB.WithContext(ctx).
		Where("course_id = ? AND sort_order = ?", courseID, order).
		First(&module).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *CourseRepository) CreateLesson(ctx context.Context, lesson *model.Lesson) error {
	return r.DB.WithContext(ctx).Create(lesson).Error
}

func (r *CourseRepository) UpdateLesson(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.DB.WithContext(ctx).Model(&model.Lesson{}).Where("id = ?", id).Updates(fields).Error
}

func (r *CourseRepository) DeleteLesson(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&model.Lesson{}, id).Error
}

func (r *CourseRepository) FindLesson(ctx context.Context, id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := r.DB.WithContext(ctx).First(&lesson, id).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *CourseRepository) FindLessonByOrder(ctx context.Context, moduleID uint, order int) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.WithContext(ctx).
		Where("module_id = ? AND sort_order = ?", moduleID, order).
		First(&lesson).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// CourseIDForLesson returns the course that owns the lesson through its module.
func (r *CourseRepository) CourseIDForLesson(ctx context.Context, lessonID uint) (uint, error) {
	var courseID uint
	err := r.DB.WithContext(ctx).
		Model(&model.Lesson{}).
		Select("modules.course_id").
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("lessons.id = ?", lessonID).
		Take(&courseID).Error
	return courseID, err
}

// CountLessons counts every lesson under every module of the course.
func (r *CourseRepository) CountLessons(ctx context.Context, courseID uint) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).
		Model(&model.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ?", courseID).
		Count(&total).Error
	return total, err
}
