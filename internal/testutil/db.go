// Package testutil builds isolated in-memory databases and fixtures for package tests.
package testutil

import (
	"course_hub_backend/internal/model"
	"course_hub_backend/pkg/database"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated sqlite database private to the test. A single connection keeps
// concurrent callers serialised at the statement level, as a real server's pool would be
// by row locks.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn), logger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, email string, role model.UserRole) *model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{Email: email, Password: string(hash), Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateCourse creates a published course with one module per entry of lessonsPerModule.
// Orders are deliberately sparse so nothing depends on them being contiguous.
func CreateCourse(t *testing.T, db *gorm.DB, slug string, lessonsPerModule ...int) *model.Course {
	t.Helper()

	course := &model.Course{
		Slug:        slug,
		Title:       "Course " + slug,
		Description: "About " + slug,
		Price:       4900,
		IsPublished: true,
	}
	require.NoError(t, db.Create(course).Error)

	for m, n := range lessonsPerModule {
		module := &model.Module{CourseID: course.ID, Title: fmt.Sprintf("Module %d", m+1), Order: (m + 1) * 10}
		require.NoError(t, db.Create(module).Error)
		for l := 0; l < n; l++ {
			lesson := &model.Lesson{
				ModuleID: module.ID,
				Title:    fmt.Sprintf("Lesson %d.%d", m+1, l+1),
				Order:    (l + 1) * 5,
				VideoURL: model.PlaceholderVideo,
				Duration: 300,
			}
			require.NoError(t, db.Create(lesson).Error)
		}
	}
	return course
}

// LessonIDs returns the course's lesson ids in display order.
func LessonIDs(t *testing.T, db *gorm.DB, courseID uint) []uint {
	t.Helper()

	var ids []uint
	err := db.Model(&model.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ?", courseID).
		Order("modules.sort_order ASC, lessons.sort_order ASC").
		Pluck("lessons.id", &ids).Error
	require.NoError(t, err)
	return ids
}

func Enroll(t *testing.T, db *gorm.DB, userID, courseID uint) {
	t.Helper()
	require.NoError(t, db.Create(&model.Enrollment{UserID: userID, CourseID: courseID, Source: model.EnrollmentGrant}).Error)
}
