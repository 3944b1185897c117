package service

import (
	"context"
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/testutil"
	"course_hub_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordProgressToggle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, f.db, "learner@example.com", model.RoleUser)
	course := testutil.CreateCourse(t, f.db, "intro", 1)
	testutil.Enroll(t, f.db, user.ID, course.ID)
	lesson := testutil.LessonIDs(t, f.db, course.ID)[0]

	done, err := f.progress.RecordProgress(ctx, user.ID, lesson, true)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, fixedNow, done.CompletedAt.UTC())

	undone, err := f.progress.RecordProgress(ctx, user.ID, lesson, false)
	require.NoError(t, err)
	assert.False(t, undone.Completed)
	assert.Nil(t, undone.CompletedAt)
	assert.Equal(t, done.ID, undone.ID)

	var rows []model.Progress
	require.NoError(t, f.db.Where("user_id = ? AND lesson_id = ?", user.ID, lesson).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Completed)
	assert.Nil(t, rows[0].CompletedAt)
}

func TestRecordProgressRepeatIsUpsert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, f.db, "learner@example.com", model.RoleUser)
	course := testutil.CreateCourse(t, f.db, "intro", 1)
	testutil.Enroll(t, f.db, user.ID, course.ID)
	lesson := testutil.LessonIDs(t, f.db, course.ID)[0]

	for i := 0; i < 3; i++ {
		_, err := f.progress.RecordProgress(ctx, user.ID, lesson, true)
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, f.db.Model(&model.Progress{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecordProgressDoesNotIssueCertificate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, f.db, "learner@example.com", model.RoleUser)
	course := testutil.CreateCourse(t, f.db, "intro", 1)
	testutil.Enroll(t, f.db, user.ID, course.ID)
	f.completeLessons(t, user.ID, testutil.LessonIDs(t, f.db, course.ID)...)

	_, err := f.certRepo.FindByUserAndCourse(ctx, user.ID, course.ID)
	assert.Error(t, err)
}

func TestRecordProgressErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, f.db, "learner@example.com", model.RoleUser)
	course := testutil.CreateCourse(t, f.db, "intro", 1)
	lesson := testutil.LessonIDs(t, f.db, course.ID)[0]

	_, err := f.progress.RecordProgress(ctx, user.ID, lesson, true)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	_, err = f.progress.RecordProgress(ctx, user.ID, lesson+1000, true)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}
