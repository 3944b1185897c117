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

func TestPublicOutlineOrderingAndVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	course, err := f.courses.CreateCourse(ctx, CourseInput{Slug: "go", Title: "Go", Price: 1000})
	require.NoError(t, err)

	// created out of order with gaps
	second, err := f.courses.CreateModule(ctx, course.ID, ModuleInput{Title: "Second", Order: 20})
	require.NoError(t, err)
	first, err := f.courses.CreateModule(ctx, course.ID, ModuleInput{Title: "First", Order: 5})
	require.NoError(t, err)
	_, err = f.courses.CreateLesson(ctx, first.ID, LessonInput{Title: "B", Order: 9, VideoURL: "https://cdn/b.mp4"})
	require.NoError(t, err)
	_, err = f.courses.CreateLesson(ctx, first.ID, LessonInput{Title: "A", Order: 1})
	require.NoError(t, err)
	_, err = f.courses.CreateLesson(ctx, second.ID, LessonInput{Title: "C", Order: 3})
	require.NoError(t, err)

	_, err = f.courses.GetPublicOutline(ctx, "go")
	assert.ErrorIs(t, err, util.ErrCourseNotFound, "drafts are hidden")

	require.NoError(t, f.courses.SetPublished(ctx, course.ID, true))

	outline, err := f.courses.GetPublicOutline(ctx, "go")
	require.NoError(t, err)
	require.Len(t, outline.Modules, 2)
	assert.Equal(t, "First", outline.Modules[0].Title)
	assert.Equal(t, "Second", outline.Modules[1].Title)
	require.Len(t, outline.Modules[0].Lessons, 2)
	assert.Equal(t, "A", outline.Modules[0].Lessons[0].Title)
	assert.Equal(t, "B", outline.Modules[0].Lessons[1].Title)
	for _, m := range outline.Modules {
		for _, l := range m.Lessons {
			assert.Empty(t, l.VideoURL)
		}
	}
	assert.Nil(t, outline.Completion)
}

func TestLearnerOutline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, f.db, "learner@example.com", model.RoleUser)
	course := testutil.CreateCourse(t, f.db, "intro", 2)
	lessons := testutil.LessonIDs(t, f.db, course.ID)

	_, err := f.courses.GetLearnerOutline(ctx, user.ID, "intro")
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	testutil.Enroll(t, f.db, user.ID, course.ID)
	f.completeLessons(t, user.ID, lessons[0])

	outline, err := f.courses.GetLearnerOutline(ctx, user.ID, "intro")
	require.NoError(t, err)
	require.NotNil(t, outline.Completion)
	assert.Equal(t, 1, outline.Completion.CompletedCount)
	assert.Equal(t, 2, outline.Completion.TotalCount)
	assert.InDelta(t, 0.5, outline.Completion.Ratio, 1e-9)

	got := outline.Modules[0].Lessons
	require.Len(t, got, 2)
	assert.True(t, got[0].Completed)
	assert.False(t, got[1].Completed)
	// placeholder videos are not exposed
	assert.Empty(t, got[0].VideoURL)
}

func TestCourseAdminConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	course, err := f.courses.CreateCourse(ctx, CourseInput{Slug: "dup", Title: "One"})
	require.NoError(t, err)
	_, err = f.courses.CreateCourse(ctx, CourseInput{Slug: "dup", Title: "Two"})
	assert.ErrorIs(t, err, util.ErrSlugTaken)

	other, err := f.courses.CreateCourse(ctx, CourseInput{Slug: "other", Title: "Other"})
	require.NoError(t, err)
	taken := "dup"
	_, err = f.courses.UpdateCourse(ctx, other.ID, CourseUpdate{Slug: &taken})
	assert.ErrorIs(t, err, util.ErrSlugTaken)

	module, err := f.courses.CreateModule(ctx, course.ID, ModuleInput{Title: "M", Order: 1})
	require.NoError(t, err)
	_, err = f.courses.CreateModule(ctx, course.ID, ModuleInput{Title: "M2", Order: 1})
	assert.ErrorIs(t, err, util.ErrOrderTaken)

	_, err = f.courses.CreateLesson(ctx, module.ID, LessonInput{Title: "L", Order: 1})
	require.NoError(t, err)
	_, err = f.courses.CreateLesson(ctx, module.ID, LessonInput{Title: "L2", Order: 1})
	assert.ErrorIs(t, err, util.ErrOrderTaken)

	_, err = f.courses.CreateModule(ctx, course.ID+100, ModuleInput{Title: "X", Order: 1})
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
	_, err = f.courses.CreateLesson(ctx, module.ID+100, LessonInput{Title: "X", Order: 1})
	assert.ErrorIs(t, err, util.ErrModuleNotFound)
}

func TestUpdateCourseKeepsZeroValues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	course, err := f.courses.CreateCourse(ctx, CourseInput{Slug: "paid", Title: "Paid", Price: 4900})
	require.NoError(t, err)

	free := true
	zero := int64(0)
	updated, err := f.courses.UpdateCourse(ctx, course.ID, CourseUpdate{IsFree: &free, Price: &zero})
	require.NoError(t, err)
	assert.True(t, updated.IsFree)
	assert.Equal(t, int64(0), updated.Price)
	assert.Equal(t, "Paid", updated.Title)
}

func TestDeleteCourseWithCertificatesIsRefused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, f.db, "learner@example.com", model.RoleUser)
	course := testutil.CreateCourse(t, f.db, "intro", 1)
	testutil.Enroll(t, f.db, user.ID, course.ID)
	f.completeLessons(t, user.ID, testutil.LessonIDs(t, f.db, course.ID)...)
	cert, err := f.certificates.IssueCertificate(ctx, user.ID, course.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, f.courses.DeleteCourse(ctx, course.ID), util.ErrCourseHasCertificates)

	resolved, err := f.certificates.ResolveCertificate(ctx, cert.CertificateID)
	require.NoError(t, err)
	assert.Equal(t, course.ID, resolved.CourseID)

	empty := testutil.CreateCourse(t, f.db, "empty", 1)
	require.NoError(t, f.courses.DeleteCourse(ctx, empty.ID))
	_, err = f.courses.FindBySlug(ctx, "empty")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
	assert.Empty(t, testutil.LessonIDs(t, f.db, empty.ID))
}

func TestDeleteLessonChangesTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, f.db, "learner@example.com", model.RoleUser)
	course := testutil.CreateCourse(t, f.db, "intro", 2)
	testutil.Enroll(t, f.db, user.ID, course.ID)
	lessons := testutil.LessonIDs(t, f.db, course.ID)
	f.completeLessons(t, user.ID, lessons[0])

	require.NoError(t, f.courses.DeleteLesson(ctx, lessons[1]))

	status, err := f.completion.EvaluateCompletion(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalCount)
	assert.True(t, status.IsComplete)

	assert.ErrorIs(t, f.courses.DeleteLesson(ctx, lessons[1]), util.ErrLessonNotFound)
}

func TestListPublishedWithoutCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	testutil.CreateCourse(t, f.db, "visible", 1)
	_, err := f.courses.CreateCourse(ctx, CourseInput{Slug: "draft", Title: "Draft"})
	require.NoError(t, err)

	courses, err := f.courses.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "visible", courses[0].Slug)
}
