package service

import (
	"context"
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/testutil"
	"course_hub_backend/internal/util"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueCertificateIntroScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, f.db, "learner@example.com", model.RoleUser)
	course := testutil.CreateCourse(t, f.db, "intro", 2)
	testutil.Enroll(t, f.db, user.ID, course.ID)
	lessons := testutil.LessonIDs(t, f.db, course.ID)
	require.Len(t, lessons, 2)

	f.completeLessons(t, user.ID, lessons[0])

	status, err := f.completion.EvaluateCompletion(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, status.CompletedCount)
	assert.Equal(t, 2, status.TotalCount)
	assert.False(t, status.IsComplete)

	_, err = f.certificates.IssueCertificate(ctx, user.ID, course.ID)
	require.ErrorIs(t, err, util.ErrIncomplete)
	var incomplete *util.IncompleteError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, 1, incomplete.Completed)
	assert.Equal(t, 2, incomplete.Total)
	assert.Equal(t, 1, incomplete.Remaining())

	f.completeLessons(t, user.ID, lessons[1])

	status, err = f.completion.EvaluateCompletion(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, status.CompletedCount)
	assert.True(t, status.IsComplete)

	first, err := f.certificates.IssueCertificate(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, util.IsCertificateID(first.CertificateID))
	assert.Equal(t, "https://courses.example.com/certificates/verify/"+first.CertificateID, first.VerificationURL)
	assert.Equal(t, fixedNow, first.CompletionDate.UTC())

	second, err := f.certificates.IssueCertificate(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, first.CertificateID, second.CertificateID)
	assert.Equal(t, first.ID, second.ID)
}

func TestIssueCertificateIncompleteWhenAnyLessonMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, f.db, "learner@example.com", model.RoleUser)
	course := testutil.CreateCourse(t, f.db, "multi", 2, 3)
	testutil.Enroll(t, f.db, user.ID, course.ID)
	lessons := testutil.LessonIDs(t, f.db, course.ID)

	// leave each lesson out in turn
	for skip := range lessons {
		for i, id := range lessons {
			_, err := f.progress.RecordProgress(ctx, user.ID, id, i != skip)
			require.NoError(t, err)
		}

		_, err := f.certificates.IssueCertificate(ctx, user.ID, course.ID)
		require.ErrorIs(t, err, util.ErrIncomplete, "lesson %d left incomplete", lessons[skip])
	}

	var count int64
	require.NoError(t, f.db.Model(&model.Certificate{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestIssueCertificateIgnoresOtherCoursesProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, f.db, "learner@example.com", model.RoleUser)
	target := testutil.CreateCourse(t, f.db, "target", 2)
	other := testutil.CreateCourse(t, f.db, "other", 2)
	testutil.Enroll(t, f.db, user.ID, target.ID)
	testutil.Enroll(t, f.db, user.ID, other.ID)

	f.completeLessons(t, user.ID, testutil.LessonIDs(t, f.db, other.ID)...)

	status, err := f.completion.EvaluateCompletion(ctx, user.ID, target.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, status.CompletedCount)
	assert.False(t, status.IsComplete)
}

func TestEmptyCourseNeverComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, f.db, "learner@example.com", model.RoleUser)

	for name, modules := range map[string][]int{
		"no modules":    nil,
		"empty modules": {0, 0},
	} {
		t.Run(name, func(t *testing.T) {
			course := testutil.CreateCourse(t, f.db, "empty-"+util.GenerateRandomString(6), modules...)
			testutil.Enroll(t, f.db, user.ID, course.ID)

			status, err := f.completion.EvaluateCompletion(ctx, user.ID, course.ID)
			require.NoError(t, err)
			assert.Equal(t, 0, status.TotalCount)
			assert.False(t, status.IsComplete)

			_, err = f.certificates.IssueCertificate(ctx, user.ID, course.ID)
			assert.ErrorIs(t, err, util.ErrIncomplete)
		})
	}
}

func TestIssueCertificateErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, f.db, "learner@example.com", model.RoleUser)
	course := testutil.CreateCourse(t, f.db, "intro", 1)

	_, err := f.certificates.IssueCertificate(ctx, user.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	_, err = f.certificates.IssueCertificate(ctx, user.ID, course.ID+100)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestIssueCertificateConcurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, f.db, "learner@example.com", model.RoleUser)
	course := testutil.CreateCourse(t, f.db, "intro", 2)
	testutil.Enroll(t, f.db, user.ID, course.ID)
	f.completeLessons(t, user.ID, testutil.LessonIDs(t, f.db, course.ID)...)

	const callers = 8
	var (
		wg   sync.WaitGroup
		ids  = make([]string, callers)
		errs = make([]error, callers)
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cert, err := f.certificates.IssueCertificate(ctx, user.ID, course.ID)
			errs[i] = err
			if err == nil {
				ids[i] = cert.CertificateID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var count int64
	require.NoError(t, f.db.Model(&model.Certificate{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestIssueCertificateRetriesIdentifierCollision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	course := testutil.CreateCourse(t, f.db, "intro", 1)
	lesson := testutil.LessonIDs(t, f.db, course.ID)[0]
	alice := testutil.CreateUser(t, f.db, "alice@example.com", model.RoleUser)
	bob := testutil.CreateUser(t, f.db, "bob@example.com", model.RoleUser)
	for _, u := range []*model.User{alice, bob} {
		testutil.Enroll(t, f.db, u.ID, course.ID)
		f.completeLessons(t, u.ID, lesson)
	}

	sequence := []string{"AAAAAAAAAAAAAAAA", "AAAAAAAAAAAAAAAA", "BBBBBBBBBBBBBBBB"}
	f.certificates.newID = func() (string, error) {
		id := sequence[0]
		sequence = sequence[1:]
		return id, nil
	}

	first, err := f.certificates.IssueCertificate(ctx, alice.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "AAAAAAAAAAAAAAAA", first.CertificateID)

	second, err := f.certificates.IssueCertificate(ctx, bob.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "BBBBBBBBBBBBBBBB", second.CertificateID)
	assert.Equal(t, bob.ID, second.UserID)
}

func TestIssueCertificateGivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	course := testutil.CreateCourse(t, f.db, "intro", 1)
	lesson := testutil.LessonIDs(t, f.db, course.ID)[0]
	alice := testutil.CreateUser(t, f.db, "alice@example.com", model.RoleUser)
	bob := testutil.CreateUser(t, f.db, "bob@example.com", model.RoleUser)
	for _, u := range []*model.User{alice, bob} {
		testutil.Enroll(t, f.db, u.ID, course.ID)
		f.completeLessons(t, u.ID, lesson)
	}

	f.certificates.newID = func() (string, error) { return "CCCCCCCCCCCCCCCC", nil }

	_, err := f.certificates.IssueCertificate(ctx, alice.ID, course.ID)
	require.NoError(t, err)

	_, err = f.certificates.IssueCertificate(ctx, bob.ID, course.ID)
	assert.ErrorIs(t, err, errIDSpaceExhausted)
}

func TestCertificateHolderCannotBeDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, f.db, "learner@example.com", model.RoleUser)
	course := testutil.CreateCourse(t, f.db, "intro", 1)
	testutil.Enroll(t, f.db, user.ID, course.ID)
	f.completeLessons(t, user.ID, testutil.LessonIDs(t, f.db, course.ID)...)

	issued, err := f.certificates.IssueCertificate(ctx, user.ID, course.ID)
	require.NoError(t, err)

	assert.Error(t, f.db.Delete(&model.User{}, user.ID).Error)

	resolved, err := f.certificates.ResolveCertificate(ctx, issued.CertificateID)
	require.NoError(t, err)
	require.NotNil(t, resolved.User)
	assert.Equal(t, "learner@example.com", resolved.User.DisplayName())
}

func TestResolveCertificate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, f.db, "learner@example.com", model.RoleUser)
	course := testutil.CreateCourse(t, f.db, "intro", 1)
	testutil.Enroll(t, f.db, user.ID, course.ID)
	f.completeLessons(t, user.ID, testutil.LessonIDs(t, f.db, course.ID)...)

	issued, err := f.certificates.IssueCertificate(ctx, user.ID, course.ID)
	require.NoError(t, err)

	resolved, err := f.certificates.ResolveCertificate(ctx, issued.CertificateID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.UserID)
	assert.Equal(t, course.ID, resolved.CourseID)
	require.NotNil(t, resolved.User)
	require.NotNil(t, resolved.Course)
	assert.Equal(t, "learner@example.com", resolved.User.Email)
	assert.Equal(t, "intro", resolved.Course.Slug)

	for _, id := range []string{
		"ZZZZZZZZZZZZZZZZ", // well formed, never issued
		"short",
		"0000000000000000", // outside the alphabet
		"' OR '1'='1",
		"",
	} {
		_, err := f.certificates.ResolveCertificate(ctx, id)
		assert.ErrorIs(t, err, util.ErrCertificateNotFound, "id %q", id)
	}
}

func TestListForUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, f.db, "learner@example.com", model.RoleUser)
	other := testutil.CreateUser(t, f.db, "other@example.com", model.RoleUser)
	course := testutil.CreateCourse(t, f.db, "intro", 1)
	lesson := testutil.LessonIDs(t, f.db, course.ID)[0]
	for _, u := range []*model.User{user, other} {
		testutil.Enroll(t, f.db, u.ID, course.ID)
		f.completeLessons(t, u.ID, lesson)
		_, err := f.certificates.IssueCertificate(ctx, u.ID, course.ID)
		require.NoError(t, err)
	}

	certs, err := f.certificates.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.Equal(t, user.ID, certs[0].UserID)
	require.NotNil(t, certs[0].Course)
	assert.Equal(t, "intro", certs[0].Course.Slug)
}
