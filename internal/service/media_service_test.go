package service

import (
	"bytes"
	"context"
	"course_hub_backend/internal/testutil"
	"course_hub_backend/internal/util"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimal ISO BMFF header, enough for content sniffing to report video/mp4
var mp4Header = []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'm', 'p', '4', '2', 0x00, 0x00, 0x00, 0x00, 'm', 'p', '4', '2', 'i', 's', 'o', 'm'}

func multipartFile(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func newMediaService(t *testing.T, f *fixture, probe VideoProber) (*MediaService, string) {
	t.Helper()
	root := t.TempDir()
	storage := &StorageService{Provider: &LocalStorageProvider{Root: root}}
	media := NewMediaService(f.courses, storage, filepath.Join(root, "tmp"))
	media.probe = probe
	return media, root
}

func TestUploadLessonVideo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	course := testutil.CreateCourse(t, f.db, "intro", 1)
	lessonID := testutil.LessonIDs(t, f.db, course.ID)[0]

	media, root := newMediaService(t, f, func(string) (*util.VideoInfo, error) {
		return &util.VideoInfo{Duration: 61.6}, nil
	})

	lesson, err := media.UploadLessonVideo(ctx, lessonID, multipartFile(t, "Intro Clip.MP4", mp4Header))
	require.NoError(t, err)
	assert.True(t, lesson.HasVideo())
	assert.True(t, strings.HasPrefix(lesson.VideoURL, "/uploads/lessons/"))
	assert.True(t, strings.HasSuffix(lesson.VideoURL, ".mp4"))
	assert.Equal(t, 62, lesson.Duration)

	stored := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(lesson.VideoURL, "/uploads/")))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, mp4Header, data)

	leftovers, err := os.ReadDir(filepath.Join(root, "tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestUploadLessonVideoProbeFailureKeepsDuration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	course := testutil.CreateCourse(t, f.db, "intro", 1)
	lessonID := testutil.LessonIDs(t, f.db, course.ID)[0]

	media, _ := newMediaService(t, f, func(string) (*util.VideoInfo, error) {
		return nil, errors.New("ffprobe not installed")
	})

	lesson, err := media.UploadLessonVideo(ctx, lessonID, multipartFile(t, "clip.mp4", mp4Header))
	require.NoError(t, err)
	assert.True(t, lesson.HasVideo())
	assert.Equal(t, 300, lesson.Duration)
}

func TestUploadLessonVideoRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	course := testutil.CreateCourse(t, f.db, "intro", 1)
	lessonID := testutil.LessonIDs(t, f.db, course.ID)[0]
	media, _ := newMediaService(t, f, nil)

	_, err := media.UploadLessonVideo(ctx, lessonID, multipartFile(t, "notes.txt", []byte("hello")))
	assert.ErrorIs(t, err, util.ErrInvalidVideoExt)

	_, err = media.UploadLessonVideo(ctx, lessonID, multipartFile(t, "fake.mp4", []byte("plain text pretending")))
	assert.ErrorIs(t, err, util.ErrInvalidVideoContent)

	_, err = media.UploadLessonVideo(ctx, lessonID+100, multipartFile(t, "clip.mp4", mp4Header))
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}
