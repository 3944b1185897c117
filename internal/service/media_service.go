package service

import (
	"context"
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/util"
	"course_hub_backend/pkg/logger"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// VideoProber reads media metadata from a local file.
type VideoProber func(path string) (*util.VideoInfo, error)

// MediaService stores lesson videos and records their playback URL and duration.
type MediaService struct {
	Courses *CourseService
	Storage *StorageService
	TempDir string

	probe VideoProber
}

func NewMediaService(courses *CourseService, storage *StorageService, tempDir string) *MediaService {
	return &MediaService{
		Courses: courses,
		Storage: storage,
		TempDir: tempDir,
		probe:   util.GetVideoInfo,
	}
}

func isAllowedVideoExt(ext string) bool {
	for _, e := range util.AllowedVideoExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// UploadLessonVideo validates the upload, copies it to a temp file for probing and hands it
// to the storage provider. A failed probe keeps the lesson's previous duration.
func (s *MediaService) UploadLessonVideo(ctx context.Context, lessonID uint, file *multipart.FileHeader) (*model.Lesson, error) {
	lesson, err := s.Courses.FindLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !isAllowedVideoExt(ext) {
		return nil, util.ErrInvalidVideoExt
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if _, err := util.ValidateMimeType(src, []string{util.MimeVideo}); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidVideoContent, err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.TempDir, 0755); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(s.TempDir, "lesson_video_*"+ext)
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("lessons/%d/%s_%s%s", lesson.ID, time.Now().Format("20060102150405"), util.GenerateRandomString(6), ext)
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = util.MimeOctetStream
	}

	url, err := s.Storage.UploadFile(ctx, key, tmpPath, contentType)
	if err != nil {
		return nil, err
	}

	update := LessonUpdate{VideoURL: &url}
	if info, err := s.probe(tmpPath); err != nil {
		logger.Log.Warn("Failed to probe lesson video", zap.Uint("lessonID", lesson.ID), zap.Error(err))
	} else {
		duration := int(math.Round(info.Duration))
		update.Duration = &duration
	}

	return s.Courses.UpdateLesson(ctx, lesson.ID, update)
}
