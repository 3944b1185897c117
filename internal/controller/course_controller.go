package controller

import (
	"course_hub_backend/internal/service"
	"course_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// CourseController serves the catalog and the learner's view of a course.
type CourseController struct {
	CourseService     *service.CourseService
	EnrollmentService *service.EnrollmentService
	CompletionService *service.CompletionService
}

func NewCourseController(
	courseService *service.CourseService,
	enrollmentService *service.EnrollmentService,
	completionService *service.CompletionService,
) *CourseController {
	return &CourseController{
		CourseService:     courseService,
		EnrollmentService: enrollmentService,
		CompletionService: completionService,
	}
}

// ListCourses godoc
// @Summary Published courses
// @Tags catalog
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.CourseService.ListPublished(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// GetCourse godoc
// @Summary Course outline without lesson media
// @Tags catalog
// @Produce json
// @Param slug path string true "Course slug"
// @Success 200 {object} util.Response{data=model.CourseOutline}
// @Failure 404 {object} util.Response
// @Router /courses/{slug} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	outline, err := c.CourseService.GetPublicOutline(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, outline)
}

// Enroll godoc
// @Summary Enroll in a free course
// @Tags learner
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "Course slug"
// @Success 200 {object} util.Response
// @Failure 402 {object} util.Response "Course requires purchase"
// @Router /courses/{slug}/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	course, err := c.CourseService.FindPublished(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	if err := c.EnrollmentService.EnrollFree(ctx.Request.Context(), userID, course.ID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"courseId": course.ID, "enrolled": true})
}

// @Summary My enrollments
// @Tags learner
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /enrollments [get]
func (c *CourseController) ListEnrollments(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	enrollments, err := c.EnrollmentService.ListForUser(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

// Learn godoc
// @Summary Full course outline with completion flags
// @Tags learner
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "Course slug"
// @Success 200 {object} util.Response{data=model.CourseOutline}
// @Failure 403 {object} util.Response "Not enrolled"
// @Router /courses/{slug}/learn [get]
func (c *CourseController) Learn(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	outline, err := c.CourseService.GetLearnerOutline(ctx.Request.Context(), userID, ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, outline)
}

// Progress godoc
// @Summary Completion status for a course
// @Tags learner
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "Course slug"
// @Success 200 {object} util.Response{data=model.CompletionStatus}
// @Failure 403 {object} util.Response "Not enrolled"
// @Router /courses/{slug}/progress [get]
func (c *CourseController) Progress(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	course, err := c.CourseService.FindBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	status, err := c.CompletionService.EvaluateCompletion(ctx.Request.Context(), userID, course.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, status)
}
