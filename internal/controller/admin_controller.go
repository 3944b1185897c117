package controller

import (
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/service"
	"course_hub_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminController exposes content management, enrollment grants and user roles.
type AdminController struct {
	CourseService     *service.CourseService
	MediaService      *service.MediaService
	EnrollmentService *service.EnrollmentService
	UserService       *service.UserService
}

func NewAdminController(
	courseService *service.CourseService,
	mediaService *service.MediaService,
	enrollmentService *service.EnrollmentService,
	userService *service.UserService,
) *AdminController {
	return &AdminController{
		CourseService:     courseService,
		MediaService:      mediaService,
		EnrollmentService: enrollmentService,
		UserService:       userService,
	}
}

// swagger:model CourseRequest
type CourseRequest struct {
	Slug        string `json:"slug" binding:"required,max=191"`
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"min=0"`
	IsFree      bool   `json:"isFree"`
}

// swagger:model CourseUpdateRequest
type CourseUpdateRequest struct {
	Slug        *string `json:"slug" binding:"omitempty,min=1,max=191"`
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Price       *int64  `json:"price" binding:"omitempty,min=0"`
	IsFree      *bool   `json:"isFree"`
}

type PublishRequest struct {
	Published *bool `json:"published" binding:"required"`
}

type ModuleRequest struct {
	Title string `json:"title" binding:"required,max=255"`
	Order int    `json:"order"`
}

type ModuleUpdateRequest struct {
	Title *string `json:"title" binding:"omitempty,min=1,max=255"`
	Order *int    `json:"order"`
}

type LessonRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	VideoURL    string `json:"videoUrl" binding:"max=512"`
	Duration    int    `json:"duration" binding:"min=0"`
}

type LessonUpdateRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
	VideoURL    *string `json:"videoUrl" binding:"omitempty,max=512"`
	Duration    *int    `json:"duration" binding:"omitempty,min=0"`
}

type GrantRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type RoleRequest struct {
	Role model.UserRole `json:"role" binding:"required,oneof=user admin"`
}

// @Summary All courses including drafts
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /admin/courses [get]
func (c *AdminController) ListCourses(ctx *gin.Context) {
	courses, err := c.CourseService.ListAll(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// @Summary Course with modules and lessons
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /admin/courses/{id} [get]
func (c *AdminController) GetCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.CourseService.GetWithContent(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// CreateCourse godoc
// @Summary Create a draft course
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CourseRequest true "Course"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 409 {object} util.Response "Slug taken"
// @Router /admin/courses [post]
func (c *AdminController) CreateCourse(ctx *gin.Context) {
	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.CreateCourse(ctx.Request.Context(), service.CourseInput{
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		IsFree:      req.IsFree,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// @Summary Update course fields
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Param body body CourseUpdateRequest true "Changed fields"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /admin/courses/{id} [put]
func (c *AdminController) UpdateCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req CourseUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.UpdateCourse(ctx.Request.Context(), id, service.CourseUpdate{
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		IsFree:      req.IsFree,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// @Summary Publish or unpublish a course
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Param body body PublishRequest true "State"
// @Success 200 {object} util.Response
// @Router /admin/courses/{id}/publish [put]
func (c *AdminController) PublishCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req PublishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.CourseService.SetPublished(ctx.Request.Context(), id, *req.Published); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id, "published": *req.Published})
}

// DeleteCourse godoc
// @Summary Delete a course
// @Description Refused with 409 once any certificate was issued for it.
// @Tags admin
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Success 204
// @Failure 409 {object} util.Response
// @Router /admin/courses/{id} [delete]
func (c *AdminController) DeleteCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.CourseService.DeleteCourse(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// @Summary Add a module
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Param body body ModuleRequest true "Module"
// @Success 201 {object} util.Response{data=model.Module}
// @Router /admin/courses/{id}/modules [post]
func (c *AdminController) CreateModule(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.CourseService.CreateModule(ctx.Request.Context(), courseID, service.ModuleInput{
		Title: req.Title,
		Order: req.Order,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, module)
}

func (c *AdminController) UpdateModule(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req ModuleUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.CourseService.UpdateModule(ctx.Request.Context(), id, service.ModuleUpdate{
		Title: req.Title,
		Order: req.Order,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, module)
}

func (c *AdminController) DeleteModule(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.CourseService.DeleteModule(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// @Summary Add a lesson
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Module ID"
// @Param body body LessonRequest true "Lesson"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Router /admin/modules/{id}/lessons [post]
func (c *AdminController) CreateLesson(ctx *gin.Context) {
	moduleID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.CourseService.CreateLesson(ctx.Request.Context(), moduleID, service.LessonInput{
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
		VideoURL:    req.VideoURL,
		Duration:    req.Duration,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

func (c *AdminController) UpdateLesson(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req LessonUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.CourseService.UpdateLesson(ctx.Request.Context(), id, service.LessonUpdate{
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
		VideoURL:    req.VideoURL,
		Duration:    req.Duration,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

func (c *AdminController) DeleteLesson(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.CourseService.DeleteLesson(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// UploadLessonVideo godoc
// @Summary Upload lesson video
// @Description Stores the file and probes its duration.
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lesson ID"
// @Param file formData file true "Video file"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /admin/lessons/{id}/video [post]
func (c *AdminController) UploadLessonVideo(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	lesson, err := c.MediaService.UploadLessonVideo(ctx.Request.Context(), id, file)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// GrantEnrollment godoc
// @Summary Enroll a user by email
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Param body body GrantRequest true "User"
// @Success 200 {object} util.Response
// @Router /admin/courses/{id}/grant [post]
func (c *AdminController) GrantEnrollment(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req GrantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	created, err := c.EnrollmentService.Grant(ctx.Request.Context(), req.Email, courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"created": created})
}

// @Summary List users
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response{data=object}
// @Router /admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	page := int(util.MustParseUint(ctx.DefaultQuery("page", "1")))
	limit := int(util.MustParseUint(ctx.DefaultQuery("limit", "20")))

	users, total, err := c.UserService.List(ctx.Request.Context(), page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"items": users, "total": total})
}

func (c *AdminController) SetUserRole(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req RoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.SetRole(ctx.Request.Context(), id, req.Role); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id, "role": req.Role})
}
