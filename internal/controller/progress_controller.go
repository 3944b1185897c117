package controller

import (
	"course_hub_backend/internal/service"
	"course_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// swagger:model ProgressRequest
type ProgressRequest struct {
	// pointer so that an explicit false passes the required check
	Completed *bool `json:"completed" binding:"required"`
}

// RecordProgress godoc
// @Summary Mark a lesson complete or incomplete
// @Description Does not issue certificates; request one explicitly once every lesson is done.
// @Tags learner
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lesson ID"
// @Param body body ProgressRequest true "Target state"
// @Success 200 {object} util.Response{data=model.Progress}
// @Failure 403 {object} util.Response "Not enrolled"
// @Failure 404 {object} util.Response
// @Router /lessons/{id}/progress [put]
func (c *ProgressController) RecordProgress(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	lessonID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req ProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.ProgressService.RecordProgress(ctx.Request.Context(), userID, lessonID, *req.Completed)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}
