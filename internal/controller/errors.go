package controller

import (
	"course_hub_backend/internal/util"
	"course_hub_backend/pkg/payment"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{util.ErrUserNotFound, http.StatusNotFound},
	{util.ErrCourseNotFound, http.StatusNotFound},
	{util.ErrModuleNotFound, http.StatusNotFound},
	{util.ErrLessonNotFound, http.StatusNotFound},
	{util.ErrCertificateNotFound, http.StatusNotFound},
	{util.ErrNotEnrolled, http.StatusForbidden},
	{util.ErrPermissionDenied, http.StatusForbidden},
	{util.ErrInvalidCredentials, http.StatusUnauthorized},
	{util.ErrEmailRegistered, http.StatusConflict},
	{util.ErrAlreadyEnrolled, http.StatusConflict},
	{util.ErrSlugTaken, http.StatusConflict},
	{util.ErrOrderTaken, http.StatusConflict},
	{util.ErrCourseHasCertificates, http.StatusConflict},
	{util.ErrCourseNotFree, http.StatusPaymentRequired},
	{util.ErrCourseIsFree, http.StatusBadRequest},
	{util.ErrCourseNotPublished, http.StatusBadRequest},
	{util.ErrInvalidVideoExt, http.StatusBadRequest},
	{util.ErrInvalidVideoContent, http.StatusBadRequest},
	{payment.ErrInvalidSignature, http.StatusBadRequest},
	{util.ErrPaymentsDisabled, http.StatusServiceUnavailable},
	{util.ErrUpstream, http.StatusBadGateway},
}

// respondError maps service errors onto the response envelope. Anything unrecognised is
// logged and reported as a 500 without detail.
func respondError(ctx *gin.Context, err error) {
	var incomplete *util.IncompleteError
	if errors.As(err, &incomplete) {
		util.ErrorWithData(ctx, http.StatusUnprocessableEntity, incomplete.Error(), gin.H{
			"completed": incomplete.Completed,
			"total":     incomplete.Total,
			"remaining": incomplete.Remaining(),
		})
		return
	}

	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			// upstream details stay in the logs
			if e.status == http.StatusBadGateway {
				util.Error(ctx, e.status, e.err.Error())
				return
			}
			util.Error(ctx, e.status, err.Error())
			return
		}
	}

	util.LogInternalError(ctx, err)
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	id := util.MustParseUint(ctx.Param(name))
	if id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return id, true
}

func currentUserID(ctx *gin.Context) (uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return 0, false
	}
	return claims.UserID, true
}
