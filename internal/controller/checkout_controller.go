package controller

import (
	"course_hub_backend/internal/service"
	"course_hub_backend/internal/util"
	"course_hub_backend/pkg/logger"
	"course_hub_backend/pkg/payment"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxWebhookBody bounds the payload read before signature verification.
const maxWebhookBody = 64 << 10

type CheckoutController struct {
	CheckoutService *service.CheckoutService
}

func NewCheckoutController(checkoutService *service.CheckoutService) *CheckoutController {
	return &CheckoutController{CheckoutService: checkoutService}
}

// CreateCheckout godoc
// @Summary Start checkout for a paid course
// @Tags checkout
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "Course slug"
// @Success 200 {object} util.Response{data=object} "Hosted checkout URL"
// @Failure 409 {object} util.Response "Already enrolled"
// @Failure 502 {object} util.Response "Payment provider unavailable"
// @Router /checkout/{slug} [post]
func (c *CheckoutController) CreateCheckout(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	session, err := c.CheckoutService.CreateCheckout(ctx.Request.Context(), userID, ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"sessionId": session.ID, "url": session.URL})
}

// Webhook godoc
// @Summary Payment provider webhook
// @Tags checkout
// @Accept json
// @Produce json
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "Bad signature"
// @Router /webhooks/stripe [post]
func (c *CheckoutController) Webhook(ctx *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxWebhookBody))
	if err != nil {
		util.BadRequest(ctx, "unreadable body")
		return
	}

	err = c.CheckoutService.HandleWebhook(ctx.Request.Context(), payload, ctx.GetHeader("Stripe-Signature"))
	switch {
	case err == nil:
		util.Success(ctx, gin.H{"received": true})
	case errors.Is(err, payment.ErrInvalidSignature):
		logger.Log.Warn("Webhook signature rejected", zap.String("clientIP", ctx.ClientIP()))
		util.Error(ctx, http.StatusBadRequest, "invalid signature")
	default:
		respondError(ctx, err)
	}
}
