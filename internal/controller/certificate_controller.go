package controller

import (
	"course_hub_backend/internal/service"
	"course_hub_backend/internal/util"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificateService *service.CertificateService
	CourseService      *service.CourseService
	Renderer           *service.CertificateRenderer
}

func NewCertificateController(
	certificateService *service.CertificateService,
	courseService *service.CourseService,
	renderer *service.CertificateRenderer,
) *CertificateController {
	return &CertificateController{
		CertificateService: certificateService,
		CourseService:      courseService,
		Renderer:           renderer,
	}
}

// VerificationResult is what an anonymous verifier learns about a certificate.
// swagger:model VerificationResult
type VerificationResult struct {
	CertificateID   string    `json:"certificateId"`
	RecipientName   string    `json:"recipientName"`
	CourseTitle     string    `json:"courseTitle"`
	CourseSlug      string    `json:"courseSlug"`
	CompletionDate  time.Time `json:"completionDate"`
	VerificationURL string    `json:"verificationUrl"`
}

// Issue godoc
// @Summary Issue the course certificate
// @Description Returns the existing certificate when one was already issued.
// @Tags certificates
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "Course slug"
// @Success 200 {object} util.Response{data=model.Certificate}
// @Failure 403 {object} util.Response "Not enrolled"
// @Failure 422 {object} util.Response{data=object} "Lessons remaining"
// @Router /courses/{slug}/certificate [post]
func (c *CertificateController) Issue(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	course, err := c.CourseService.FindBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	cert, err := c.CertificateService.IssueCertificate(ctx.Request.Context(), userID, course.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, cert)
}

// @Summary My certificates
// @Tags certificates
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Certificate}
// @Router /certificates [get]
func (c *CertificateController) ListMine(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	certs, err := c.CertificateService.ListForUser(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, certs)
}

// Verify godoc
// @Summary Verify a certificate
// @Description Public. Unknown and malformed identifiers both produce a plain 404.
// @Tags certificates
// @Produce json
// @Param certificateId path string true "Certificate ID"
// @Success 200 {object} util.Response{data=VerificationResult}
// @Failure 404 {object} util.Response
// @Router /certificates/verify/{certificateId} [get]
func (c *CertificateController) Verify(ctx *gin.Context) {
	cert, err := c.CertificateService.ResolveCertificate(ctx.Request.Context(), ctx.Param("certificateId"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, VerificationResult{
		CertificateID:   cert.CertificateID,
		RecipientName:   cert.User.DisplayName(),
		CourseTitle:     cert.Course.Title,
		CourseSlug:      cert.Course.Slug,
		CompletionDate:  cert.CompletionDate,
		VerificationURL: cert.VerificationURL,
	})
}

// Download godoc
// @Summary Certificate PDF
// @Tags certificates
// @Produce application/pdf
// @Param certificateId path string true "Certificate ID"
// @Success 200 {file} binary
// @Failure 404 {object} util.Response
// @Router /certificates/{certificateId}/pdf [get]
func (c *CertificateController) Download(ctx *gin.Context) {
	cert, err := c.CertificateService.ResolveCertificate(ctx.Request.Context(), ctx.Param("certificateId"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	pdf, err := c.Renderer.Render(cert, cert.User, cert.Course)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="certificate-`+cert.CertificateID+`.pdf"`)
	ctx.Data(http.StatusOK, util.MimePDF, pdf)
}
