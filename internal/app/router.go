package app

import (
	"course_hub_backend/docs"
	"course_hub_backend/internal/config"
	"course_hub_backend/internal/middleware"
	"course_hub_backend/internal/model"
	"course_hub_backend/pkg/monitoring"
	"course_hub_backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c, cfg)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		a.registerLearnerRoutes(authGroup, c)
	}

	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:slug", c.course.GetCourse)

		public.POST("/webhooks/stripe", c.checkout.Webhook)
	}

	// anonymous certificate lookups get their own, tighter budget
	verify := router.Group("/api/certificates")
	verify.Use(security.RateLimiter(cfg.RateLimit.VerifyMaxRequests, a.rateWindow(), a.stop))
	{
		verify.GET("/verify/:certificateId", c.certificate.Verify)
		verify.GET("/:certificateId/pdf", c.certificate.Download)
	}
}

func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	rg.GET("/enrollments", c.course.ListEnrollments)
	rg.POST("/courses/:slug/enroll", c.course.Enroll)
	rg.GET("/courses/:slug/learn", c.course.Learn)
	rg.GET("/courses/:slug/progress", c.course.Progress)
	rg.PUT("/lessons/:id/progress", c.progress.RecordProgress)

	rg.POST("/courses/:slug/certificate", c.certificate.Issue)
	rg.GET("/certificates", c.certificate.ListMine)

	rg.POST("/checkout/:slug", c.checkout.CreateCheckout)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.GET("/courses", c.admin.ListCourses)
		admin.POST("/courses", c.admin.CreateCourse)
		admin.GET("/courses/:id", c.admin.GetCourse)
		admin.PUT("/courses/:id", c.admin.UpdateCourse)
		admin.DELETE("/courses/:id", c.admin.DeleteCourse)
		admin.PUT("/courses/:id/publish", c.admin.PublishCourse)
		admin.POST("/courses/:id/grant", c.admin.GrantEnrollment)

		admin.POST("/courses/:id/modules", c.admin.CreateModule)
		admin.PUT("/modules/:id", c.admin.UpdateModule)
		admin.DELETE("/modules/:id", c.admin.DeleteModule)

		admin.POST("/modules/:id/lessons", c.admin.CreateLesson)
		admin.PUT("/lessons/:id", c.admin.UpdateLesson)
		admin.DELETE("/lessons/:id", c.admin.DeleteLesson)
		admin.POST("/lessons/:id/video", c.admin.UploadLessonVideo)

		admin.GET("/users", c.admin.ListUsers)
		admin.PUT("/users/:id/role", c.admin.SetUserRole)
	}
}
