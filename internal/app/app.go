package app

import (
	"context"
	"course_hub_backend/internal/config"
	"course_hub_backend/internal/controller"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/service"
	"course_hub_backend/internal/util"
	"course_hub_backend/pkg/database"
	"course_hub_backend/pkg/logger"
	"course_hub_backend/pkg/monitoring"
	"course_hub_backend/pkg/payment"
	"course_hub_backend/pkg/security"
	"course_hub_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const certificateIssuer = "Course Hub"

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	Services        *Services
	tracer          *sdktrace.TracerProvider
	stop            chan struct{}
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	course      *repository.CourseRepository
	enrollment  *repository.EnrollmentRepository
	progress    *repository.ProgressRepository
	certificate *repository.CertificateRepository
	purchase    *repository.PurchaseRepository
}

// Services is exported for the command line entry points (content import).
type Services struct {
	Auth        *service.AuthService
	User        *service.UserService
	Course      *service.CourseService
	Enrollment  *service.EnrollmentService
	Completion  *service.CompletionService
	Certificate *service.CertificateService
	Renderer    *service.CertificateRenderer
	Progress    *service.ProgressService
	Storage     *service.StorageService
	Media       *service.MediaService
	Checkout    *service.CheckoutService
	Import      *service.ImportService
}

type controllers struct {
	auth        *controller.AuthController
	course      *controller.CourseController
	progress    *controller.ProgressController
	certificate *controller.CertificateController
	checkout    *controller.CheckoutController
	admin       *controller.AdminController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig hands a reloaded configuration to every registered callback.
func (a *App) ApplyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		course:      repository.NewCourseRepository(db),
		enrollment:  repository.NewEnrollmentRepository(db),
		progress:    repository.NewProgressRepository(db),
		certificate: repository.NewCertificateRepository(db),
		purchase:    repository.NewPurchaseRepository(db),
	}
}

func newGateway(cfg *config.StripeConfig) payment.Gateway {
	if cfg.SecretKey == "" {
		logger.Log.Warn("Stripe is not configured, checkout is disabled")
		return nil
	}
	return payment.NewStripeGateway(cfg.SecretKey, cfg.WebhookSecret)
}

func initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client, gateway payment.Gateway) *Services {
	s := &Services{}

	s.Auth = service.NewAuthService(repos.user, cfg)
	s.User = service.NewUserService(repos.user)
	s.Completion = service.NewCompletionService(repos.course, repos.enrollment, repos.progress)
	s.Certificate = service.NewCertificateService(s.Completion, repos.certificate, cfg.Server.PublicBaseURL)
	s.Renderer = service.NewCertificateRenderer(certificateIssuer)
	if cfg.Certificate.FontPath != "" {
		if err := s.Renderer.LoadFonts(cfg.Certificate.FontPath, cfg.Certificate.BoldFontPath); err != nil {
			logger.Log.Error("Failed to load certificate fonts, using bundled fonts", zap.Error(err))
		}
	}
	s.Progress = service.NewProgressService(repos.course, repos.enrollment, repos.progress)
	s.Course = service.NewCourseService(
		repos.course,
		repos.enrollment,
		repos.progress,
		repos.certificate,
		s.Completion,
		rdb,
		time.Duration(cfg.Redis.CatalogTTL)*time.Second,
	)
	s.Enrollment = service.NewEnrollmentService(repos.enrollment, repos.course, repos.user)
	s.Storage = service.NewStorageService(&cfg.Storage)
	s.Media = service.NewMediaService(s.Course, s.Storage, filepath.Join(os.TempDir(), "course_hub_uploads"))
	s.Checkout = service.NewCheckoutService(gateway, s.Course, repos.user, repos.enrollment, repos.purchase, &cfg.Stripe)
	s.Import = service.NewImportService(db)

	return s
}

func initControllers(s *Services, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.Auth),
		course:      controller.NewCourseController(s.Course, s.Enrollment, s.Completion),
		progress:    controller.NewProgressController(s.Progress),
		certificate: controller.NewCertificateController(s.Certificate, s.Course, s.Renderer),
		checkout:    controller.NewCheckoutController(s.Checkout),
		admin:       controller.NewAdminController(s.Course, s.Media, s.Enrollment, s.User),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, a.rateWindow(), a.stop))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) rateWindow() time.Duration {
	window := time.Duration(a.Config.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	return window
}

// newApp wires an application around an existing database; NewApp and the tests share it.
func newApp(cfg *config.Config, db *gorm.DB, rdb *redis.Client, gateway payment.Gateway) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		stop:   make(chan struct{}),
	}

	repos := initRepositories(db)
	app.Services = initServices(repos, cfg, db, rdb, gateway)
	ctrls := initControllers(app.Services, db)

	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.Mode == gin.DebugMode {
		router.Use(gin.Logger())
	}
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, ctrls, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.RegisterConfigCallback(logger.ApplyConfig)
	return app
}

func ginMode(mode string) string {
	switch mode {
	case gin.ReleaseMode, gin.TestMode:
		return mode
	default:
		return gin.DebugMode
	}
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := newApp(cfg, db, rdb, newGateway(&cfg.Stripe))

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("course-hub", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

// Close releases the resources NewApp opened.
func (a *App) Close() {
	select {
	case <-a.stop:
	default:
		close(a.stop)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

// Stopped is closed when the application shuts down.
func (a *App) Stopped() <-chan struct{} {
	return a.stop
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close()
	logger.Log.Info("Server exiting")
}
