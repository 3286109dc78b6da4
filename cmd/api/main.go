package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/champcode/academy-api/api/swagger"
	"github.com/champcode/academy-api/internal/handler"
	"github.com/champcode/academy-api/internal/middleware"
	"github.com/champcode/academy-api/internal/models"
	"github.com/champcode/academy-api/internal/repository"
	"github.com/champcode/academy-api/internal/service"
	"github.com/champcode/academy-api/pkg/cache"
	"github.com/champcode/academy-api/pkg/config"
	"github.com/champcode/academy-api/pkg/database"
	"github.com/champcode/academy-api/pkg/export"
	"github.com/champcode/academy-api/pkg/logger"
	corsmiddleware "github.com/champcode/academy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/champcode/academy-api/pkg/middleware/requestid"
	"github.com/champcode/academy-api/pkg/storage"
)

// @title ChampCode Academy API
// @version 1.0.0
// @description Backend for the academy marketing site and the parent, student and teacher portals
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metrics := service.NewMetricsService()

	redisClient, err := cache.NewRedis(cfg.Redis)
	cacheEnabled := err == nil
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, portal caching disabled", "error", err)
	}
	var cacheRepo service.CacheRepository
	if cacheEnabled {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}
	cacheService := service.NewCacheService(cacheRepo, metrics, cfg.Portal.CacheTTL, logr, cacheEnabled)

	userRepo := repository.NewUserRepository(db)
	childRepo := repository.NewChildRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	validate := validator.New()

	invoiceStore, err := storage.NewLocalStorage(cfg.Invoices.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare invoice storage", "error", err)
	}
	invoiceSigner := storage.NewSignedURLSigner(cfg.Invoices.SignedURLSecret, cfg.Invoices.SignedURLTTL)
	invoiceService := service.NewInvoiceService(paymentRepo, export.NewInvoiceRenderer(""), invoiceStore, invoiceSigner, service.InvoiceServiceConfig{
		Workers:    cfg.Invoices.WorkerConcurrency,
		MaxRetries: cfg.Invoices.WorkerRetries,
		PublicPath: cfg.APIPrefix + "/invoices",
	}, logr)

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	paymentService := service.NewPaymentService(paymentRepo, catalogRepo, userRepo, invoiceService, cacheService, validate, logr)
	parentService := service.NewParentService(childRepo, enrollmentRepo, lessonRepo, paymentRepo, cacheService, validate, logr)
	studentService := service.NewStudentService(childRepo, enrollmentRepo, lessonRepo, cacheService, logr)
	teacherService := service.NewTeacherService(lessonRepo, catalogRepo, cacheService, cfg.Portal.TeacherHoursTarget, logr)
	catalogService := service.NewCatalogService(catalogRepo, cacheService, logr)
	adminService := service.NewAdminService(userRepo, validate, logr)

	authHandler := handler.NewAuthHandler(authService)
	parentHandler := handler.NewParentHandler(parentService)
	studentHandler := handler.NewStudentHandler(studentService)
	teacherHandler := handler.NewTeacherHandler(teacherService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	adminHandler := handler.NewAdminHandler(adminService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/programs", catalogHandler.Programs)
		api.GET("/plans", catalogHandler.Plans)
		api.GET("/invoices/:token", invoiceHandler.Download)

		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)

			authed := auth.Group("", middleware.Authenticate(authService))
			authed.POST("/logout", authHandler.Logout)
			authed.POST("/change-password", authHandler.ChangePassword)
			authed.GET("/me", authHandler.Me)
		}

		protected := api.Group("", middleware.Authenticate(authService))

		parent := protected.Group("/parent", middleware.RequireRoles(models.RoleParent, models.RoleAdmin))
		{
			parent.GET("/dashboard", parentHandler.Dashboard)
			parent.GET("/children", parentHandler.Children)
			parent.POST("/children/link", parentHandler.LinkChild)
			parent.GET("/children/:id/lessons", parentHandler.ChildLessons)
			parent.GET("/credits", paymentHandler.Balance)
			parent.GET("/payments", paymentHandler.History)
			parent.POST("/payments", paymentHandler.Purchase)
		}

		student := protected.Group("/student", middleware.RequireRoles(models.RoleStudent, models.RoleAdmin))
		{
			student.GET("/dashboard", studentHandler.Dashboard)
			student.GET("/lessons", studentHandler.Lessons)
		}

		teacher := protected.Group("/teacher", middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin))
		{
			teacher.GET("/dashboard", teacherHandler.Dashboard)
			teacher.GET("/lessons", teacherHandler.Lessons)
			teacher.GET("/training", teacherHandler.Training)
		}

		admin := protected.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.POST("/users", adminHandler.CreateUser)
			admin.DELETE("/users/:id", adminHandler.DeactivateUser)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	invoiceService.Start(ctx)
	defer invoiceService.Stop()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		logr.Sugar().Infow("shutting down")
		_ = srv.Shutdown(context.Background())
	}()

	logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
