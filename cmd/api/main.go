package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/lumenlearn/lumen-api/internal/config"
	"github.com/lumenlearn/lumen-api/internal/database"
	"github.com/lumenlearn/lumen-api/internal/handler"
	"github.com/lumenlearn/lumen-api/internal/middleware"
	"github.com/lumenlearn/lumen-api/internal/models"
	"github.com/lumenlearn/lumen-api/internal/repository"
	"github.com/lumenlearn/lumen-api/internal/router"
	"github.com/lumenlearn/lumen-api/internal/service"
	cloud "github.com/lumenlearn/lumen-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Module{},
		&models.Lesson{},
		&models.Enrollment{},
		&models.Quiz{},
		&models.Question{},
		&models.Option{},
		&models.Submission{},
		&models.SubmissionAnswer{},
		&models.Progress{},
		&models.Certificate{},
		&models.ActivityLog{},
		&models.UploadRecord{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	} else {
		logger.Warn().Msg("nats url not configured, events disabled")
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	quizRepo := repository.NewQuizRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)
	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	uploadRepo := repository.NewUploadRepository(db)

	events := service.NewEventPublisher(natsConn, logger)
	activityService := service.NewActivityService(activityRepo, validate, logger)
	quizService := service.NewQuizService(quizRepo, courseRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, quizRepo, validate, events, logger)
	gradingService := service.NewGradingService(submissionRepo, courseRepo, validate, activityService, events, logger)
	progressService := service.NewProgressService(progressRepo, enrollmentRepo, courseRepo, redisClient, cfg.ProgressCacheTTL, logger)
	certificateService := service.NewCertificateService(certificateRepo, courseRepo, userRepo, progressService, activityService, events, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, logger)
	uploadService := service.NewUploadService(uploader, uploadRepo, cfg.UploadMaxMB, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		QuizHandler:        handler.NewQuizHandler(quizService, logger),
		SubmissionHandler:  handler.NewSubmissionHandler(submissionService, logger),
		GradingHandler:     handler.NewGradingHandler(gradingService, logger),
		ProgressHandler:    handler.NewProgressHandler(progressService, logger),
		CertificateHandler: handler.NewCertificateHandler(certificateService, logger),
		EnrollmentHandler:  handler.NewEnrollmentHandler(enrollmentService, logger),
		UploadHandler:      handler.NewUploadHandler(uploadService, logger),
		ActivityHandler:    handler.NewActivityHandler(activityService, logger),
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
		SubmitRateLimit:    middleware.RateLimit("quiz_submit", cfg.SubmitRateLimit, cfg.SubmitRateWindow),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
