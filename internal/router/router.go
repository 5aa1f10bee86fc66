package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lumenlearn/lumen-api/internal/config"
	"github.com/lumenlearn/lumen-api/internal/handler"
	"github.com/lumenlearn/lumen-api/internal/middleware"
	"github.com/lumenlearn/lumen-api/internal/models"
	"github.com/lumenlearn/lumen-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	QuizHandler        *handler.QuizHandler
	SubmissionHandler  *handler.SubmissionHandler
	GradingHandler     *handler.GradingHandler
	ProgressHandler    *handler.ProgressHandler
	CertificateHandler *handler.CertificateHandler
	EnrollmentHandler  *handler.EnrollmentHandler
	UploadHandler      *handler.UploadHandler
	ActivityHandler    *handler.ActivityHandler
	JWTMiddleware      fiber.Handler
	SubmitRateLimit    fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	teacherOnly := middleware.RequireRole(models.RoleTeacher, models.RoleAdmin)

	// Lessons: quiz authoring (course author) and completion toggling
	lessons := api.Group("/lessons", jwtMiddleware)
	if deps.QuizHandler != nil {
		deps.QuizHandler.RegisterAuthoring(lessons, teacherOnly)
	}
	if deps.ProgressHandler != nil {
		deps.ProgressHandler.RegisterToggle(lessons)
	}

	// Quizzes: fetch and submit
	if deps.QuizHandler != nil {
		quizzes := api.Group("/quizzes", jwtMiddleware)
		deps.QuizHandler.Register(quizzes)

		if deps.SubmissionHandler != nil {
			submitGroup := quizzes
			if deps.SubmitRateLimit != nil {
				submitGroup = quizzes.Group("", deps.SubmitRateLimit)
			}
			deps.SubmissionHandler.RegisterSubmit(submitGroup)
		}
	}

	// Submissions: own history and detail
	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware)
		deps.SubmissionHandler.Register(submissions)
	}

	// Grading queue for course staff
	if deps.GradingHandler != nil {
		grading := api.Group("/grading", jwtMiddleware, teacherOnly)
		deps.GradingHandler.Register(grading)
	}

	// Progress overview
	if deps.ProgressHandler != nil {
		progress := api.Group("/progress", jwtMiddleware)
		deps.ProgressHandler.Register(progress)
	}

	// Courses: enrollment and certificate issuance
	courses := api.Group("/courses", jwtMiddleware)
	if deps.EnrollmentHandler != nil {
		deps.EnrollmentHandler.Register(courses)
	}
	if deps.CertificateHandler != nil {
		deps.CertificateHandler.RegisterIssue(courses)
	}

	// Certificates owned by the caller
	if deps.CertificateHandler != nil {
		certificates := api.Group("/certificates", jwtMiddleware)
		deps.CertificateHandler.Register(certificates)
	}

	// Answer artifact uploads
	if deps.UploadHandler != nil {
		uploads := api.Group("/uploads", jwtMiddleware)
		deps.UploadHandler.Register(uploads)
	}

	// Audit trail for course staff
	if deps.ActivityHandler != nil {
		activity := api.Group("/activity", jwtMiddleware, teacherOnly)
		deps.ActivityHandler.Register(activity)
	}
}
