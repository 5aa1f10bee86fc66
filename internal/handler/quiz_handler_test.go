package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-api/internal/config"
	"github.com/lumenlearn/lumen-api/internal/dto"
	"github.com/lumenlearn/lumen-api/internal/handler"
	"github.com/lumenlearn/lumen-api/internal/models"
	"github.com/lumenlearn/lumen-api/internal/repository"
	"github.com/lumenlearn/lumen-api/internal/router"
	"github.com/lumenlearn/lumen-api/internal/service"
)

// testActor lets a single test switch between the student and the teacher
// without rebuilding the app. The JWT stub reads it on every request.
type testActor struct {
	id   uint
	role string
}

func setupAPI(t *testing.T) (*fiber.App, *gorm.DB, *testActor) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
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
	))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())
	})

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)
	events := service.NewEventPublisher(nil, logger)

	quizRepo := repository.NewQuizRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)
	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, validate, logger)
	quizService := service.NewQuizService(quizRepo, courseRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, quizRepo, validate, events, logger)
	gradingService := service.NewGradingService(submissionRepo, courseRepo, validate, activityService, events, logger)
	progressService := service.NewProgressService(progressRepo, enrollmentRepo, courseRepo, cache, time.Minute, logger)
	certificateService := service.NewCertificateService(certificateRepo, courseRepo, userRepo, progressService, activityService, events, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, logger)

	actor := &testActor{}
	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test"}, router.Dependencies{
		QuizHandler:        handler.NewQuizHandler(quizService, logger),
		SubmissionHandler:  handler.NewSubmissionHandler(submissionService, logger),
		GradingHandler:     handler.NewGradingHandler(gradingService, logger),
		ProgressHandler:    handler.NewProgressHandler(progressService, logger),
		CertificateHandler: handler.NewCertificateHandler(certificateService, logger),
		EnrollmentHandler:  handler.NewEnrollmentHandler(enrollmentService, logger),
		ActivityHandler:    handler.NewActivityHandler(activityService, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			c.Locals("user_id", actor.id)
			c.Locals("user_role", actor.role)
			return c.Next()
		},
	})

	return app, db, actor
}

// seedCatalog creates a teacher, a student, and a course with two lessons.
func seedCatalog(t *testing.T, db *gorm.DB) (teacher, student models.User, course models.Course, lessons []models.Lesson) {
	t.Helper()

	teacher = models.User{Name: "Rivai", Email: "rivai@example.com", Role: models.RoleTeacher}
	require.NoError(t, db.Create(&teacher).Error)
	student = models.User{Name: "Sinta", Email: "sinta@example.com", Role: models.RoleStudent}
	require.NoError(t, db.Create(&student).Error)

	course = models.Course{Title: "Intro to Go", AuthorID: teacher.ID}
	require.NoError(t, db.Create(&course).Error)
	module := models.Module{CourseID: course.ID, Title: "Basics"}
	require.NoError(t, db.Create(&module).Error)

	for _, title := range []string{"Values", "Control flow"} {
		lesson := models.Lesson{ModuleID: module.ID, Title: title}
		require.NoError(t, db.Create(&lesson).Error)
		lessons = append(lessons, lesson)
	}
	return teacher, student, course, lessons
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}

func quizPayload() map[string]interface{} {
	return map[string]interface{}{
		"title": "Basics check",
		"questions": []map[string]interface{}{
			{
				"text":           "Which keyword declares a variable?",
				"type":           "CHOICE",
				"points":         10,
				"options":        []string{"var", "let"},
				"correct_option": 0,
			},
			{
				"text":   "Explain zero values.",
				"type":   "TEXT",
				"points": 10,
			},
		},
	}
}

func TestQuizHandlerAuthoring(t *testing.T) {
	app, db, actor := setupAPI(t)
	teacher, _, _, lessons := seedCatalog(t, db)
	actor.id = teacher.ID
	actor.role = teacher.Role

	target := "/api/v1/lessons/" + strconv.FormatUint(uint64(lessons[0].ID), 10) + "/quiz"
	resp, err := app.Test(jsonRequest(t, "POST", target, quizPayload()))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Success bool             `json:"success"`
		Data    dto.QuizResponse `json:"data"`
		Message string           `json:"message"`
	}
	decodeResponse(t, resp, &created)
	require.True(t, created.Success)
	require.Equal(t, "quiz created", created.Message)
	require.NotZero(t, created.Data.ID)
	require.Len(t, created.Data.Questions, 2)

	// the lesson already has a quiz now
	resp, err = app.Test(jsonRequest(t, "POST", target, quizPayload()))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestQuizHandlerAuthoringRequiresTeacherRole(t *testing.T) {
	app, db, actor := setupAPI(t)
	_, student, _, lessons := seedCatalog(t, db)
	actor.id = student.ID
	actor.role = student.Role

	target := "/api/v1/lessons/" + strconv.FormatUint(uint64(lessons[0].ID), 10) + "/quiz"
	resp, err := app.Test(jsonRequest(t, "POST", target, quizPayload()))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestQuizHandlerGetHidesAnswerKeyFromStudents(t *testing.T) {
	app, db, actor := setupAPI(t)
	teacher, student, _, lessons := seedCatalog(t, db)

	actor.id = teacher.ID
	actor.role = teacher.Role
	target := "/api/v1/lessons/" + strconv.FormatUint(uint64(lessons[0].ID), 10) + "/quiz"
	resp, err := app.Test(jsonRequest(t, "POST", target, quizPayload()))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Data dto.QuizResponse `json:"data"`
	}
	decodeResponse(t, resp, &created)

	getTarget := "/api/v1/quizzes/" + strconv.FormatUint(uint64(created.Data.ID), 10)

	// author sees the answer key
	resp, err = app.Test(httptest.NewRequest("GET", getTarget, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var authorView struct {
		Data dto.QuizResponse `json:"data"`
	}
	decodeResponse(t, resp, &authorView)
	require.NotNil(t, authorView.Data.Questions[0].Options[0].IsCorrect)
	require.True(t, *authorView.Data.Questions[0].Options[0].IsCorrect)

	// students do not
	actor.id = student.ID
	actor.role = student.Role
	resp, err = app.Test(httptest.NewRequest("GET", getTarget, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var studentView struct {
		Data dto.QuizResponse `json:"data"`
	}
	decodeResponse(t, resp, &studentView)
	require.Nil(t, studentView.Data.Questions[0].Options[0].IsCorrect)
}

func TestQuizHandlerGetNotFound(t *testing.T) {
	app, db, actor := setupAPI(t)
	_, student, _, _ := seedCatalog(t, db)
	actor.id = student.ID
	actor.role = student.Role

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/quizzes/9999", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
