package service

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-api/internal/dto"
	"github.com/lumenlearn/lumen-api/internal/models"
)

type fakeCertificateRepo struct {
	existing            *models.Certificate
	existingAfterCreate *models.Certificate
	created             *models.Certificate
	createErr           error
	listed              []models.Certificate
	createCalls         int
}

func (f *fakeCertificateRepo) GetByUserAndCourse(ctx context.Context, userID, courseID uint) (models.Certificate, error) {
	if f.createCalls > 0 && f.existingAfterCreate != nil {
		return *f.existingAfterCreate, nil
	}
	if f.existing == nil {
		return models.Certificate{}, gorm.ErrRecordNotFound
	}
	return *f.existing, nil
}

func (f *fakeCertificateRepo) ListByUser(ctx context.Context, userID uint) ([]models.Certificate, error) {
	return f.listed, nil
}

func (f *fakeCertificateRepo) Create(ctx context.Context, certificate *models.Certificate) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	certificate.ID = 31
	f.created = certificate
	return nil
}

type fakeUserRepo struct {
	user models.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	return f.user, nil
}

type stubProgress struct {
	completed int
	total     int
}

func (s *stubProgress) Toggle(ctx context.Context, lessonID uint, actor Actor) (dto.ProgressResponse, error) {
	return dto.ProgressResponse{}, nil
}

func (s *stubProgress) Overview(ctx context.Context, actor Actor) ([]dto.CourseProgressResponse, error) {
	return nil, nil
}

func (s *stubProgress) CourseCompletion(ctx context.Context, course models.Course, userID uint) (int, int, error) {
	return s.completed, s.total, nil
}

func newCertificateService(certs *fakeCertificateRepo, courses *fakeCourseRepo, progress ProgressService, activity *recordedActivity) CertificateService {
	users := &fakeUserRepo{user: models.User{ID: 42, Name: "Ada Lovelace", Email: "ada@example.com"}}
	return NewCertificateService(certs, courses, users, progress, activity, noopEvents(), testLogger())
}

func TestCertificateServiceIssueRequiresFullCompletion(t *testing.T) {
	certs := &fakeCertificateRepo{}
	courses := &fakeCourseRepo{course: courseWithLessons(1, "Go Basics", 1, 2, 3)}
	svc := newCertificateService(certs, courses, &stubProgress{completed: 2, total: 3}, &recordedActivity{})

	_, err := svc.Issue(context.Background(), 1, Actor{ID: 42, Role: models.RoleStudent})
	var notEligible *NotEligibleError
	require.ErrorAs(t, err, &notEligible)
	require.Equal(t, 2, notEligible.Completed)
	require.Equal(t, 3, notEligible.Total)
	require.Equal(t, 0, certs.createCalls)
}

func TestCertificateServiceIssueRejectsEmptyCourse(t *testing.T) {
	certs := &fakeCertificateRepo{}
	courses := &fakeCourseRepo{course: models.Course{ID: 1, Title: "Empty"}}
	svc := newCertificateService(certs, courses, &stubProgress{}, &recordedActivity{})

	_, err := svc.Issue(context.Background(), 1, Actor{ID: 42})
	var notEligible *NotEligibleError
	require.ErrorAs(t, err, &notEligible)
	require.Zero(t, notEligible.Total)
}

func TestCertificateServiceIssueSnapshotsAndSerial(t *testing.T) {
	certs := &fakeCertificateRepo{}
	courses := &fakeCourseRepo{course: courseWithLessons(1, "Go Basics", 1, 2)}
	activity := &recordedActivity{}
	svc := newCertificateService(certs, courses, &stubProgress{completed: 2, total: 2}, activity)

	before := time.Now()
	result, err := svc.Issue(context.Background(), 1, Actor{ID: 42, Role: models.RoleStudent})
	require.NoError(t, err)

	require.Equal(t, "Ada Lovelace", result.StudentName)
	require.Equal(t, "Go Basics", result.CourseTitle)
	require.Equal(t, uint(1), result.CourseID)

	parts := strings.Split(result.SerialNo, "-")
	require.Len(t, parts, 3)
	require.Equal(t, "CERT", parts[0])
	millis, err := strconv.ParseInt(parts[1], 10, 64)
	require.NoError(t, err)
	require.GreaterOrEqual(t, millis, before.UnixMilli())
	require.Len(t, parts[2], 9)
	require.Equal(t, strings.ToUpper(parts[2]), parts[2])

	require.Len(t, activity.entries, 1)
	require.Equal(t, "certificate.issued", activity.entries[0].Action)
}

func TestCertificateServiceIssueIdempotent(t *testing.T) {
	existing := models.Certificate{ID: 31, SerialNo: "CERT-1-ABCDEF123", UserID: 42, CourseID: 1, StudentName: "Ada Lovelace", CourseTitle: "Go Basics"}
	certs := &fakeCertificateRepo{existing: &existing}
	courses := &fakeCourseRepo{course: courseWithLessons(1, "Go Basics", 1, 2)}
	svc := newCertificateService(certs, courses, &stubProgress{completed: 2, total: 2}, &recordedActivity{})

	result, err := svc.Issue(context.Background(), 1, Actor{ID: 42})
	require.NoError(t, err)
	require.Equal(t, existing.SerialNo, result.SerialNo)
	require.Equal(t, 0, certs.createCalls)
}

func TestCertificateServiceIssueRecoversLostCreateRace(t *testing.T) {
	winner := models.Certificate{ID: 77, SerialNo: "CERT-2-XYZXYZ999", UserID: 42, CourseID: 1}
	certs := &fakeCertificateRepo{createErr: gorm.ErrDuplicatedKey}
	courses := &fakeCourseRepo{course: courseWithLessons(1, "Go Basics", 1, 2)}
	svc := newCertificateService(certs, courses, &stubProgress{completed: 2, total: 2}, &recordedActivity{})

	// First existence check misses, Create collides, re-read finds the winner.
	certs.existingAfterCreate = &winner

	result, err := svc.Issue(context.Background(), 1, Actor{ID: 42})
	require.NoError(t, err)
	require.Equal(t, winner.SerialNo, result.SerialNo)
	require.Equal(t, 1, certs.createCalls)
}

func TestCertificateServiceIssueCourseNotFound(t *testing.T) {
	certs := &fakeCertificateRepo{}
	courses := &fakeCourseRepo{courseErr: gorm.ErrRecordNotFound}
	svc := newCertificateService(certs, courses, &stubProgress{}, &recordedActivity{})

	_, err := svc.Issue(context.Background(), 404, Actor{ID: 42})
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCertificateServiceListMine(t *testing.T) {
	certs := &fakeCertificateRepo{listed: []models.Certificate{{ID: 1, SerialNo: "CERT-1-AAA111BBB"}}}
	courses := &fakeCourseRepo{}
	svc := newCertificateService(certs, courses, &stubProgress{}, &recordedActivity{})

	result, err := svc.ListMine(context.Background(), Actor{ID: 42})
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Equal(t, "CERT-1-AAA111BBB", result[0].SerialNo)
}
