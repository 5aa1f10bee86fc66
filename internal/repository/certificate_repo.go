package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-api/internal/models"
)

// CertificateRepository defines data operations for certificates. Create
// relies on the (user_id, course_id) unique index; callers catch
// gorm.ErrDuplicatedKey and re-read.
type CertificateRepository interface {
	GetByUserAndCourse(ctx context.Context, userID, courseID uint) (models.Certificate, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Certificate, error)
	Create(ctx context.Context, certificate *models.Certificate) error
}

type certificateRepository struct {
	db *gorm.DB
}

// NewCertificateRepository instantiates the repository.
func NewCertificateRepository(db *gorm.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

func (r *certificateRepository) GetByUserAndCourse(ctx context.Context, userID, courseID uint) (models.Certificate, error) {
	var certificate models.Certificate
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("course_id = ?", courseID).
		First(&certificate).Error
	if err != nil {
		return models.Certificate{}, err
	}
	return certificate, nil
}

func (r *certificateRepository) ListByUser(ctx context.Context, userID uint) ([]models.Certificate, error) {
	var certificates []models.Certificate
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&certificates).Error
	if err != nil {
		return nil, err
	}
	return certificates, nil
}

func (r *certificateRepository) Create(ctx context.Context, certificate *models.Certificate) error {
	return r.db.WithContext(ctx).Create(certificate).Error
}
