package repository

import (
	"github.com/reindeer-letter/letter-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VerificationRepository email verification data access interface
type VerificationRepository interface {
	Upsert(v *domain.EmailVerification) error
	FindByEmail(email string) (*domain.EmailVerification, error)
	MarkVerified(email string) error
}

type verificationRepository struct {
	db *gorm.DB
}

// NewVerificationRepository creates a new VerificationRepository
func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

// Upsert creates or replaces the verification row for an email.
// A new code always resets the verified flag.
func (r *verificationRepository) Upsert(v *domain.EmailVerification) error {
	v.Verified = false
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at", "verified", "updated_at"}),
	}).Create(v).Error
}

// FindByEmail finds the verification row for an email
func (r *verificationRepository) FindByEmail(email string) (*domain.EmailVerification, error) {
	var v domain.EmailVerification
	if err := r.db.Where("email = ?", email).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// MarkVerified flips the verified flag
func (r *verificationRepository) MarkVerified(email string) error {
	result := r.db.Model(&domain.EmailVerification{}).
		Where("email = ?", email).
		Update("verified", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
