package repository

import (
	"time"

	"github.com/reindeer-letter/letter-backend/internal/domain"
	"gorm.io/gorm"
)

// LetterRepository letter data access interface
type LetterRepository interface {
	Create(letter *domain.Letter) error
	FindByID(id uint64) (*domain.Letter, error)
	FindReceived(receiverID uint64, category domain.Category, page, limit int) ([]*domain.Letter, int64, error)
	FindSelf(userID uint64, page, limit int) ([]*domain.Letter, int64, error)
	FindDraft(id, senderID uint64) (*domain.Letter, error)
	FindDrafts(senderID uint64, page, limit int) ([]*domain.Letter, int64, error)
	UpdateDraft(id, senderID uint64, fields map[string]interface{}) error
	PromoteDraft(id, senderID uint64, fields map[string]interface{}) error
	DeleteDraft(id, senderID uint64) error
	MarkOpened(id uint64) (bool, error)
	FindDue(now time.Time) ([]*domain.Letter, error)
	MarkDelivered(id uint64) (bool, error)
}

type letterRepository struct {
	db *gorm.DB
}

// NewLetterRepository creates a new LetterRepository
func NewLetterRepository(db *gorm.DB) LetterRepository {
	return &letterRepository{db: db}
}

// Create inserts a new letter
func (r *letterRepository) Create(letter *domain.Letter) error {
	return r.db.Create(letter).Error
}

// FindByID finds a letter by ID
func (r *letterRepository) FindByID(id uint64) (*domain.Letter, error) {
	var letter domain.Letter
	if err := r.db.Where("id = ?", id).First(&letter).Error; err != nil {
		return nil, err
	}
	return &letter, nil
}

// FindReceived returns non-draft letters addressed to a user, newest first
func (r *letterRepository) FindReceived(receiverID uint64, category domain.Category, page, limit int) ([]*domain.Letter, int64, error) {
	var letters []*domain.Letter
	var total int64

	q := r.db.Model(&domain.Letter{}).
		Where("receiver_id = ? AND is_draft = ?", receiverID, false)
	if category != "" {
		q = q.Where("category = ?", category)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&letters).Error
	return letters, total, err
}

// FindSelf returns letters a user wrote to themselves, newest first
func (r *letterRepository) FindSelf(userID uint64, page, limit int) ([]*domain.Letter, int64, error) {
	var letters []*domain.Letter
	var total int64

	q := r.db.Model(&domain.Letter{}).
		Where("receiver_id = ? AND sender_id = ?", userID, userID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&letters).Error
	return letters, total, err
}

// FindDraft finds a draft owned by the given sender
func (r *letterRepository) FindDraft(id, senderID uint64) (*domain.Letter, error) {
	var letter domain.Letter
	err := r.db.Where("id = ? AND sender_id = ? AND is_draft = ?", id, senderID, true).
		First(&letter).Error
	if err != nil {
		return nil, err
	}
	return &letter, nil
}

// FindDrafts returns a sender's drafts, most recently edited first
func (r *letterRepository) FindDrafts(senderID uint64, page, limit int) ([]*domain.Letter, int64, error) {
	var letters []*domain.Letter
	var total int64

	q := r.db.Model(&domain.Letter{}).
		Where("sender_id = ? AND is_draft = ?", senderID, true)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("updated_at DESC").
		Offset(offset).Limit(limit).
		Find(&letters).Error
	return letters, total, err
}

// UpdateDraft updates a draft's fields, guarded by ownership and draft status
func (r *letterRepository) UpdateDraft(id, senderID uint64, fields map[string]interface{}) error {
	result := r.db.Model(&domain.Letter{}).
		Where("id = ? AND sender_id = ? AND is_draft = ?", id, senderID, true).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PromoteDraft flips a draft to a sent letter in place. The ownership and
// is_draft predicates live inside the UPDATE so concurrent sends of the same
// draft resolve at the row level.
func (r *letterRepository) PromoteDraft(id, senderID uint64, fields map[string]interface{}) error {
	fields["is_draft"] = false
	result := r.db.Model(&domain.Letter{}).
		Where("id = ? AND sender_id = ? AND is_draft = ?", id, senderID, true).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteDraft hard-deletes a draft, guarded by ownership
func (r *letterRepository) DeleteDraft(id, senderID uint64) error {
	result := r.db.Where("id = ? AND sender_id = ? AND is_draft = ?", id, senderID, true).
		Delete(&domain.Letter{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkOpened flips is_open exactly once. Returns whether this call did the flip.
func (r *letterRepository) MarkOpened(id uint64) (bool, error) {
	result := r.db.Model(&domain.Letter{}).
		Where("id = ? AND is_open = ?", id, false).
		Update("is_open", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindDue returns scheduled letters whose delivery date has arrived
func (r *letterRepository) FindDue(now time.Time) ([]*domain.Letter, error) {
	var letters []*domain.Letter
	err := r.db.
		Where("is_delivered = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", false, now).
		Find(&letters).Error
	return letters, err
}

// MarkDelivered flips is_delivered exactly once. The is_delivered predicate
// makes concurrent sweeps naturally idempotent; the loser sees zero rows.
func (r *letterRepository) MarkDelivered(id uint64) (bool, error) {
	result := r.db.Model(&domain.Letter{}).
		Where("id = ? AND is_delivered = ?", id, false).
		Update("is_delivered", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
