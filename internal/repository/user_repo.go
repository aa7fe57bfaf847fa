package repository

import (
	"github.com/reindeer-letter/letter-backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository user data access interface
type UserRepository interface {
	Create(user *domain.User) error
	FindByID(id uint64) (*domain.User, error)
	FindByEmail(email string) (*domain.User, error)
	FindByNickname(nickname string) (*domain.User, error)
	FindByProvider(provider domain.OAuthProvider, providerUID string) (*domain.User, error)
	UpdateRefreshToken(id uint64, token string) error
	Update(user *domain.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user
func (r *userRepository) Create(user *domain.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by numeric ID
func (r *userRepository) FindByID(id uint64) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *userRepository) FindByEmail(email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByNickname finds a user by nickname
func (r *userRepository) FindByNickname(nickname string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("nickname = ?", nickname).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByProvider finds a user by OAuth provider link
func (r *userRepository) FindByProvider(provider domain.OAuthProvider, providerUID string) (*domain.User, error) {
	var user domain.User
	err := r.db.Where("provider = ? AND provider_uid = ?", provider, providerUID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateRefreshToken stores the current refresh token (empty string clears it)
func (r *userRepository) UpdateRefreshToken(id uint64, token string) error {
	return r.db.Model(&domain.User{}).
		Where("id = ?", id).
		Update("refresh_token", token).Error
}

// Update saves all fields of an existing user
func (r *userRepository) Update(user *domain.User) error {
	return r.db.Save(user).Error
}
