package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/reindeer-letter/letter-backend/internal/common"
	"github.com/reindeer-letter/letter-backend/internal/domain"
	"github.com/reindeer-letter/letter-backend/internal/repository"
	"github.com/reindeer-letter/letter-backend/pkg/cache"
	"github.com/reindeer-letter/letter-backend/pkg/jwt"
	pkglogger "github.com/reindeer-letter/letter-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	verificationCodeLength  = 6
	verificationCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	verificationExpiry      = 10 * time.Minute
)

// VerificationSender sends the signup verification code mail
type VerificationSender interface {
	SendVerificationCode(to, code string) error
}

// AuthService handles registration, login, token rotation and email verification
type AuthService interface {
	Register(req *domain.RegisterRequest) (*domain.UserResponse, error)
	Login(req *domain.LoginRequest) (*domain.LoginResponse, error)
	Refresh(refreshToken string) (*domain.TokenPair, error)
	Logout(userID uint64) error
	Me(userID uint64) (*domain.UserResponse, error)
	CheckEmail(email string) error
	CheckNickname(nickname string) error
	SendVerificationCode(email string) error
	VerifyEmail(email, code string) error
}

type authService struct {
	userRepo         repository.UserRepository
	verificationRepo repository.VerificationRepository
	jwtManager       *jwt.Manager
	sender           VerificationSender
	cache            cache.Service
	now              func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, verificationRepo repository.VerificationRepository, jwtManager *jwt.Manager, sender VerificationSender, cacheService cache.Service) AuthService {
	return &authService{
		userRepo:         userRepo,
		verificationRepo: verificationRepo,
		jwtManager:       jwtManager,
		sender:           sender,
		cache:            cacheService,
		now:              time.Now,
	}
}

// Register creates a local account. The email must have completed verification
// first; duplicate email or nickname is a conflict.
func (s *authService) Register(req *domain.RegisterRequest) (*domain.UserResponse, error) {
	verification, err := s.verificationRepo.FindByEmail(req.Email)
	if err != nil || !verification.Verified {
		return nil, common.ErrVerificationRequired
	}

	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, common.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	if _, err := s.userRepo.FindByNickname(req.Nickname); err == nil {
		return nil, common.ErrNicknameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check nickname: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		PublicID: uuid.New().String(),
		Email:    req.Email,
		Nickname: req.Nickname,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user.ToResponse(), nil
}

// Login verifies credentials and issues a token pair. The refresh token is
// persisted on the user row (rotation: each login replaces the previous one).
func (s *authService) Login(req *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, common.ErrInvalidCredentials
	}

	if user.Password == "" {
		// OAuth-only account
		return nil, common.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, common.ErrInvalidCredentials
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	return &domain.LoginResponse{
		User:      user.ToResponse(),
		TokenPair: *pair,
	}, nil
}

// Refresh validates a refresh token against the stored one and rotates both
func (s *authService) Refresh(refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.VerifyToken(refreshToken)
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil || user.RefreshToken != refreshToken {
		return nil, common.ErrUnauthorized
	}

	return s.issueTokens(user)
}

// Logout clears the stored refresh token and drops the cached profile
func (s *authService) Logout(userID uint64) error {
	if err := s.userRepo.UpdateRefreshToken(userID, ""); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	if s.cache != nil && s.cache.IsAvailable() {
		if err := s.cache.InvalidateUser(context.Background(), strconv.FormatUint(userID, 10)); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Uint64("user_id", userID).Msg("user cache invalidation failed")
		}
	}
	return nil
}

// Me returns the caller's profile, read through the Redis user cache
func (s *authService) Me(userID uint64) (*domain.UserResponse, error) {
	cacheKey := strconv.FormatUint(userID, 10)

	if s.cache != nil && s.cache.IsAvailable() {
		var cached domain.UserResponse
		if err := s.cache.GetUser(context.Background(), cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	resp := user.ToResponse()
	if s.cache != nil && s.cache.IsAvailable() {
		if err := s.cache.SetUser(context.Background(), cacheKey, resp); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Uint64("user_id", userID).Msg("user cache write failed")
		}
	}
	return resp, nil
}

// CheckEmail reports a conflict if the email is already registered
func (s *authService) CheckEmail(email string) error {
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return common.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check email: %w", err)
	}
	return nil
}

// CheckNickname reports a conflict if the nickname is already taken
func (s *authService) CheckNickname(nickname string) error {
	if _, err := s.userRepo.FindByNickname(nickname); err == nil {
		return common.ErrNicknameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check nickname: %w", err)
	}
	return nil
}

// SendVerificationCode upserts a fresh code for the email and mails it
func (s *authService) SendVerificationCode(email string) error {
	code, err := generateCode(verificationCodeLength)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	v := &domain.EmailVerification{
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().Add(verificationExpiry),
	}
	if err := s.verificationRepo.Upsert(v); err != nil {
		return fmt.Errorf("save verification: %w", err)
	}

	if err := s.sender.SendVerificationCode(email, code); err != nil {
		return fmt.Errorf("send verification mail: %w", err)
	}
	return nil
}

// VerifyEmail checks the submitted code and marks the email verified
func (s *authService) VerifyEmail(email, code string) error {
	v, err := s.verificationRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrVerificationNotFound
		}
		return fmt.Errorf("find verification: %w", err)
	}

	if v.Expired(s.now()) {
		return common.ErrVerificationExpired
	}
	if v.Code != code {
		return common.ErrVerificationMismatch
	}

	if err := s.verificationRepo.MarkVerified(email); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return nil
}

func (s *authService) issueTokens(user *domain.User) (*domain.TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Nickname)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.userRepo.UpdateRefreshToken(user.ID, refreshToken); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &domain.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func generateCode(length int) (string, error) {
	code := make([]byte, length)
	max := big.NewInt(int64(len(verificationCodeCharset)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = verificationCodeCharset[n.Int64()]
	}
	return string(code), nil
}
